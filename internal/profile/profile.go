// Package profile provides normalization, validation and JSON import/export
// for the career profile the wizard works on.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/JOHNINDAKWA/coverly/pkg/models"
	"github.com/go-playground/validator/v10"
)

var yearMonthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
		return yearMonthPattern.MatchString(fl.Field().String())
	})
	return v
}

// Normalize prepares a profile for storage and rendering: identity fields
// are trimmed, skills de-duplicated and every collection made non-nil.
func Normalize(p *models.Profile) *models.Profile {
	if p == nil {
		return models.NewProfile()
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Title = strings.TrimSpace(p.Title)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Location = strings.TrimSpace(p.Location)
	p.Skills = DedupeSkills(p.Skills)
	p.Normalize()
	return p
}

// DedupeSkills drops blank entries and case-insensitive duplicates while
// keeping the first spelling and the original order.
func DedupeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// FieldError is a single problem found in a profile
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every problem found in a profile
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("profile validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Validate checks field formats. Missing data is never an error; only data
// that is present and malformed (bad email, bad YYYY-MM date, bad URL) is.
func Validate(p *models.Profile) error {
	if p == nil {
		return nil
	}
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validate profile: %w", err)
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, FieldError{
			Field:   fe.Namespace(),
			Message: describe(fe),
		})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "yearmonth", "yearmonth|eq=Present":
		return "must be YYYY-MM or Present"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// Parse decodes profile JSON, checks it against the profile schema and
// normalizes the result.
func Parse(data []byte) (*models.Profile, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}
	var p models.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return Normalize(&p), nil
}

// LoadFile reads and parses a profile JSON file
func LoadFile(path string) (*models.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile file %s: %w", path, err)
	}
	return Parse(data)
}

// Marshal encodes a profile as indented JSON
func Marshal(p *models.Profile) ([]byte, error) {
	if p == nil {
		p = models.NewProfile()
	}
	return json.MarshalIndent(p, "", "  ")
}
