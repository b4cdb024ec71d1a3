package models

import (
	"encoding/json"
	"strings"
)

// DocType is the kind of document the wizard is building
type DocType string

const (
	DocTypeCV          DocType = "cv"
	DocTypeCoverLetter DocType = "cover-letter"
)

// ParseDocType maps user input to a DocType. Anything that is not a cover
// letter is treated as a CV.
func ParseDocType(s string) DocType {
	if strings.EqualFold(strings.TrimSpace(s), string(DocTypeCoverLetter)) {
		return DocTypeCoverLetter
	}
	return DocTypeCV
}

// Present marks an ongoing job in Job.End
const Present = "Present"

// Profile represents one person's career data
type Profile struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Summary  string `json:"summary"`
	LinkedIn string `json:"linkedin"`

	Skills         []string          `json:"skills"`
	Experience     []Job             `json:"experience" validate:"dive"`
	Education      []Education       `json:"education"`
	Achievements   []Achievement     `json:"achievements"`
	Certifications []Certification   `json:"certifications"`
	References     []Reference       `json:"references" validate:"dive"`
	Projects       []Project         `json:"projects" validate:"dive"`
	Social         map[string]string `json:"social"`
}

// Job is a single work experience entry. Start and End are "YYYY-MM"
// strings, End may also be Present.
type Job struct {
	Role    string   `json:"role"`
	Company string   `json:"company"`
	City    string   `json:"city"`
	Start   string   `json:"start" validate:"omitempty,yearmonth"`
	End     string   `json:"end" validate:"omitempty,yearmonth|eq=Present"`
	Bullets []string `json:"bullets"`
}

// Education represents a school entry
type Education struct {
	School    string `json:"school"`
	Degree    string `json:"degree"`
	Field     string `json:"field"`
	StartYear string `json:"startYear"`
	EndYear   string `json:"endYear"`
}

// Achievement is a notable accomplishment. In JSON it may be a bare string,
// which becomes the title.
type Achievement struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Year        string `json:"year,omitempty"`
}

// UnmarshalJSON accepts either "text" or {"title": "text", ...}
func (a *Achievement) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Achievement{Title: s}
		return nil
	}
	type plain Achievement
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Achievement(p)
	return nil
}

// Certification represents a professional certification
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
}

// Reference represents a professional reference
type Reference struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Company string `json:"company"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
}

// Project represents a portfolio project
type Project struct {
	Name        string   `json:"name"`
	URL         string   `json:"url" validate:"omitempty,url"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Image       string   `json:"image"`
}

// NewProfile returns an empty profile with every collection initialized
func NewProfile() *Profile {
	p := &Profile{}
	p.Normalize()
	return p
}

// Normalize replaces nil collections with empty ones so renderers never have
// to tell missing from empty.
func (p *Profile) Normalize() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []Job{}
	}
	for i := range p.Experience {
		if p.Experience[i].Bullets == nil {
			p.Experience[i].Bullets = []string{}
		}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Achievements == nil {
		p.Achievements = []Achievement{}
	}
	if p.Certifications == nil {
		p.Certifications = []Certification{}
	}
	if p.References == nil {
		p.References = []Reference{}
	}
	if p.Projects == nil {
		p.Projects = []Project{}
	}
	for i := range p.Projects {
		if p.Projects[i].Tags == nil {
			p.Projects[i].Tags = []string{}
		}
	}
	if p.Social == nil {
		p.Social = map[string]string{}
	}
}

// Clone returns a deep copy of the profile
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	out := *p
	out.Skills = append([]string{}, p.Skills...)
	out.Experience = make([]Job, len(p.Experience))
	for i, j := range p.Experience {
		j.Bullets = append([]string{}, j.Bullets...)
		out.Experience[i] = j
	}
	out.Education = append([]Education{}, p.Education...)
	out.Achievements = append([]Achievement{}, p.Achievements...)
	out.Certifications = append([]Certification{}, p.Certifications...)
	out.References = append([]Reference{}, p.References...)
	out.Projects = make([]Project, len(p.Projects))
	for i, pr := range p.Projects {
		pr.Tags = append([]string{}, pr.Tags...)
		out.Projects[i] = pr
	}
	out.Social = make(map[string]string, len(p.Social))
	for k, v := range p.Social {
		out.Social[k] = v
	}
	return &out
}

// ContactLine joins email, phone and location with a bullet separator
func (p *Profile) ContactLine() string {
	return JoinNonEmpty(" • ", p.Email, p.Phone, p.Location)
}

// JoinNonEmpty joins the non-blank parts with sep
func JoinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}

// IsEmpty reports whether the certification carries no data
func (c Certification) IsEmpty() bool {
	return c.Name == "" && c.Issuer == "" && c.Year == ""
}

// IsEmpty reports whether the reference carries no data
func (r Reference) IsEmpty() bool {
	return r.Name == "" && r.Title == "" && r.Company == "" && r.Email == "" && r.Phone == ""
}

// IsEmpty reports whether the education entry carries no data
func (e Education) IsEmpty() bool {
	return e.School == "" && e.Degree == "" && e.Field == ""
}
