// Package synth builds resume and cover letter draft bodies from a profile
// and a job description using plain string heuristics. It never performs
// I/O and its output depends only on its inputs and the injected clock.
package synth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JOHNINDAKWA/coverly/pkg/models"
)

// PrimaryKey is the only draft variant produced per generation
const PrimaryKey = "primary"

// Draft maps a variant key to synthesized body text
type Draft map[string]string

// Primary returns the primary variant
func (d Draft) Primary() string {
	return d[PrimaryKey]
}

// Synthesizer turns a profile and job description into a draft body
type Synthesizer struct {
	Extractor Extractor
	// Now supplies today's date for letters and the current year for
	// "Present" jobs.
	Now func() time.Time
}

// New returns a Synthesizer with the regex extractor and the wall clock
func New() *Synthesizer {
	return &Synthesizer{Extractor: RegexExtractor{}, Now: time.Now}
}

func (s *Synthesizer) extractor() Extractor {
	if s.Extractor == nil {
		return RegexExtractor{}
	}
	return s.Extractor
}

func (s *Synthesizer) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Generate builds the single primary draft for the document type
func (s *Synthesizer) Generate(p *models.Profile, jdText string, docType models.DocType) Draft {
	var body string
	if docType == models.DocTypeCoverLetter {
		body = s.CoverLetterBody(p, jdText)
	} else {
		body = s.ResumeBody(p, jdText)
	}
	return Draft{PrimaryKey: body}
}

// ResumeBody builds a plain-text resume: header, PROFILE, SKILLS, EXPERIENCE,
// EDUCATION and then ACHIEVEMENTS, CERTIFICATIONS and REFERENCES when present.
func (s *Synthesizer) ResumeBody(p *models.Profile, jdText string) string {
	p = safe(p)

	blocks := []string{header(p)}

	summary := strings.TrimSpace(p.Summary)
	if summary == "" {
		summary = fmt.Sprintf("Applicant for %s with %d+ years' experience. Strengths: %s.",
			roleOrFallback(s.extractor(), jdText),
			YearsOfExperience(p, s.now().Year()),
			topSkills(p, 5))
	}
	blocks = append(blocks, lines("PROFILE", summary))

	if len(p.Skills) > 0 {
		blocks = append(blocks, lines("SKILLS", strings.Join(p.Skills, ", ")))
	}

	if len(p.Experience) > 0 {
		jobs := make([]string, 0, len(p.Experience))
		for _, j := range p.Experience {
			jobs = append(jobs, jobBlock(j))
		}
		blocks = append(blocks, "EXPERIENCE\n"+strings.Join(jobs, "\n\n"))
	}

	if edu := educationLines(p.Education); len(edu) > 0 {
		blocks = append(blocks, lines("EDUCATION", edu...))
	}

	if ach := achievementLines(p.Achievements); len(ach) > 0 {
		blocks = append(blocks, lines("ACHIEVEMENTS", ach...))
	}
	if certs := certificationLines(p.Certifications); len(certs) > 0 {
		blocks = append(blocks, lines("CERTIFICATIONS", certs...))
	}
	if refs := referenceLines(p.References); len(refs) > 0 {
		blocks = append(blocks, lines("REFERENCES", refs...))
	}

	return strings.Join(blocks, "\n\n")
}

// CoverLetterBody builds a plain-text letter addressed to the hiring manager
func (s *Synthesizer) CoverLetterBody(p *models.Profile, jdText string) string {
	p = safe(p)
	ex := s.extractor()
	role := roleOrFallback(ex, jdText)
	company := companyOrFallback(ex, jdText)
	years := YearsOfExperience(p, s.now().Year())

	opening := fmt.Sprintf("I am excited to apply for the %s at %s. With %d+ years' experience, I bring %s and a record of delivering results.",
		role, company, years, topSkills(p, 3))
	if extra := standoutSentence(p); extra != "" {
		opening += " " + extra
	}

	closing := fmt.Sprintf("I would welcome the opportunity to discuss how I can contribute to %s. Thank you for your time and consideration.", company)

	signature := []string{"Sincerely,", nameOrPlaceholder(p)}
	if contact := p.ContactLine(); contact != "" {
		signature = append(signature, contact)
	}

	return strings.Join([]string{
		s.now().Format("January 2, 2006"),
		"Dear Hiring Manager,",
		opening,
		lines("Highlights from my work:", highlights(p, 3)...),
		closing,
		strings.Join(signature, "\n"),
	}, "\n\n")
}

// YearsOfExperience sums end-start years over jobs whose start and end both
// begin with a 4-digit year; Present counts as currentYear. Months and
// overlapping jobs are ignored.
func YearsOfExperience(p *models.Profile, currentYear int) int {
	if p == nil {
		return 0
	}
	total := 0
	for _, j := range p.Experience {
		start, ok := leadingYear(j.Start)
		if !ok {
			continue
		}
		end := currentYear
		if !strings.EqualFold(strings.TrimSpace(j.End), models.Present) {
			if end, ok = leadingYear(j.End); !ok {
				continue
			}
		}
		if diff := end - start; diff > 0 {
			total += diff
		}
	}
	return total
}

func leadingYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return 0, false
	}
	y, err := strconv.Atoi(s[:4])
	if err != nil || y <= 0 {
		return 0, false
	}
	return y, true
}

func safe(p *models.Profile) *models.Profile {
	if p == nil {
		return models.NewProfile()
	}
	return p
}

func nameOrPlaceholder(p *models.Profile) string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return "Your Name"
}

func header(p *models.Profile) string {
	if contact := p.ContactLine(); contact != "" {
		return nameOrPlaceholder(p) + "\n" + contact
	}
	return nameOrPlaceholder(p)
}

func lines(heading string, body ...string) string {
	return strings.Join(append([]string{heading}, body...), "\n")
}

func topSkills(p *models.Profile, n int) string {
	skills := make([]string, 0, n)
	for _, s := range p.Skills {
		if len(skills) == n {
			break
		}
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	if len(skills) == 0 {
		return "relevant skills"
	}
	return strings.Join(skills, ", ")
}

func jobBlock(j models.Job) string {
	end := j.End
	if end == "" {
		end = models.Present
	}
	out := []string{}
	if title := models.JoinNonEmpty(" • ", j.Role, j.Company, j.City); title != "" {
		out = append(out, title)
	}
	out = append(out, models.JoinNonEmpty(" – ", j.Start, end))
	for _, b := range j.Bullets {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, "• "+b)
		}
	}
	return strings.Join(out, "\n")
}

func educationLines(edu []models.Education) []string {
	out := []string{}
	for _, e := range edu {
		if e.IsEmpty() {
			continue
		}
		degree := models.JoinNonEmpty(", ", e.Degree, e.Field)
		years := models.JoinNonEmpty(" – ", e.StartYear, e.EndYear)
		out = append(out, models.JoinNonEmpty(" • ", degree, e.School, years))
	}
	return out
}

func achievementLines(achievements []models.Achievement) []string {
	out := []string{}
	for _, a := range achievements {
		if text := strings.TrimSpace(a.Title); text != "" {
			out = append(out, "• "+text)
		}
	}
	return out
}

func certificationLines(certs []models.Certification) []string {
	out := []string{}
	for _, c := range certs {
		if c.IsEmpty() {
			continue
		}
		issuer := ""
		if c.Issuer != "" {
			issuer = "(" + c.Issuer + ")"
		}
		out = append(out, "• "+models.JoinNonEmpty(" ", c.Name, issuer, c.Year))
	}
	return out
}

func referenceLines(refs []models.Reference) []string {
	out := []string{}
	for _, r := range refs {
		if r.IsEmpty() {
			continue
		}
		who := models.JoinNonEmpty(", ", r.Title, r.Company)
		contact := models.JoinNonEmpty(" • ", r.Email, r.Phone)
		out = append(out, "• "+models.JoinNonEmpty(" — ", r.Name, who, contact))
	}
	return out
}

// standoutSentence mentions the first achievement, or failing that the first
// certification.
func standoutSentence(p *models.Profile) string {
	for _, a := range p.Achievements {
		if t := strings.TrimSpace(a.Title); t != "" {
			return fmt.Sprintf("A recent highlight: %s.", strings.TrimRight(t, "."))
		}
	}
	for _, c := range p.Certifications {
		if c.Name == "" {
			continue
		}
		if c.Issuer != "" {
			return fmt.Sprintf("I also hold the %s certification from %s.", c.Name, c.Issuer)
		}
		return fmt.Sprintf("I also hold the %s certification.", c.Name)
	}
	return ""
}

// highlights takes up to n accomplishment bullets, most recent job first
func highlights(p *models.Profile, n int) []string {
	out := []string{}
	for _, j := range p.Experience {
		for _, b := range j.Bullets {
			if len(out) == n {
				return out
			}
			if b = strings.TrimSpace(b); b != "" {
				out = append(out, "• "+b)
			}
		}
	}
	if len(out) == 0 {
		return []string{"• Drove measurable impact in prior roles."}
	}
	return out
}
