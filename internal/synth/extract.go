package synth

import (
	"regexp"
	"strings"
)

const (
	// FallbackRole is used when no role can be found in the job description
	FallbackRole = "the advertised role"
	// FallbackCompany is used when no company can be found in the job description
	FallbackCompany = "your company"
)

// Extractor pulls a role and a company label out of free-form job
// description text. Implementations return "" when nothing matches.
type Extractor interface {
	Role(text string) string
	Company(text string) string
}

var (
	rolePattern = regexp.MustCompile(`(?i)(?:(?:Senior|Lead|Junior)\s+)?(?:Product Manager|Software Engineer|Developer|Designer|Data Analyst|Accountant|Marketing Manager|Customer Support|Operations Manager|Project Manager)`)

	// "at Acme Corp", "with Globex" ... a run of capitalized words on one line
	companyPattern = regexp.MustCompile(`\b(?:at|with)[ \t]+([A-Z][A-Za-z0-9&.\-]*(?:[ \t]+[A-Z0-9&][A-Za-z0-9&.\-]*)*)`)
)

// RegexExtractor is the default single-pass pattern matcher. The first match
// wins and there is no disambiguation between candidates.
type RegexExtractor struct{}

// Role returns the first job title from the fixed vocabulary, optionally
// prefixed by Senior, Lead or Junior.
func (RegexExtractor) Role(text string) string {
	return strings.TrimSpace(rolePattern.FindString(text))
}

// Company returns the first capitalized phrase following "at" or "with"
func (RegexExtractor) Company(text string) string {
	m := companyPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	company := m[1]
	// a period followed by another capitalized word ends the sentence
	if idx := strings.Index(company, ". "); idx >= 0 {
		company = company[:idx]
	}
	company = strings.TrimRight(strings.TrimSpace(company), ".-")
	if len(company) < 3 {
		return ""
	}
	return company
}

func roleOrFallback(e Extractor, text string) string {
	if role := e.Role(text); role != "" {
		return role
	}
	return FallbackRole
}

func companyOrFallback(e Extractor, text string) string {
	if company := e.Company(text); company != "" {
		return company
	}
	return FallbackCompany
}
