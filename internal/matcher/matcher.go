package matcher

import (
	"regexp"
	"strings"

	"github.com/JOHNINDAKWA/coverly/pkg/models"
)

// Result is how well a profile lines up with a job description
type Result struct {
	// Score is between 0.0 and 1.0
	Score         float64
	MatchedSkills []string
}

type factor struct {
	weight float64
	score  float64
}

// Score rates p against the job description text. role is the title pulled
// from the description, or "" when none was found. An empty description is
// neutral.
func Score(p *models.Profile, jd, role string) Result {
	if p == nil || strings.TrimSpace(jd) == "" {
		return Result{Score: 0.5, MatchedSkills: []string{}}
	}
	descLower := strings.ToLower(jd)

	matched := matchSkills(descLower, p.Skills)
	factors := []factor{
		{0.4, ratio(len(matched), len(p.Skills))},
		{0.3, matchExperience(descLower, p.Experience)},
		{0.15, matchLocation(descLower, p.Location)},
		{0.15, matchTitle(strings.ToLower(role), p.Experience)},
	}

	total, weights := 0.0, 0.0
	for _, f := range factors {
		total += f.weight * f.score
		weights += f.weight
	}
	return Result{Score: total / weights, MatchedSkills: matched}
}

// ratio is matched/total, neutral when there is nothing to compare
func ratio(matched, total int) float64 {
	if total == 0 {
		return 0.5
	}
	return float64(matched) / float64(total)
}

// matchSkills returns the skills named in the description. Skills match on
// word boundaries so "Go" does not hit "good".
func matchSkills(descLower string, skills []string) []string {
	matched := []string{}
	for _, skill := range skills {
		s := strings.ToLower(strings.TrimSpace(skill))
		if s == "" {
			continue
		}
		if containsWord(descLower, s) {
			matched = append(matched, skill)
		}
	}
	return matched
}

func containsWord(text, word string) bool {
	re, err := regexp.Compile(`(^|[^a-z0-9+#.])` + regexp.QuoteMeta(word) + `($|[^a-z0-9+#])`)
	if err != nil {
		return strings.Contains(text, word)
	}
	return re.MatchString(text)
}

// matchExperience counts jobs whose role or company appears in the description
func matchExperience(descLower string, jobs []models.Job) float64 {
	matched := 0
	for _, j := range jobs {
		role := strings.ToLower(strings.TrimSpace(j.Role))
		company := strings.ToLower(strings.TrimSpace(j.Company))
		if (role != "" && strings.Contains(descLower, role)) || (company != "" && strings.Contains(descLower, company)) {
			matched++
		}
	}
	return ratio(matched, len(jobs))
}

// matchLocation looks for the candidate's location in the description
func matchLocation(descLower, location string) float64 {
	loc := strings.ToLower(strings.TrimSpace(location))
	if loc == "" {
		return 0.5
	}

	if strings.Contains(descLower, loc) {
		return 1.0
	}
	if strings.Contains(descLower, "remote") {
		return 0.8
	}

	// same city or country
	for _, part := range strings.FieldsFunc(loc, func(r rune) bool { return r == ',' || r == ' ' }) {
		if len(part) > 3 && strings.Contains(descLower, part) {
			return 0.6
		}
	}
	return 0.3
}

// matchTitle checks the share of past roles that share a keyword with the
// advertised role
func matchTitle(roleLower string, jobs []models.Job) float64 {
	keywords := extractKeywords(roleLower)
	if len(keywords) == 0 || len(jobs) == 0 {
		return 0.5
	}

	matched := 0
	for _, j := range jobs {
		jobRole := strings.ToLower(j.Role)
		for _, keyword := range keywords {
			if strings.Contains(jobRole, keyword) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(jobs))
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true,
	"senior": true, "junior": true, "lead": true,
}

// extractKeywords extracts meaningful keywords from a job title
func extractKeywords(title string) []string {
	keywords := []string{}
	for _, word := range strings.Fields(title) {
		word = strings.Trim(word, ".,!?;:")
		if len(word) > 3 && !stopWords[word] {
			keywords = append(keywords, word)
		}
	}
	return keywords
}
