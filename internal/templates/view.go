package templates

import (
	"regexp"
	"sort"
	"strings"

	"github.com/JOHNINDAKWA/coverly/pkg/models"
)

const defaultSummary = "Results-driven professional focused on measurable outcomes and clear communication."

// view is the escaped-at-execution data handed to html/template. Building it
// up front keeps the layouts free of conditionals on raw profile shape.
type view struct {
	Origin   string
	Name     string
	Title    string
	Contact  string
	Email    string
	Phone    string
	Location string
	Initials string
	Summary  string

	Skills         []string
	Jobs           []jobView
	Education      []educationView
	Achievements   []achievementView
	Certifications []string
	References     []referenceView
	Projects       []projectView
	Social         []socialLink

	Paragraphs [][]string
}

type jobView struct {
	Role    string
	Meta    string
	Dates   string
	Bullets []string
}

type educationView struct {
	Heading string
	School  string
	Dates   string
}

type achievementView struct {
	Title       string
	Description string
	Year        string
}

type referenceView struct {
	Name    string
	Meta    string
	Contact string
}

type projectView struct {
	Name        string
	URL         string
	Description string
	Tags        []string
}

type socialLink struct {
	Label string
	URL   string
}

// well known networks render first, in this order
var socialOrder = []struct{ key, label string }{
	{"website", "Website"},
	{"linkedin", "LinkedIn"},
	{"github", "GitHub"},
	{"twitter", "Twitter"},
	{"dribbble", "Dribbble"},
	{"behance", "Behance"},
}

var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n+`)

func newView(in Input, origin string) view {
	p := in.Profile
	if p == nil {
		p = models.NewProfile()
	}

	v := view{
		Origin:   strings.TrimRight(origin, "/"),
		Name:     orDefault(p.Name, "Your Name"),
		Title:    strings.TrimSpace(p.Title),
		Contact:  p.ContactLine(),
		Email:    p.Email,
		Phone:    p.Phone,
		Location: p.Location,
		Initials: initials(p.Name),
		Summary:  orDefault(p.Summary, defaultSummary),
	}

	for _, s := range p.Skills {
		if s = strings.TrimSpace(s); s != "" {
			v.Skills = append(v.Skills, s)
		}
	}

	for _, j := range p.Experience {
		if j.Role == "" && j.Company == "" && len(j.Bullets) == 0 {
			continue
		}
		end := j.End
		if end == "" {
			end = models.Present
		}
		jv := jobView{
			Role:  orDefault(j.Role, "Role"),
			Meta:  models.JoinNonEmpty(" • ", j.Company, j.City),
			Dates: models.JoinNonEmpty(" – ", j.Start, end),
		}
		for _, b := range j.Bullets {
			if b = strings.TrimSpace(b); b != "" {
				jv.Bullets = append(jv.Bullets, b)
			}
		}
		v.Jobs = append(v.Jobs, jv)
	}

	for _, e := range p.Education {
		if e.IsEmpty() {
			continue
		}
		v.Education = append(v.Education, educationView{
			Heading: models.JoinNonEmpty(", ", e.Degree, e.Field),
			School:  e.School,
			Dates:   models.JoinNonEmpty(" – ", e.StartYear, e.EndYear),
		})
	}

	for _, a := range p.Achievements {
		if strings.TrimSpace(a.Title) == "" {
			continue
		}
		v.Achievements = append(v.Achievements, achievementView{
			Title:       a.Title,
			Description: a.Description,
			Year:        a.Year,
		})
	}

	for _, c := range p.Certifications {
		if c.IsEmpty() {
			continue
		}
		issuer := ""
		if c.Issuer != "" {
			issuer = "(" + c.Issuer + ")"
		}
		v.Certifications = append(v.Certifications, models.JoinNonEmpty(" ", c.Name, issuer, c.Year))
	}

	for _, r := range p.References {
		if r.IsEmpty() {
			continue
		}
		v.References = append(v.References, referenceView{
			Name:    orDefault(r.Name, "Reference"),
			Meta:    models.JoinNonEmpty(", ", r.Title, r.Company),
			Contact: models.JoinNonEmpty(" • ", r.Email, r.Phone),
		})
	}

	for _, pr := range p.Projects {
		if pr.Name == "" && pr.Description == "" {
			continue
		}
		v.Projects = append(v.Projects, projectView{
			Name:        orDefault(pr.Name, "Project"),
			URL:         pr.URL,
			Description: pr.Description,
			Tags:        pr.Tags,
		})
	}

	v.Social = socialLinks(p)

	if in.DocType == models.DocTypeCoverLetter {
		v.Paragraphs = paragraphs(in.Body)
	}
	return v
}

// socialLinks orders known networks first and the rest alphabetically, so
// map iteration never leaks into the output.
func socialLinks(p *models.Profile) []socialLink {
	seen := map[string]bool{}
	var out []socialLink
	add := func(key, label string) {
		url := strings.TrimSpace(p.Social[key])
		if url == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, socialLink{Label: label, URL: url})
	}

	if p.LinkedIn != "" && strings.TrimSpace(p.Social["linkedin"]) == "" {
		seen["linkedin"] = true
		out = append(out, socialLink{Label: "LinkedIn", URL: p.LinkedIn})
	}
	for _, s := range socialOrder {
		add(s.key, s.label)
	}

	rest := make([]string, 0, len(p.Social))
	for k := range p.Social {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		add(k, k)
	}
	return out
}

// paragraphs splits a letter body on blank lines; single newlines inside a
// paragraph become line breaks.
func paragraphs(body string) [][]string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	var out [][]string
	for _, para := range paragraphBreak.Split(strings.TrimSpace(body), -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		var ls []string
		for _, l := range strings.Split(para, "\n") {
			ls = append(ls, strings.TrimSpace(l))
		}
		out = append(out, ls)
	}
	return out
}

func initials(name string) string {
	var out []rune
	for _, part := range strings.Fields(name) {
		out = append(out, []rune(part)[0])
		if len(out) == 2 {
			break
		}
	}
	return strings.ToUpper(string(out))
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}
