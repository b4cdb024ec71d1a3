package synth

import (
	"strings"
	"testing"
	"time"

	"github.com/JOHNINDAKWA/coverly/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
}

func newTestSynth() *Synthesizer {
	return &Synthesizer{Extractor: RegexExtractor{}, Now: fixedClock}
}

func janeProfile() *models.Profile {
	p := models.NewProfile()
	p.Name = "Jane Doe"
	p.Email = "jane@x.com"
	p.Skills = []string{"React", "Node"}
	p.Experience = []models.Job{{
		Role:    "Engineer",
		Company: "Acme",
		Start:   "2020-01",
		End:     "Present",
		Bullets: []string{"Shipped X"},
	}}
	return p
}

func TestYearsOfExperience(t *testing.T) {
	p := &models.Profile{Experience: []models.Job{
		{Start: "2018-01", End: "2020-01"},
		{Start: "2021-06", End: "Present"},
	}}
	assert.Equal(t, 5, YearsOfExperience(p, 2024))
}

func TestYearsOfExperience_Unparsable(t *testing.T) {
	tests := []struct {
		name string
		job  models.Job
		want int
	}{
		{name: "missing start", job: models.Job{End: "2020-01"}, want: 0},
		{name: "missing end", job: models.Job{Start: "2020-01"}, want: 0},
		{name: "text dates", job: models.Job{Start: "last year", End: "now"}, want: 0},
		{name: "end before start", job: models.Job{Start: "2022-01", End: "2020-01"}, want: 0},
		{name: "present lowercase", job: models.Job{Start: "2020-05", End: "present"}, want: 4},
		{name: "year only", job: models.Job{Start: "2019", End: "2021"}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &models.Profile{Experience: []models.Job{tt.job}}
			assert.Equal(t, tt.want, YearsOfExperience(p, 2024))
		})
	}
	assert.Equal(t, 0, YearsOfExperience(nil, 2024))
}

func TestRegexExtractor(t *testing.T) {
	ex := RegexExtractor{}
	tests := []struct {
		text    string
		role    string
		company string
	}{
		{"Senior Software Engineer at Acme Corp", "Senior Software Engineer", "Acme Corp"},
		{"We are hiring a Data Analyst to join us at Globex. Apply now.", "Data Analyst", "Globex"},
		{"Lead Designer with Initech in Nairobi", "Lead Designer", "Initech"},
		{"Join as a developer", "developer", ""},
		{"", "", ""},
		{"Barista wanted at the corner", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.role, ex.Role(tt.text))
			assert.Equal(t, tt.company, ex.Company(tt.text))
		})
	}
}

func TestRegexExtractor_FirstMatchWins(t *testing.T) {
	ex := RegexExtractor{}
	text := "Product Manager or Project Manager at Alpha Labs, also with Beta Inc"
	assert.Equal(t, "Product Manager", ex.Role(text))
	assert.Equal(t, "Alpha Labs", ex.Company(text))
}

func TestResumeBody_Scenario(t *testing.T) {
	body := newTestSynth().ResumeBody(janeProfile(), "Senior Software Engineer at Acme Corp")

	assert.Contains(t, body, "Jane Doe\njane@x.com")
	assert.Contains(t, body, "Engineer • Acme")
	assert.Contains(t, body, "2020-01 – Present")
	assert.Contains(t, body, "• Shipped X")
	assert.Contains(t, body, "Applicant for Senior Software Engineer with 4+ years' experience. Strengths: React, Node.")
	assert.Contains(t, body, "SKILLS\nReact, Node")
	assert.NotContains(t, body, "EDUCATION")
	assert.NotContains(t, body, "ACHIEVEMENTS")
}

func TestResumeBody_SummaryVerbatim(t *testing.T) {
	p := janeProfile()
	p.Summary = "  Builder of things.  "
	body := newTestSynth().ResumeBody(p, "")
	assert.Contains(t, body, "PROFILE\nBuilder of things.")
	assert.NotContains(t, body, "Applicant for")

	p.Summary = "   "
	body = newTestSynth().ResumeBody(p, "")
	assert.Contains(t, body, "Applicant for the advertised role")
}

func TestResumeBody_OptionalBlocksOrder(t *testing.T) {
	p := janeProfile()
	p.Education = []models.Education{{School: "MIT", Degree: "BSc", Field: "CS", StartYear: "2012", EndYear: "2016"}}
	p.Achievements = []models.Achievement{{Title: "Won hackathon"}}
	p.Certifications = []models.Certification{{Name: "CKA", Issuer: "CNCF", Year: "2022"}}
	p.References = []models.Reference{{Name: "Bob", Title: "CTO", Company: "Acme", Email: "bob@acme.io"}}

	body := newTestSynth().ResumeBody(p, "")
	assert.Contains(t, body, "BSc, CS • MIT • 2012 – 2016")
	assert.Contains(t, body, "• CKA (CNCF) 2022")
	assert.Contains(t, body, "• Bob — CTO, Acme — bob@acme.io")

	order := []string{"PROFILE", "SKILLS", "EXPERIENCE", "EDUCATION", "ACHIEVEMENTS", "CERTIFICATIONS", "REFERENCES"}
	last := -1
	for _, h := range order {
		idx := strings.Index(body, h)
		require.GreaterOrEqual(t, idx, 0, "missing %s", h)
		assert.Greater(t, idx, last, "%s out of order", h)
		last = idx
	}
}

func TestCoverLetterBody(t *testing.T) {
	p := janeProfile()
	p.Experience = append(p.Experience, models.Job{Role: "Intern", Bullets: []string{"Fixed bugs", "Wrote docs", "Ran tests"}})
	p.Achievements = []models.Achievement{{Title: "Won hackathon"}}

	body := newTestSynth().CoverLetterBody(p, "Senior Software Engineer at Acme Corp")

	assert.True(t, strings.HasPrefix(body, "March 5, 2024\n\nDear Hiring Manager,"))
	assert.Contains(t, body, "I am excited to apply for the Senior Software Engineer at Acme Corp. With 4+ years' experience, I bring React, Node")
	assert.Contains(t, body, "A recent highlight: Won hackathon.")
	assert.Contains(t, body, "Highlights from my work:\n• Shipped X\n• Fixed bugs\n• Wrote docs")
	assert.NotContains(t, body, "Ran tests")
	assert.Contains(t, body, "contribute to Acme Corp")
	assert.True(t, strings.HasSuffix(body, "Sincerely,\nJane Doe\njane@x.com"))
}

func TestCoverLetterBody_Fallbacks(t *testing.T) {
	p := models.NewProfile()
	p.Certifications = []models.Certification{{Name: "PMP", Issuer: "PMI"}}
	body := newTestSynth().CoverLetterBody(p, "no recognisable content here")

	assert.Contains(t, body, "the advertised role at your company")
	assert.Contains(t, body, "I bring relevant skills")
	assert.Contains(t, body, "I also hold the PMP certification from PMI.")
	assert.Contains(t, body, "• Drove measurable impact in prior roles.")
	assert.Contains(t, body, "Sincerely,\nYour Name")
}

func TestSynthesisIsTotal(t *testing.T) {
	s := newTestSynth()
	for _, p := range []*models.Profile{nil, {}, models.NewProfile()} {
		assert.NotEmpty(t, s.ResumeBody(p, ""))
		assert.NotEmpty(t, s.CoverLetterBody(p, ""))
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	s := newTestSynth()
	p := janeProfile()
	jd := "Senior Software Engineer at Acme Corp"

	for _, docType := range []models.DocType{models.DocTypeCV, models.DocTypeCoverLetter} {
		first := s.Generate(p, jd, docType)
		second := s.Generate(p, jd, docType)
		require.Len(t, first, 1)
		assert.Equal(t, first.Primary(), second.Primary())
	}
}

func TestGenerate_DocTypeSelectsBody(t *testing.T) {
	s := newTestSynth()
	cv := s.Generate(janeProfile(), "", models.DocTypeCV)
	letter := s.Generate(janeProfile(), "", models.DocTypeCoverLetter)
	assert.Contains(t, cv.Primary(), "EXPERIENCE")
	assert.Contains(t, letter.Primary(), "Dear Hiring Manager,")
}

type stubExtractor struct{}

func (stubExtractor) Role(string) string    { return "Chief Tinkerer" }
func (stubExtractor) Company(string) string { return "" }

func TestSynthesizer_CustomExtractor(t *testing.T) {
	s := &Synthesizer{Extractor: stubExtractor{}, Now: fixedClock}
	body := s.CoverLetterBody(models.NewProfile(), "anything")
	assert.Contains(t, body, "the Chief Tinkerer at your company")
}
