package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JOHNINDAKWA/coverly/pkg/models"
)

func testProfile() *models.Profile {
	p := models.NewProfile()
	p.Skills = []string{"Go", "SQL", "React"}
	p.Location = "Nairobi, Kenya"
	p.Experience = []models.Job{{Role: "Software Engineer", Company: "Acme"}}
	return p
}

func TestScore(t *testing.T) {
	jd := "Senior Software Engineer at Globex. We use Go and SQL daily. Based in Nairobi."
	r := Score(testProfile(), jd, "Senior Software Engineer")

	assert.Equal(t, []string{"Go", "SQL"}, r.MatchedSkills)
	// 0.4*2/3 + 0.3*1 + 0.15*0.6 + 0.15*1
	assert.InDelta(t, 0.8067, r.Score, 0.001)
}

func TestScore_EmptyDescriptionIsNeutral(t *testing.T) {
	r := Score(testProfile(), "   ", "")
	assert.Equal(t, 0.5, r.Score)
	assert.Empty(t, r.MatchedSkills)

	assert.Equal(t, 0.5, Score(nil, "anything", "").Score)
}

func TestScore_Bounds(t *testing.T) {
	cases := []string{
		"Nothing relevant here",
		"Go SQL React Software Engineer Acme Nairobi, Kenya",
	}
	for _, jd := range cases {
		r := Score(testProfile(), jd, "Software Engineer")
		assert.GreaterOrEqual(t, r.Score, 0.0, jd)
		assert.LessOrEqual(t, r.Score, 1.0, jd)
	}
	assert.InDelta(t, 1.0, Score(testProfile(), cases[1], "Software Engineer").Score, 0.0001)
}

func TestMatchSkills_WordBoundaries(t *testing.T) {
	assert.Empty(t, matchSkills("good communication skills", []string{"Go"}))
	assert.Equal(t, []string{"C++"}, matchSkills("strong c++ background", []string{"C++"}))
	assert.Equal(t, []string{"Node.js"}, matchSkills("node.js, postgres", []string{"Node.js"}))
	assert.Equal(t, []string{"go"}, matchSkills("written in go.", []string{"go", " "}))
}

func TestMatchLocation(t *testing.T) {
	assert.Equal(t, 1.0, matchLocation("office in nairobi, kenya", "Nairobi, Kenya"))
	assert.Equal(t, 0.8, matchLocation("fully remote", "Nairobi, Kenya"))
	assert.Equal(t, 0.6, matchLocation("hybrid, kenya", "Nairobi, Kenya"))
	assert.Equal(t, 0.3, matchLocation("berlin office", "Nairobi, Kenya"))
	assert.Equal(t, 0.5, matchLocation("berlin office", ""))
}

func TestExtractKeywords(t *testing.T) {
	assert.Equal(t, []string{"product", "manager"}, extractKeywords("senior product manager"))
	assert.Empty(t, extractKeywords("the lead"))
}
