package models

import (
	"encoding/json"
	"testing"
)

func TestParseDocType(t *testing.T) {
	tests := []struct {
		input    string
		expected DocType
	}{
		{"cover-letter", DocTypeCoverLetter},
		{"Cover-Letter", DocTypeCoverLetter},
		{" cover-letter ", DocTypeCoverLetter},
		{"cv", DocTypeCV},
		{"", DocTypeCV},
		{"resume", DocTypeCV},
	}

	for _, tt := range tests {
		if got := ParseDocType(tt.input); got != tt.expected {
			t.Errorf("ParseDocType(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeFromJSONNulls(t *testing.T) {
	raw := `{"name":"Jane","skills":null,"experience":[{"role":"Engineer","bullets":null}]}`
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	p.Normalize()

	if p.Skills == nil || p.Education == nil || p.Achievements == nil ||
		p.Certifications == nil || p.References == nil || p.Projects == nil || p.Social == nil {
		t.Fatalf("collections should be non-nil after Normalize: %+v", p)
	}
	if p.Experience[0].Bullets == nil {
		t.Error("job bullets should be non-nil after Normalize")
	}
}

func TestAchievementUnmarshal(t *testing.T) {
	raw := `["Won hackathon", {"title": "Speaker", "year": "2023"}]`
	var got []Achievement
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 achievements, got %d", len(got))
	}
	if got[0].Title != "Won hackathon" {
		t.Errorf("string achievement title = %q", got[0].Title)
	}
	if got[1].Title != "Speaker" || got[1].Year != "2023" {
		t.Errorf("object achievement = %+v", got[1])
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := NewProfile()
	p.Skills = append(p.Skills, "Go")
	p.Experience = append(p.Experience, Job{Role: "Engineer", Bullets: []string{"Shipped X"}})
	p.Social["github"] = "https://github.com/jane"

	c := p.Clone()
	c.Skills[0] = "Rust"
	c.Experience[0].Bullets[0] = "Changed"
	c.Social["github"] = "changed"

	if p.Skills[0] != "Go" || p.Experience[0].Bullets[0] != "Shipped X" || p.Social["github"] != "https://github.com/jane" {
		t.Error("mutating the clone changed the original")
	}
}

func TestContactLine(t *testing.T) {
	p := &Profile{Email: "jane@x.com", Location: "Nairobi"}
	if got := p.ContactLine(); got != "jane@x.com • Nairobi" {
		t.Errorf("ContactLine() = %q", got)
	}
	if got := (&Profile{}).ContactLine(); got != "" {
		t.Errorf("empty ContactLine() = %q", got)
	}
}
