package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/JOHNINDAKWA/coverly/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupeSkills(t *testing.T) {
	got := DedupeSkills([]string{"Go", " go ", "", "React", "GO", "Node", "react"})
	assert.Equal(t, []string{"Go", "React", "Node"}, got)
}

func TestDedupeSkills_Nil(t *testing.T) {
	got := DedupeSkills(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNormalize_NilProfile(t *testing.T) {
	p := Normalize(nil)
	require.NotNil(t, p)
	assert.NotNil(t, p.Skills)
	assert.NotNil(t, p.Social)
}

func TestNormalize_TrimsAndDedupes(t *testing.T) {
	p := Normalize(&models.Profile{Name: "  Jane Doe ", Skills: []string{"Go", "go"}})
	assert.Equal(t, "Jane Doe", p.Name)
	assert.Equal(t, []string{"Go"}, p.Skills)
	assert.NotNil(t, p.Experience)
}

func TestValidate_EmptyProfileIsValid(t *testing.T) {
	assert.NoError(t, Validate(models.NewProfile()))
	assert.NoError(t, Validate(nil))
}

func TestValidate_Dates(t *testing.T) {
	tests := []struct {
		name    string
		job     models.Job
		wantErr bool
	}{
		{name: "year month", job: models.Job{Start: "2020-01", End: "2021-12"}},
		{name: "present", job: models.Job{Start: "2020-01", End: "Present"}},
		{name: "blank", job: models.Job{}},
		{name: "bad month", job: models.Job{Start: "2020-13"}, wantErr: true},
		{name: "free text end", job: models.Job{Start: "2020-01", End: "now"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.NewProfile()
			p.Experience = []models.Job{tt.job}
			err := Validate(p)
			if tt.wantErr {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, err.Error(), "YYYY-MM")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_Email(t *testing.T) {
	p := models.NewProfile()
	p.Email = "not-an-email"
	err := Validate(p)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "Profile.Email", verr.Errors[0].Field)
}

func TestParse_NullCollections(t *testing.T) {
	p, err := Parse([]byte(`{"name":"Jane","skills":null,"achievements":["Won X",{"title":"Led Y"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "Jane", p.Name)
	assert.NotNil(t, p.Skills)
	require.Len(t, p.Achievements, 2)
	assert.Equal(t, "Led Y", p.Achievements[1].Title)
}

func TestParse_SchemaMismatch(t *testing.T) {
	_, err := Parse([]byte(`{"skills":"Go"}`))
	var serr *SchemaError
	require.ErrorAs(t, err, &serr)
	assert.NotEmpty(t, serr.Errors)
}

func TestLoadFileAndMarshal(t *testing.T) {
	src := models.NewProfile()
	src.Name = "Jane Doe"
	src.Skills = []string{"React", "Node"}
	data, err := Marshal(src)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, data, 0600))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, src.Name, got.Name)
	assert.Equal(t, src.Skills, got.Skills)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
