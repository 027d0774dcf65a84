package validate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathway/internal/profile/models"
	id "pathway/pkg/domain"
)

func newProfile(t *testing.T) *models.Profile {
	t.Helper()
	userID, err := id.ParseUserID(uuid.NewString())
	require.NoError(t, err)
	return models.NewProfile(userID)
}

func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestBasic(t *testing.T) {
	tests := []struct {
		name      string
		info      models.BasicInfo
		valid     bool
		errFields []string
	}{
		{
			name:      "empty section lists every requirement",
			info:      models.BasicInfo{},
			valid:     false,
			errFields: []string{"fullName", "email", "citizenCountry", "residenceCountry"},
		},
		{
			name: "filled section is valid",
			info: models.BasicInfo{
				FullName:         "Jane Doe",
				Email:            "jane@example.com",
				CitizenCountry:   "India",
				ResidenceCountry: "India",
			},
			valid: true,
		},
		{
			name: "malformed email is flagged",
			info: models.BasicInfo{
				FullName:         "Jane Doe",
				Email:            "not-an-email",
				CitizenCountry:   "India",
				ResidenceCountry: "India",
			},
			valid:     false,
			errFields: []string{"email"},
		},
		{
			name: "negative funds are flagged",
			info: models.BasicInfo{
				FullName:         "Jane Doe",
				Email:            "jane@example.com",
				CitizenCountry:   "India",
				ResidenceCountry: "India",
				AvailableFunds:   floatPtr(-1),
			},
			valid:     false,
			errFields: []string{"availableFunds"},
		},
		{
			name: "zero funds are fine",
			info: models.BasicInfo{
				FullName:         "Jane Doe",
				Email:            "jane@example.com",
				CitizenCountry:   "India",
				ResidenceCountry: "India",
				AvailableFunds:   floatPtr(0),
			},
			valid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProfile(t)
			p.BasicInfo = tt.info

			res := Section(p, models.SectionBasic)
			assert.Equal(t, tt.valid, res.Valid)
			for _, f := range tt.errFields {
				assert.Contains(t, res.FieldErrors, f)
			}
		})
	}
}

func TestLanguage(t *testing.T) {
	t.Run("unanswered gates are invalid", func(t *testing.T) {
		p := newProfile(t)
		p.LanguageInfo.PrimaryLanguage = models.LanguageEnglish

		res := Section(p, models.SectionLanguage)
		assert.False(t, res.Valid)
		assert.Contains(t, res.FieldErrors, "hasTakenTest")
		assert.Contains(t, res.FieldErrors, "hasSecondLanguage")
	})

	t.Run("no tests taken is valid once answered", func(t *testing.T) {
		p := newProfile(t)
		p.LanguageInfo = models.LanguageInfo{
			PrimaryLanguage:   models.LanguageEnglish,
			HasTakenTest:      boolPtr(false),
			HasSecondLanguage: boolPtr(false),
		}

		assert.True(t, Section(p, models.SectionLanguage).Valid)
	})

	t.Run("taken test requires type and all four scores", func(t *testing.T) {
		p := newProfile(t)
		p.LanguageInfo = models.LanguageInfo{
			PrimaryLanguage:   models.LanguageEnglish,
			HasTakenTest:      boolPtr(true),
			HasSecondLanguage: boolPtr(false),
			PrimaryTest: models.LanguageTest{
				Type:     "IELTS",
				Speaking: floatPtr(7), Listening: floatPtr(7.5), Reading: floatPtr(6.5),
			},
		}

		res := Section(p, models.SectionLanguage)
		assert.False(t, res.Valid)
		assert.Contains(t, res.FieldErrors, "primaryLanguageTest.scores")

		p.LanguageInfo.PrimaryTest.Writing = floatPtr(7)
		assert.True(t, Section(p, models.SectionLanguage).Valid)
	})

	t.Run("negative scores are flagged", func(t *testing.T) {
		p := newProfile(t)
		p.LanguageInfo = models.LanguageInfo{
			PrimaryLanguage:   models.LanguageFrench,
			HasTakenTest:      boolPtr(true),
			HasSecondLanguage: boolPtr(false),
			PrimaryTest: models.LanguageTest{
				Type:     "TEF",
				Speaking: floatPtr(-1), Listening: floatPtr(7), Reading: floatPtr(7), Writing: floatPtr(7),
			},
		}

		res := Section(p, models.SectionLanguage)
		assert.False(t, res.Valid)
		assert.Contains(t, res.FieldErrors, "primaryLanguageTest.speaking")
	})

	t.Run("second language requires its test type", func(t *testing.T) {
		p := newProfile(t)
		p.LanguageInfo = models.LanguageInfo{
			PrimaryLanguage:   models.LanguageEnglish,
			HasTakenTest:      boolPtr(false),
			HasSecondLanguage: boolPtr(true),
		}

		res := Section(p, models.SectionLanguage)
		assert.False(t, res.Valid)
		assert.Contains(t, res.FieldErrors, "secondLanguageTest.type")
	})
}

func TestListSections(t *testing.T) {
	// dependent, connection, and work share the same gate-plus-list shape.
	tests := []struct {
		section models.Section
		set     func(p *models.Profile, gate *bool, filled bool)
	}{
		{models.SectionDependent, func(p *models.Profile, gate *bool, filled bool) {
			p.DependentInfo.HasDependents = gate
			if filled {
				p.DependentInfo.List = []models.Dependent{{ID: "d1", Relationship: "child", DateOfBirth: "2015-05-01"}}
			}
		}},
		{models.SectionConnection, func(p *models.Profile, gate *bool, filled bool) {
			p.ConnectionInfo.HasConnections = gate
			if filled {
				p.ConnectionInfo.List = []models.Connection{{ID: "c1", Relationship: "sibling", Status: "citizen"}}
			}
		}},
		{models.SectionWork, func(p *models.Profile, gate *bool, filled bool) {
			p.WorkInfo.HasWorkExperience = gate
			if filled {
				p.WorkInfo.List = []models.WorkExperience{{ID: "w1", JobTitle: "Developer", Country: "India", StartDate: "2019-01"}}
			}
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.section), func(t *testing.T) {
			p := newProfile(t)
			tt.set(p, nil, false)
			assert.False(t, Section(p, tt.section).Valid, "unanswered gate")

			p = newProfile(t)
			tt.set(p, boolPtr(false), false)
			assert.True(t, Section(p, tt.section).Valid, "answered no")

			p = newProfile(t)
			tt.set(p, boolPtr(true), false)
			assert.False(t, Section(p, tt.section).Valid, "answered yes with empty list")

			p = newProfile(t)
			tt.set(p, boolPtr(true), true)
			assert.True(t, Section(p, tt.section).Valid, "answered yes with entries")
		})
	}
}

func TestEducation(t *testing.T) {
	p := newProfile(t)
	assert.False(t, Section(p, models.SectionEducation).Valid)

	p.EducationInfo.HasHighSchool = boolPtr(true)
	p.EducationInfo.HasPostSecondary = boolPtr(false)
	assert.True(t, Section(p, models.SectionEducation).Valid)

	p.EducationInfo.HasPostSecondary = boolPtr(true)
	res := Section(p, models.SectionEducation)
	assert.False(t, res.Valid)
	assert.Contains(t, res.FieldErrors, "educationList")

	p.EducationInfo.List = []models.Education{{ID: "e1", Type: "bachelor", Country: "India", FieldOfStudy: "CS", StartDate: "2015-09"}}
	assert.True(t, Section(p, models.SectionEducation).Valid)
}

func TestSpouse(t *testing.T) {
	p := newProfile(t)
	assert.False(t, Section(p, models.SectionSpouse).Valid)

	p.SpouseInfo.MaritalStatus = models.MaritalSingle
	assert.True(t, Section(p, models.SectionSpouse).Valid)

	p.SpouseInfo.MaritalStatus = models.MaritalMarried
	res := Section(p, models.SectionSpouse)
	assert.False(t, res.Valid)
	assert.Contains(t, res.FieldErrors, "isSpouseAccompanying")
	assert.Contains(t, res.FieldErrors, "spouseEducationLevel")

	p.SpouseInfo.IsSpouseAccompanying = boolPtr(true)
	p.SpouseInfo.SpouseEducationLevel = "master"
	p.SpouseInfo.SpouseHasLanguageTest = boolPtr(false)
	p.SpouseInfo.SpouseHasCanadianWork = boolPtr(false)
	assert.True(t, Section(p, models.SectionSpouse).Valid)
}

func TestJobOffer(t *testing.T) {
	p := newProfile(t)
	assert.False(t, Section(p, models.SectionJobOffer).Valid)

	p.JobOfferInfo.HasJobOffer = boolPtr(false)
	assert.True(t, Section(p, models.SectionJobOffer).Valid)

	p.JobOfferInfo.HasJobOffer = boolPtr(true)
	res := Section(p, models.SectionJobOffer)
	assert.False(t, res.Valid)
	assert.Contains(t, res.FieldErrors, "jobOffer.nocCode")

	p.JobOfferInfo.JobOffer = models.JobOffer{JobTitle: "Engineer", NOCCode: "21231", Province: "ON", StartDate: "2026-01"}
	assert.True(t, Section(p, models.SectionJobOffer).Valid)
}

func TestUnknownSection(t *testing.T) {
	p := newProfile(t)
	res := Section(p, models.Section("bogus"))
	assert.False(t, res.Valid)
}

func TestAll(t *testing.T) {
	p := newProfile(t)
	results := All(p)

	assert.Len(t, results, 8)
	for section, res := range results {
		assert.False(t, res.Valid, "empty profile section %s should be invalid", section)
	}
}
