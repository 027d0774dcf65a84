// Package validate computes local section validity: the rules that gate
// forward navigation. This is pure domain logic - no I/O, no side effects.
// Validators never block input; they only report the field errors the UI
// renders inline and the controller consults before advancing.
//
// Validity is deliberately weaker than completeness (see the complete
// package): a section can be valid enough to navigate past without being
// complete enough to unlock the report.
package validate

import (
	"regexp"

	"pathway/internal/profile/models"
)

// Result is one section's validity plus per-field messages.
type Result struct {
	Valid       bool              `json:"valid"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

// emailShape is the intentionally simple local@domain.tld rule. Anything
// stricter belongs to the external verification service, not this form.
var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s.]+$`)

// Section validates the named section of the profile. Unknown sections are
// reported invalid so a routing bug cannot unlock navigation.
func Section(p *models.Profile, section models.Section) Result {
	switch section {
	case models.SectionBasic:
		return basic(p.BasicInfo)
	case models.SectionLanguage:
		return language(p.LanguageInfo)
	case models.SectionEducation:
		return education(p.EducationInfo)
	case models.SectionSpouse:
		return spouse(p.SpouseInfo)
	case models.SectionDependent:
		return dependent(p.DependentInfo)
	case models.SectionConnection:
		return connection(p.ConnectionInfo)
	case models.SectionWork:
		return work(p.WorkInfo)
	case models.SectionJobOffer:
		return jobOffer(p.JobOfferInfo)
	}
	return Result{Valid: false, FieldErrors: map[string]string{"section": "unknown section"}}
}

// All validates every section, keyed by section name.
func All(p *models.Profile) map[models.Section]Result {
	out := make(map[models.Section]Result, 8)
	for _, s := range []models.Section{
		models.SectionBasic, models.SectionLanguage, models.SectionEducation,
		models.SectionSpouse, models.SectionDependent, models.SectionConnection,
		models.SectionWork, models.SectionJobOffer,
	} {
		out[s] = Section(p, s)
	}
	return out
}

// collector accumulates field errors and folds them into a Result.
type collector map[string]string

func (c collector) require(field, value, message string) {
	if value == "" {
		c[field] = message
	}
}

func (c collector) requireAnswer(field string, gate *bool, message string) {
	if gate == nil {
		c[field] = message
	}
}

func (c collector) result() Result {
	if len(c) == 0 {
		return Result{Valid: true}
	}
	return Result{Valid: false, FieldErrors: c}
}

func basic(info models.BasicInfo) Result {
	errs := collector{}
	errs.require("fullName", info.FullName, "full name is required")
	errs.require("citizenCountry", info.CitizenCountry, "country of citizenship is required")
	errs.require("residenceCountry", info.ResidenceCountry, "country of residence is required")
	if info.Email == "" {
		errs["email"] = "email is required"
	} else if !emailShape.MatchString(info.Email) {
		errs["email"] = "email must look like name@example.com"
	}
	if info.AvailableFunds != nil && *info.AvailableFunds < 0 {
		errs["availableFunds"] = "available funds cannot be negative"
	}
	return errs.result()
}

func language(info models.LanguageInfo) Result {
	errs := collector{}
	if !info.PrimaryLanguage.IsValid() {
		errs["primaryLanguage"] = "select your primary official language"
	}
	errs.requireAnswer("hasTakenTest", info.HasTakenTest, "answer whether you have taken a language test")
	if info.HasTakenTest != nil && *info.HasTakenTest {
		errs.require("primaryLanguageTest.type", info.PrimaryTest.Type, "test type is required")
		if !info.PrimaryTest.HasAllScores() {
			errs["primaryLanguageTest.scores"] = "all four test scores are required"
		}
		checkScores(errs, "primaryLanguageTest", info.PrimaryTest)
	}
	errs.requireAnswer("hasSecondLanguage", info.HasSecondLanguage, "answer whether you have a second language")
	if info.HasSecondLanguage != nil && *info.HasSecondLanguage {
		errs.require("secondLanguageTest.type", info.SecondTest.Type, "second language test type is required")
		checkScores(errs, "secondLanguageTest", info.SecondTest)
	}
	return errs.result()
}

// checkScores flags negative sub-scores; missing scores are handled by the
// caller since only some gate states require all four.
func checkScores(errs collector, prefix string, test models.LanguageTest) {
	for field, score := range map[string]*float64{
		prefix + ".speaking":  test.Speaking,
		prefix + ".listening": test.Listening,
		prefix + ".reading":   test.Reading,
		prefix + ".writing":   test.Writing,
	} {
		if score != nil && *score < 0 {
			errs[field] = "scores cannot be negative"
		}
	}
}

func education(info models.EducationInfo) Result {
	errs := collector{}
	errs.requireAnswer("hasHighSchool", info.HasHighSchool, "answer whether you finished high school")
	errs.requireAnswer("hasPostSecondary", info.HasPostSecondary, "answer whether you have post-secondary education")
	if info.HasPostSecondary != nil && *info.HasPostSecondary && len(info.List) == 0 {
		errs["educationList"] = "add at least one education entry"
	}
	return errs.result()
}

func spouse(info models.SpouseInfo) Result {
	errs := collector{}
	if !info.MaritalStatus.IsValid() {
		errs["maritalStatus"] = "select your marital status"
	}
	if info.MaritalStatus == models.MaritalMarried {
		errs.requireAnswer("isSpouseAccompanying", info.IsSpouseAccompanying, "answer whether your spouse is accompanying you")
		errs.require("spouseEducationLevel", info.SpouseEducationLevel, "spouse education level is required")
		errs.requireAnswer("spouseHasLanguageTest", info.SpouseHasLanguageTest, "answer whether your spouse has taken a language test")
		errs.requireAnswer("spouseHasCanadianWork", info.SpouseHasCanadianWork, "answer whether your spouse has Canadian work experience")
	}
	return errs.result()
}

func dependent(info models.DependentInfo) Result {
	errs := collector{}
	errs.requireAnswer("hasDependents", info.HasDependents, "answer whether you have dependents")
	if info.HasDependents != nil && *info.HasDependents && len(info.List) == 0 {
		errs["dependentList"] = "add at least one dependent"
	}
	return errs.result()
}

func connection(info models.ConnectionInfo) Result {
	errs := collector{}
	errs.requireAnswer("hasConnections", info.HasConnections, "answer whether you have family in Canada")
	if info.HasConnections != nil && *info.HasConnections && len(info.List) == 0 {
		errs["connectionList"] = "add at least one connection"
	}
	return errs.result()
}

func work(info models.WorkInfo) Result {
	errs := collector{}
	errs.requireAnswer("hasWorkExperience", info.HasWorkExperience, "answer whether you have work experience")
	if info.HasWorkExperience != nil && *info.HasWorkExperience && len(info.List) == 0 {
		errs["workList"] = "add at least one work experience"
	}
	return errs.result()
}

func jobOffer(info models.JobOfferInfo) Result {
	errs := collector{}
	errs.requireAnswer("hasJobOffer", info.HasJobOffer, "answer whether you have a job offer")
	if info.HasJobOffer != nil && *info.HasJobOffer {
		errs.require("jobOffer.jobTitle", info.JobOffer.JobTitle, "job title is required")
		errs.require("jobOffer.nocCode", info.JobOffer.NOCCode, "NOC code is required")
		errs.require("jobOffer.province", info.JobOffer.Province, "province is required")
		errs.require("jobOffer.startDate", info.JobOffer.StartDate, "start date is required")
	}
	return errs.result()
}
