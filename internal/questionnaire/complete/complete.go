// Package complete derives the global profile-completeness signal that gates
// access to the report and chat features. This is pure domain logic - no I/O,
// no side effects - so it is safe to call from every consumer (route guard,
// questionnaire, profile view) without risk of divergent state.
//
// Each per-section predicate is stricter than or equal to the section's
// navigation validator, and the boundary between the two is deliberate: for
// example education counts as complete only with post-secondary credentials
// listed, while the connection section only needs its family-in-Canada flag
// answered, with either value. These boundaries reproduce the gating the
// report service expects; do not "tidy" them into symmetry.
package complete

import (
	"pathway/internal/profile/models"
)

// Evaluate reports whether the profile is complete enough to unlock the
// downstream report and chat features. It recomputes from scratch on every
// call; there is no cache to fall out of sync.
func Evaluate(p *models.Profile) bool {
	for _, done := range Sections(p) {
		if !done {
			return false
		}
	}
	return true
}

// Sections reports per-section completeness, keyed by section name. The
// profile view uses this to render section checkmarks; Evaluate ANDs it.
func Sections(p *models.Profile) map[models.Section]bool {
	return map[models.Section]bool{
		models.SectionBasic:      basic(p.BasicInfo),
		models.SectionLanguage:   language(p.LanguageInfo),
		models.SectionEducation:  education(p.EducationInfo),
		models.SectionSpouse:     spouse(p.SpouseInfo),
		models.SectionDependent:  dependent(p.DependentInfo),
		models.SectionConnection: connection(p.ConnectionInfo),
		models.SectionWork:       work(p.WorkInfo),
		models.SectionJobOffer:   jobOffer(p.JobOfferInfo),
	}
}

// Incomplete lists the sections still blocking completeness. Order is
// unspecified; callers sort for display.
func Incomplete(p *models.Profile) []models.Section {
	var out []models.Section
	for section, done := range Sections(p) {
		if !done {
			out = append(out, section)
		}
	}
	return out
}

func basic(info models.BasicInfo) bool {
	return info.FullName != "" && info.Email != "" &&
		info.CitizenCountry != "" && info.ResidenceCountry != ""
}

func language(info models.LanguageInfo) bool {
	if !info.PrimaryLanguage.IsValid() {
		return false
	}
	if info.HasTakenTest != nil && *info.HasTakenTest && info.PrimaryTest.Type == "" {
		return false
	}
	if info.HasSecondLanguage != nil && *info.HasSecondLanguage && info.SecondTest.Type == "" {
		return false
	}
	return true
}

// education requires answered gates AND post-secondary credentials on file.
// An applicant without post-secondary education can be locally valid yet
// never complete; that asymmetry is part of the report contract.
func education(info models.EducationInfo) bool {
	return info.HasHighSchool != nil && info.HasPostSecondary != nil &&
		*info.HasPostSecondary && len(info.List) > 0
}

func spouse(info models.SpouseInfo) bool {
	if !info.MaritalStatus.IsValid() {
		return false
	}
	if info.MaritalStatus != models.MaritalMarried {
		return true
	}
	return info.IsSpouseAccompanying != nil &&
		info.SpouseEducationLevel != "" &&
		info.SpouseHasLanguageTest != nil &&
		info.SpouseHasCanadianWork != nil
}

func dependent(info models.DependentInfo) bool {
	if info.HasDependents == nil {
		return false
	}
	return !*info.HasDependents || len(info.List) > 0
}

// connection only needs the flag answered, with either value - even an empty
// list under a true gate does not block completeness here.
func connection(info models.ConnectionInfo) bool {
	return info.HasConnections != nil
}

func work(info models.WorkInfo) bool {
	if info.HasWorkExperience == nil {
		return false
	}
	return !*info.HasWorkExperience || len(info.List) > 0
}

func jobOffer(info models.JobOfferInfo) bool {
	if info.HasJobOffer == nil {
		return false
	}
	if !*info.HasJobOffer {
		return true
	}
	return info.JobOffer.JobTitle != "" && info.JobOffer.NOCCode != "" &&
		info.JobOffer.Province != "" && info.JobOffer.StartDate != ""
}
