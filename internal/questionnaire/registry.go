// Package questionnaire defines the ordered questionnaire over the profile
// sections: the step registry, per-section validators, the completeness
// evaluator, and the controller that walks a user through the sequence.
package questionnaire

import (
	"math"

	"pathway/internal/profile/models"
)

// StepNone is the terminal sentinel returned at the sequence boundaries.
const StepNone models.Section = ""

// order is the canonical step sequence. It is a strict total order: every
// user traverses every section, answering a status question instead of
// skipping (a single applicant still passes through the spouse step).
var order = []models.Section{
	models.SectionBasic,
	models.SectionLanguage,
	models.SectionEducation,
	models.SectionSpouse,
	models.SectionDependent,
	models.SectionConnection,
	models.SectionWork,
	models.SectionJobOffer,
}

// StepInfo carries display metadata for one step. Titles are presentation
// only; behavior keys off the step token.
type StepInfo struct {
	Step        models.Section `json:"step"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
}

var stepInfo = map[models.Section]StepInfo{
	models.SectionBasic:      {Step: models.SectionBasic, Title: "Basic Information", Description: "Identity, citizenship, residence and settlement funds"},
	models.SectionLanguage:   {Step: models.SectionLanguage, Title: "Language Ability", Description: "Official languages and test results"},
	models.SectionEducation:  {Step: models.SectionEducation, Title: "Education", Description: "Schooling and post-secondary credentials"},
	models.SectionSpouse:     {Step: models.SectionSpouse, Title: "Marital Status", Description: "Status and accompanying spouse details"},
	models.SectionDependent:  {Step: models.SectionDependent, Title: "Dependents", Description: "Dependent family members"},
	models.SectionConnection: {Step: models.SectionConnection, Title: "Canadian Connections", Description: "Family already in Canada"},
	models.SectionWork:       {Step: models.SectionWork, Title: "Work Experience", Description: "Employment history"},
	models.SectionJobOffer:   {Step: models.SectionJobOffer, Title: "Job Offer", Description: "Arranged employment in Canada"},
}

// Steps returns the full step sequence in order.
func Steps() []models.Section {
	return append([]models.Section(nil), order...)
}

// First returns the opening step of the sequence.
func First() models.Section {
	return order[0]
}

// Last returns the terminal step of the sequence.
func Last() models.Section {
	return order[len(order)-1]
}

// IndexOf returns the zero-based position of the step, or -1 when the token
// is not part of the sequence.
func IndexOf(step models.Section) int {
	for i, s := range order {
		if s == step {
			return i
		}
	}
	return -1
}

// Next returns the step after the given one, or StepNone at the terminal
// step.
func Next(step models.Section) models.Section {
	i := IndexOf(step)
	if i < 0 || i == len(order)-1 {
		return StepNone
	}
	return order[i+1]
}

// Previous returns the step before the given one, or StepNone at the first
// step (the caller routes home from there).
func Previous(step models.Section) models.Section {
	i := IndexOf(step)
	if i <= 0 {
		return StepNone
	}
	return order[i-1]
}

// Progress computes the percentage of the sequence reached at the step,
// rounded up. The first step reports 13%, the terminal step 100%.
func Progress(step models.Section) int {
	i := IndexOf(step)
	if i < 0 {
		return 0
	}
	return int(math.Ceil(float64(i+1) / float64(len(order)) * 100))
}

// Describe returns the display metadata for a step.
func Describe(step models.Section) StepInfo {
	return stepInfo[step]
}
