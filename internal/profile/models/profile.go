package models

import (
	"encoding/json"
	"time"

	id "pathway/pkg/domain"
	dErrors "pathway/pkg/domain-errors"
)

// Profile is the aggregate root for one applicant's questionnaire data.
//
// Invariants:
//   - AvailableFunds is nil or >= 0 (enforced read-side by validators)
//   - every list entry has a globally-unique immutable EntryID
//   - IsComplete is derived; it is written only from the completeness
//     evaluator, never authored by a section update
//   - a gate boolean flipped to false clears its dependent list/record
//     (no resurrection when flipped back)
//
// Gate booleans are pointers: nil means unanswered, which is distinct from
// an explicit false. Completeness rules depend on that distinction.
type Profile struct {
	UserID         id.UserID      `json:"userId"`
	BasicInfo      BasicInfo      `json:"basicInfo"`
	LanguageInfo   LanguageInfo   `json:"languageInfo"`
	EducationInfo  EducationInfo  `json:"educationInfo"`
	SpouseInfo     SpouseInfo     `json:"spouseInfo"`
	DependentInfo  DependentInfo  `json:"dependentInfo"`
	ConnectionInfo ConnectionInfo `json:"connectionInfo"`
	WorkInfo       WorkInfo       `json:"workInfo"`
	JobOfferInfo   JobOfferInfo   `json:"jobOfferInfo"`
	IsComplete     bool           `json:"isComplete"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// BasicInfo holds identity and settlement-funds scalars.
type BasicInfo struct {
	FullName         string   `json:"fullName"`
	Email            string   `json:"email"`
	CitizenCountry   string   `json:"citizenCountry"`
	ResidenceCountry string   `json:"residenceCountry"`
	AvailableFunds   *float64 `json:"availableFunds"`
}

// LanguageTest is one official language test result. Scores are nil until
// entered.
type LanguageTest struct {
	Type      string   `json:"type"`
	TestDate  string   `json:"testDate,omitempty"`
	Speaking  *float64 `json:"speaking"`
	Listening *float64 `json:"listening"`
	Reading   *float64 `json:"reading"`
	Writing   *float64 `json:"writing"`
}

// IsZero reports whether no test data has been entered.
func (t LanguageTest) IsZero() bool {
	return t.Type == "" && t.TestDate == "" &&
		t.Speaking == nil && t.Listening == nil && t.Reading == nil && t.Writing == nil
}

// HasAllScores reports whether all four sub-scores are present.
func (t LanguageTest) HasAllScores() bool {
	return t.Speaking != nil && t.Listening != nil && t.Reading != nil && t.Writing != nil
}

func (t LanguageTest) clone() LanguageTest {
	t.Speaking = clonePtr(t.Speaking)
	t.Listening = clonePtr(t.Listening)
	t.Reading = clonePtr(t.Reading)
	t.Writing = clonePtr(t.Writing)
	return t
}

// LanguageInfo covers the applicant's official-language ability.
// Invariant: when HasTakenTest is true, PrimaryTest.Type and all four
// scores must be non-nil for the section to be valid.
type LanguageInfo struct {
	PrimaryLanguage   Language     `json:"primaryLanguage"`
	HasTakenTest      *bool        `json:"hasTakenTest"`
	PrimaryTest       LanguageTest `json:"primaryLanguageTest"`
	HasSecondLanguage *bool        `json:"hasSecondLanguage"`
	SecondTest        LanguageTest `json:"secondLanguageTest"`
}

// EducationInfo pairs the schooling gates with the credential list.
type EducationInfo struct {
	HasHighSchool    *bool       `json:"hasHighSchool"`
	HasPostSecondary *bool       `json:"hasPostSecondary"`
	List             []Education `json:"educationList"`
}

// SpouseInfo covers marital status; the four spouse fields are required only
// while status is married.
type SpouseInfo struct {
	MaritalStatus         MaritalStatus `json:"maritalStatus"`
	IsSpouseAccompanying  *bool         `json:"isSpouseAccompanying"`
	SpouseEducationLevel  string        `json:"spouseEducationLevel"`
	SpouseHasLanguageTest *bool         `json:"spouseHasLanguageTest"`
	SpouseHasCanadianWork *bool         `json:"spouseHasCanadianWork"`
}

// DependentInfo pairs the dependents gate with the dependent list.
type DependentInfo struct {
	HasDependents *bool       `json:"hasDependents"`
	List          []Dependent `json:"dependentList"`
}

// ConnectionInfo pairs the family-in-Canada gate with the connection list.
type ConnectionInfo struct {
	HasConnections *bool        `json:"hasConnections"`
	List           []Connection `json:"connectionList"`
}

// WorkInfo pairs the work-experience gate with the employment list.
type WorkInfo struct {
	HasWorkExperience *bool            `json:"hasWorkExperience"`
	List              []WorkExperience `json:"workList"`
}

// JobOffer is the single arranged-employment record.
type JobOffer struct {
	JobTitle     string `json:"jobTitle"`
	NOCCode      string `json:"nocCode"`
	Province     string `json:"province"`
	StartDate    string `json:"startDate"`
	LMIAApproved *bool  `json:"lmiaApproved,omitempty"`
}

// IsZero reports whether no offer data has been entered.
func (o JobOffer) IsZero() bool {
	return o.JobTitle == "" && o.NOCCode == "" && o.Province == "" &&
		o.StartDate == "" && o.LMIAApproved == nil
}

// JobOfferInfo pairs the offer gate with the single offer record.
type JobOfferInfo struct {
	HasJobOffer *bool    `json:"hasJobOffer"`
	JobOffer    JobOffer `json:"jobOffer"`
}

// NewProfile returns an empty-but-well-typed profile for the user. Lists are
// allocated so validators never dereference nil.
func NewProfile(userID id.UserID) *Profile {
	return &Profile{
		UserID:         userID,
		EducationInfo:  EducationInfo{List: []Education{}},
		DependentInfo:  DependentInfo{List: []Dependent{}},
		ConnectionInfo: ConnectionInfo{List: []Connection{}},
		WorkInfo:       WorkInfo{List: []WorkExperience{}},
	}
}

// Normalize defaults any missing nested collection to an empty-but-well-typed
// value. Hydrated payloads from the remote profile service may omit lists
// entirely; normalizing up front keeps the validators free of nil checks.
func (p *Profile) Normalize() {
	if p.EducationInfo.List == nil {
		p.EducationInfo.List = []Education{}
	}
	if p.DependentInfo.List == nil {
		p.DependentInfo.List = []Dependent{}
	}
	if p.ConnectionInfo.List == nil {
		p.ConnectionInfo.List = []Connection{}
	}
	if p.WorkInfo.List == nil {
		p.WorkInfo.List = []WorkExperience{}
	}
}

// Clone returns a deep copy. Stores hand out clones so callers cannot mutate
// shared state behind the single writer's back; pointer fields are copied
// too, so writing through a clone's gate or score never aliases the stored
// aggregate.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	out := *p

	out.BasicInfo.AvailableFunds = clonePtr(p.BasicInfo.AvailableFunds)

	out.LanguageInfo.HasTakenTest = clonePtr(p.LanguageInfo.HasTakenTest)
	out.LanguageInfo.HasSecondLanguage = clonePtr(p.LanguageInfo.HasSecondLanguage)
	out.LanguageInfo.PrimaryTest = p.LanguageInfo.PrimaryTest.clone()
	out.LanguageInfo.SecondTest = p.LanguageInfo.SecondTest.clone()

	out.EducationInfo.HasHighSchool = clonePtr(p.EducationInfo.HasHighSchool)
	out.EducationInfo.HasPostSecondary = clonePtr(p.EducationInfo.HasPostSecondary)
	out.EducationInfo.List = append([]Education(nil), p.EducationInfo.List...)

	out.SpouseInfo.IsSpouseAccompanying = clonePtr(p.SpouseInfo.IsSpouseAccompanying)
	out.SpouseInfo.SpouseHasLanguageTest = clonePtr(p.SpouseInfo.SpouseHasLanguageTest)
	out.SpouseInfo.SpouseHasCanadianWork = clonePtr(p.SpouseInfo.SpouseHasCanadianWork)

	out.DependentInfo.HasDependents = clonePtr(p.DependentInfo.HasDependents)
	out.DependentInfo.List = append([]Dependent(nil), p.DependentInfo.List...)

	out.ConnectionInfo.HasConnections = clonePtr(p.ConnectionInfo.HasConnections)
	out.ConnectionInfo.List = append([]Connection(nil), p.ConnectionInfo.List...)

	out.WorkInfo.HasWorkExperience = clonePtr(p.WorkInfo.HasWorkExperience)
	out.WorkInfo.List = append([]WorkExperience(nil), p.WorkInfo.List...)
	for i := range out.WorkInfo.List {
		out.WorkInfo.List[i].HoursPerWeek = clonePtr(out.WorkInfo.List[i].HoursPerWeek)
	}

	out.JobOfferInfo.HasJobOffer = clonePtr(p.JobOfferInfo.HasJobOffer)
	out.JobOfferInfo.JobOffer.LMIAApproved = clonePtr(p.JobOfferInfo.JobOffer.LMIAApproved)

	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// MergeSection shallow-merges the partial JSON object into the named section
// record: top-level keys present in the partial replace the current value
// wholesale, keys absent from the partial are untouched. The merge performs
// no field validation; validity is a read-side concern of the validators.
//
// List contents are not mergeable. Entries carry server-generated identity
// and per-entry structural checks, so they enter only through AddEntry; a
// list key in the partial is dropped, never applied.
func (p *Profile) MergeSection(section Section, partial json.RawMessage) error {
	var err error
	switch section {
	case SectionBasic:
		p.BasicInfo, err = shallowMerge(p.BasicInfo, partial)
	case SectionLanguage:
		p.LanguageInfo, err = shallowMerge(p.LanguageInfo, partial)
	case SectionEducation:
		p.EducationInfo, err = shallowMerge(p.EducationInfo, partial, "educationList")
	case SectionSpouse:
		p.SpouseInfo, err = shallowMerge(p.SpouseInfo, partial)
	case SectionDependent:
		p.DependentInfo, err = shallowMerge(p.DependentInfo, partial, "dependentList")
	case SectionConnection:
		p.ConnectionInfo, err = shallowMerge(p.ConnectionInfo, partial, "connectionList")
	case SectionWork:
		p.WorkInfo, err = shallowMerge(p.WorkInfo, partial, "workList")
	case SectionJobOffer:
		p.JobOfferInfo, err = shallowMerge(p.JobOfferInfo, partial)
	default:
		return dErrors.New(dErrors.CodeInvalidInput, "unknown section: "+section.String())
	}
	if err != nil {
		return err
	}
	p.ApplyGateConsistency()
	p.Normalize()
	return nil
}

// shallowMerge overlays the partial's top-level keys onto the current record,
// ignoring protected keys. Kept generic so every section shares one merge
// semantics.
func shallowMerge[T any](current T, partial json.RawMessage, protected ...string) (T, error) {
	var overlay map[string]json.RawMessage
	if err := json.Unmarshal(partial, &overlay); err != nil {
		return current, dErrors.Wrap(dErrors.CodeInvalidInput, "section payload must be a JSON object", err)
	}
	for _, key := range protected {
		delete(overlay, key)
	}

	base, err := json.Marshal(current)
	if err != nil {
		return current, dErrors.Wrap(dErrors.CodeInternal, "marshal current section", err)
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &merged); err != nil {
		return current, dErrors.Wrap(dErrors.CodeInternal, "remarshal current section", err)
	}
	for k, v := range overlay {
		merged[k] = v
	}

	out, err := json.Marshal(merged)
	if err != nil {
		return current, dErrors.Wrap(dErrors.CodeInternal, "marshal merged section", err)
	}
	var result T
	if err := json.Unmarshal(out, &result); err != nil {
		return current, dErrors.Wrap(dErrors.CodeInvalidInput, "section payload has wrong field types", err)
	}
	return result, nil
}

// ApplyGateConsistency clears dependent data whose gate is off. Toggling a
// gate back on yields an empty list or record, never resurrected entries.
func (p *Profile) ApplyGateConsistency() {
	if p.EducationInfo.HasPostSecondary == nil || !*p.EducationInfo.HasPostSecondary {
		p.EducationInfo.List = []Education{}
	}
	if p.DependentInfo.HasDependents == nil || !*p.DependentInfo.HasDependents {
		p.DependentInfo.List = []Dependent{}
	}
	if p.ConnectionInfo.HasConnections == nil || !*p.ConnectionInfo.HasConnections {
		p.ConnectionInfo.List = []Connection{}
	}
	if p.WorkInfo.HasWorkExperience == nil || !*p.WorkInfo.HasWorkExperience {
		p.WorkInfo.List = []WorkExperience{}
	}
	if p.LanguageInfo.HasTakenTest == nil || !*p.LanguageInfo.HasTakenTest {
		p.LanguageInfo.PrimaryTest = LanguageTest{}
	}
	if p.LanguageInfo.HasSecondLanguage == nil || !*p.LanguageInfo.HasSecondLanguage {
		p.LanguageInfo.SecondTest = LanguageTest{}
	}
	if p.JobOfferInfo.HasJobOffer == nil || !*p.JobOfferInfo.HasJobOffer {
		p.JobOfferInfo.JobOffer = JobOffer{}
	}
	if p.SpouseInfo.MaritalStatus != MaritalMarried {
		p.SpouseInfo.IsSpouseAccompanying = nil
		p.SpouseInfo.SpouseEducationLevel = ""
		p.SpouseInfo.SpouseHasLanguageTest = nil
		p.SpouseInfo.SpouseHasCanadianWork = nil
	}
}
