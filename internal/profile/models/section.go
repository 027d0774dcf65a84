package models

import (
	dErrors "pathway/pkg/domain-errors"
)

// Section names one facet of the questionnaire. The value doubles as the
// URL segment and the JSON discriminator, so it must stay stable.
type Section string

const (
	SectionBasic      Section = "basic"
	SectionLanguage   Section = "language"
	SectionEducation  Section = "education"
	SectionSpouse     Section = "spouse"
	SectionDependent  Section = "dependent"
	SectionConnection Section = "connection"
	SectionWork       Section = "work"
	SectionJobOffer   Section = "joboffer"
)

// validSections is the single source of truth for section names.
var validSections = map[Section]bool{
	SectionBasic:      true,
	SectionLanguage:   true,
	SectionEducation:  true,
	SectionSpouse:     true,
	SectionDependent:  true,
	SectionConnection: true,
	SectionWork:       true,
	SectionJobOffer:   true,
}

// ParseSection constructs a Section from external input.
// Call from handlers when parsing path segments; direct casting bypasses
// validation.
func ParseSection(s string) (Section, error) {
	sec := Section(s)
	if !validSections[sec] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown section: "+s)
	}
	return sec, nil
}

func (s Section) String() string {
	return string(s)
}

// ListSections returns the sections that own a repeatable entry list.
func ListSections() []Section {
	return []Section{SectionEducation, SectionDependent, SectionConnection, SectionWork}
}

// HasList reports whether the section owns a repeatable entry list.
func (s Section) HasList() bool {
	switch s {
	case SectionEducation, SectionDependent, SectionConnection, SectionWork:
		return true
	}
	return false
}

// Language is the applicant's primary official language.
// Empty string means unanswered.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageFrench  Language = "french"
)

// IsValid accepts the two official languages; empty is unanswered, not invalid.
func (l Language) IsValid() bool {
	return l == LanguageEnglish || l == LanguageFrench
}

// MaritalStatus of the applicant. Empty string means unanswered.
type MaritalStatus string

const (
	MaritalMarried MaritalStatus = "married"
	MaritalSingle  MaritalStatus = "single"
)

// IsValid accepts the two supported statuses; empty is unanswered.
func (m MaritalStatus) IsValid() bool {
	return m == MaritalMarried || m == MaritalSingle
}
