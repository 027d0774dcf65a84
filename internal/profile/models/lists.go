package models

import (
	"encoding/json"

	id "pathway/pkg/domain"
	dErrors "pathway/pkg/domain-errors"
)

// AddEntry decodes the raw entry for a list-owning section, enforces the
// entry's structural requirements, assigns a fresh EntryID, and appends it.
// Any client-supplied id is discarded; identity is generated here and only
// here. Malformed entries are rejected with a typed error rather than
// accepted silently.
func (p *Profile) AddEntry(section Section, raw json.RawMessage) (id.EntryID, error) {
	entryID := id.NewEntryID()
	switch section {
	case SectionEducation:
		var e Education
		if err := json.Unmarshal(raw, &e); err != nil {
			return "", dErrors.Wrap(dErrors.CodeInvalidInput, "malformed education entry", err)
		}
		if err := e.CheckRequired(); err != nil {
			return "", err
		}
		e.ID = entryID
		p.EducationInfo.List = append(p.EducationInfo.List, e)
	case SectionWork:
		var w WorkExperience
		if err := json.Unmarshal(raw, &w); err != nil {
			return "", dErrors.Wrap(dErrors.CodeInvalidInput, "malformed work experience entry", err)
		}
		if err := w.CheckRequired(); err != nil {
			return "", err
		}
		w.ID = entryID
		p.WorkInfo.List = append(p.WorkInfo.List, w)
	case SectionDependent:
		var d Dependent
		if err := json.Unmarshal(raw, &d); err != nil {
			return "", dErrors.Wrap(dErrors.CodeInvalidInput, "malformed dependent entry", err)
		}
		if err := d.CheckRequired(); err != nil {
			return "", err
		}
		d.ID = entryID
		p.DependentInfo.List = append(p.DependentInfo.List, d)
	case SectionConnection:
		var c Connection
		if err := json.Unmarshal(raw, &c); err != nil {
			return "", dErrors.Wrap(dErrors.CodeInvalidInput, "malformed connection entry", err)
		}
		if err := c.CheckRequired(); err != nil {
			return "", err
		}
		c.ID = entryID
		p.ConnectionInfo.List = append(p.ConnectionInfo.List, c)
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "section has no entry list: "+section.String())
	}
	return entryID, nil
}

// RemoveEntry removes the first entry whose id matches. Removal is
// idempotent: a missing id is a no-op, not an error. The boolean reports
// whether anything was removed.
func (p *Profile) RemoveEntry(section Section, entryID id.EntryID) (bool, error) {
	switch section {
	case SectionEducation:
		for i, e := range p.EducationInfo.List {
			if e.ID == entryID {
				p.EducationInfo.List = append(p.EducationInfo.List[:i], p.EducationInfo.List[i+1:]...)
				return true, nil
			}
		}
	case SectionWork:
		for i, w := range p.WorkInfo.List {
			if w.ID == entryID {
				p.WorkInfo.List = append(p.WorkInfo.List[:i], p.WorkInfo.List[i+1:]...)
				return true, nil
			}
		}
	case SectionDependent:
		for i, d := range p.DependentInfo.List {
			if d.ID == entryID {
				p.DependentInfo.List = append(p.DependentInfo.List[:i], p.DependentInfo.List[i+1:]...)
				return true, nil
			}
		}
	case SectionConnection:
		for i, c := range p.ConnectionInfo.List {
			if c.ID == entryID {
				p.ConnectionInfo.List = append(p.ConnectionInfo.List[:i], p.ConnectionInfo.List[i+1:]...)
				return true, nil
			}
		}
	default:
		return false, dErrors.New(dErrors.CodeInvalidInput, "section has no entry list: "+section.String())
	}
	return false, nil
}

// EntryCount returns the current length of the section's list.
func (p *Profile) EntryCount(section Section) int {
	switch section {
	case SectionEducation:
		return len(p.EducationInfo.List)
	case SectionWork:
		return len(p.WorkInfo.List)
	case SectionDependent:
		return len(p.DependentInfo.List)
	case SectionConnection:
		return len(p.ConnectionInfo.List)
	}
	return 0
}
