package models

import (
	id "pathway/pkg/domain"
	dErrors "pathway/pkg/domain-errors"
)

// List entries are the repeatable sub-records of the profile. Each carries a
// generated EntryID assigned at add time and immutable afterward; removal and
// persistence correlate on that token verbatim.
//
// CheckRequired enforces minimal structural presence, not official rules.
// The store-level add operation rejects entries that fail it instead of
// silently accepting malformed data.

// Education is one post-secondary credential.
type Education struct {
	ID           id.EntryID `json:"id"`
	Type         string     `json:"type"`
	Country      string     `json:"country"`
	Province     string     `json:"province,omitempty"`
	FieldOfStudy string     `json:"fieldOfStudy"`
	StartDate    string     `json:"startDate"`
	EndDate      string     `json:"endDate,omitempty"`
	InProgress   bool       `json:"inProgress"`
}

func (e Education) CheckRequired() error {
	switch {
	case e.Type == "":
		return dErrors.New(dErrors.CodeInvalidInput, "education type is required")
	case e.Country == "":
		return dErrors.New(dErrors.CodeInvalidInput, "education country is required")
	case e.FieldOfStudy == "":
		return dErrors.New(dErrors.CodeInvalidInput, "field of study is required")
	case e.StartDate == "":
		return dErrors.New(dErrors.CodeInvalidInput, "education start date is required")
	}
	return nil
}

// WorkExperience is one employment record.
type WorkExperience struct {
	ID           id.EntryID `json:"id"`
	JobTitle     string     `json:"jobTitle"`
	NOCCode      string     `json:"nocCode,omitempty"`
	Country      string     `json:"country"`
	StartDate    string     `json:"startDate"`
	EndDate      string     `json:"endDate,omitempty"`
	Current      bool       `json:"current"`
	HoursPerWeek *float64   `json:"hoursPerWeek,omitempty"`
}

func (w WorkExperience) CheckRequired() error {
	switch {
	case w.JobTitle == "":
		return dErrors.New(dErrors.CodeInvalidInput, "job title is required")
	case w.Country == "":
		return dErrors.New(dErrors.CodeInvalidInput, "work country is required")
	case w.StartDate == "":
		return dErrors.New(dErrors.CodeInvalidInput, "work start date is required")
	}
	if w.HoursPerWeek != nil && (*w.HoursPerWeek < 0 || *w.HoursPerWeek > 168) {
		return dErrors.New(dErrors.CodeInvalidInput, "hours per week must be between 0 and 168")
	}
	return nil
}

// Dependent is one dependent family member.
type Dependent struct {
	ID           id.EntryID `json:"id"`
	Relationship string     `json:"relationship"`
	DateOfBirth  string     `json:"dateOfBirth"`
	Citizenship  string     `json:"citizenship,omitempty"`
}

func (d Dependent) CheckRequired() error {
	switch {
	case d.Relationship == "":
		return dErrors.New(dErrors.CodeInvalidInput, "dependent relationship is required")
	case d.DateOfBirth == "":
		return dErrors.New(dErrors.CodeInvalidInput, "dependent date of birth is required")
	}
	return nil
}

// Connection is one family connection already in Canada.
type Connection struct {
	ID           id.EntryID `json:"id"`
	Relationship string     `json:"relationship"`
	Status       string     `json:"status"`
	Province     string     `json:"province,omitempty"`
}

func (c Connection) CheckRequired() error {
	switch {
	case c.Relationship == "":
		return dErrors.New(dErrors.CodeInvalidInput, "connection relationship is required")
	case c.Status == "":
		return dErrors.New(dErrors.CodeInvalidInput, "connection status is required")
	}
	return nil
}
