package api

import (
	"fmt"
	"strings"
)

// AcademicYear is the year block of the academic status payload.
type AcademicYear struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Year      int    `json:"year" yaml:"year"`
	StartDate string `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	State     string `json:"state,omitempty" yaml:"state,omitempty"`
}

// Active reports whether the year is in the ACTIVE state.
func (y *AcademicYear) Active() bool {
	return y != nil && strings.EqualFold(y.State, "ACTIVE")
}

// Label renders the year for a badge, e.g. "AY 2025".
func (y *AcademicYear) Label() string {
	if y == nil {
		return ""
	}
	return fmt.Sprintf("AY %d", y.Year)
}

// AcademicTerm is the term block of the academic status payload.
type AcademicTerm struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Term      int    `json:"term" yaml:"term"`
	StartDate string `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	State     string `json:"state,omitempty" yaml:"state,omitempty"`
}

// Active reports whether the term is in the ACTIVE state.
func (t *AcademicTerm) Active() bool {
	return t != nil && strings.EqualFold(t.State, "ACTIVE")
}

// Label renders the term for a badge, e.g. "Term 2".
func (t *AcademicTerm) Label() string {
	if t == nil {
		return ""
	}
	return fmt.Sprintf("Term %d", t.Term)
}

// AcademicStatus is the snapshot returned by GET /api/academic/status.
type AcademicStatus struct {
	SetupComplete bool          `json:"setup_complete" yaml:"setup_complete"`
	HasClasses    bool          `json:"has_classes" yaml:"has_classes"`
	AcademicYear  *AcademicYear `json:"academic_year" yaml:"academic_year"`
	ActiveTerm    *AcademicTerm `json:"active_term" yaml:"active_term"`
	Warnings      []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ClassList is the envelope of GET /api/classes/. Only the total is read.
type ClassList struct {
	Total int `json:"total"`
}

// Boarding types accepted by the API.
const (
	BoardingDay      = "DAY"
	BoardingBoarding = "BOARDING"
	BoardingBoth     = "BOTH"
)

// Gender types accepted by the API.
const (
	GenderBoys  = "BOYS"
	GenderGirls = "GIRLS"
	GenderMixed = "MIXED"
)

// BoardingTypes lists the valid boarding types in display order.
var BoardingTypes = []string{BoardingDay, BoardingBoarding, BoardingBoth}

// GenderTypes lists the valid gender types in display order.
var GenderTypes = []string{GenderBoys, GenderGirls, GenderMixed}

// CreateSchoolRequest is the body of POST /api/schools/. Optional fields
// are omitted when empty.
type CreateSchoolRequest struct {
	Name              string `json:"name"`
	ShortCode         string `json:"short_code,omitempty"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Address           string `json:"address,omitempty"`
	Currency          string `json:"currency,omitempty"`
	AcademicYearStart string `json:"academic_year_start"`
	BoardingType      string `json:"boarding_type,omitempty"`
	GenderType        string `json:"gender_type,omitempty"`
}

// School is a created or fetched school record.
type School struct {
	ID                string `json:"id" yaml:"id"`
	Name              string `json:"name" yaml:"name"`
	Address           string `json:"address,omitempty" yaml:"address,omitempty"`
	ShortCode         string `json:"short_code,omitempty" yaml:"short_code,omitempty"`
	Email             string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone             string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Currency          string `json:"currency,omitempty" yaml:"currency,omitempty"`
	AcademicYearStart string `json:"academic_year_start,omitempty" yaml:"academic_year_start,omitempty"`
	BoardingType      string `json:"boarding_type,omitempty" yaml:"boarding_type,omitempty"`
	GenderType        string `json:"gender_type,omitempty" yaml:"gender_type,omitempty"`
}

// SchoolMembership is one entry of GET /api/schools/mine.
type SchoolMembership struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Role string `json:"role,omitempty" yaml:"role,omitempty"`
}
