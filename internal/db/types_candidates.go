package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jharmon/matchengine/internal/scoring"
)

// Candidate status constants
const (
	CandidateStatusActive    = "active"
	CandidateStatusWithdrawn = "withdrawn"
	CandidateStatusHired     = "hired"
	CandidateStatusRejected  = "rejected"
)

// Candidate is a candidate snapshot as read by scoring: identity, totals and
// the skill associations. It is never written by this core.
type Candidate struct {
	ID              uuid.UUID `json:"id"`
	FullName        string    `json:"full_name"`
	Email           *string   `json:"email,omitempty"`
	Status          string    `json:"status"`
	ExperienceYears float64   `json:"experience_years"`
	EducationLevel  *string   `json:"education_level,omitempty"`
	City            *string   `json:"city,omitempty"`
	Country         *string   `json:"country,omitempty"`

	// Skills is the joined candidate_skills association
	Skills []scoring.CandidateSkill `json:"skills,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EducationLevelOrEmpty returns the highest degree level, or "" when unknown.
func (c *Candidate) EducationLevelOrEmpty() string {
	if c.EducationLevel == nil {
		return ""
	}
	return *c.EducationLevel
}

// CityOrEmpty returns the candidate's city, or "" when unknown.
func (c *Candidate) CityOrEmpty() string {
	if c.City == nil {
		return ""
	}
	return *c.City
}

// CountryOrEmpty returns the candidate's country, or "" when unknown.
func (c *Candidate) CountryOrEmpty() string {
	if c.Country == nil {
		return ""
	}
	return *c.Country
}
