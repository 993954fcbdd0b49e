package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jharmon/matchengine/internal/scoring"
)

// JobPosting is a job posting snapshot as read by scoring: per-category
// weights, experience and education requirements, location and the required
// skill associations. Weights are stored as authored and are not validated to
// sum to 1.
type JobPosting struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"` // scoring template reference

	// Per-category weights in [0,1]; nil means unset, scored with defaults
	SkillWeight      *float64 `json:"skill_weight,omitempty"`
	ExperienceWeight *float64 `json:"experience_weight,omitempty"`
	EducationWeight  *float64 `json:"education_weight,omitempty"`
	LocationWeight   *float64 `json:"location_weight,omitempty"`

	MinExperienceYears       float64 `json:"min_experience_years"`
	PreferredExperienceYears float64 `json:"preferred_experience_years"`
	RequiredEducation        *string `json:"required_education,omitempty"`

	City         *string `json:"city,omitempty"`
	Country      *string `json:"country,omitempty"`
	LocationType string  `json:"location_type"` // 'remote', 'hybrid', 'onsite'

	// RequiredSkills is the joined job_required_skills association
	RequiredSkills []scoring.RequiredSkill `json:"required_skills,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Weights resolves the posting's effective category weights, applying the
// hardcoded defaults for any the posting leaves unset.
func (p *JobPosting) Weights() scoring.Weights {
	return scoring.ResolveWeights(p.SkillWeight, p.ExperienceWeight, p.EducationWeight, p.LocationWeight)
}

// RequiredEducationOrEmpty returns the required education level, or "" when
// the posting has no requirement.
func (p *JobPosting) RequiredEducationOrEmpty() string {
	if p.RequiredEducation == nil {
		return ""
	}
	return *p.RequiredEducation
}

// CityOrEmpty returns the job's city, or "" when unset.
func (p *JobPosting) CityOrEmpty() string {
	if p.City == nil {
		return ""
	}
	return *p.City
}

// CountryOrEmpty returns the job's country, or "" when unset.
func (p *JobPosting) CountryOrEmpty() string {
	if p.Country == nil {
		return ""
	}
	return *p.Country
}
