// Package scoring computes candidate-versus-job category scores and the
// weighted overall score. All functions are pure: output depends only on the
// candidate and job snapshots passed in, which is what makes them
// independently testable.
package scoring

import "math"

// Category names used for job weights and rule-driven boosts.
const (
	CategorySkill      = "skill"
	CategoryExperience = "experience"
	CategoryEducation  = "education"
	CategoryLocation   = "location"
)

// Default category weights applied when a job posting leaves them unset.
const (
	DefaultSkillWeight      = 0.40
	DefaultExperienceWeight = 0.30
	DefaultEducationWeight  = 0.20
	DefaultLocationWeight   = 0.10
)

// CategoryScores holds the four sub-scores, each in [0,100].
type CategoryScores struct {
	Skill      float64 `json:"skill"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Location   float64 `json:"location"`
}

// Weights holds the per-category weights from a job posting. Weights are used
// as stored and are not required to sum to 1.
type Weights struct {
	Skill      float64 `json:"skill"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Location   float64 `json:"location"`
}

// ResolveWeights builds the effective weight set for a job posting, filling
// hardcoded defaults for any weight the posting leaves unset.
func ResolveWeights(skill, experience, education, location *float64) Weights {
	w := Weights{
		Skill:      DefaultSkillWeight,
		Experience: DefaultExperienceWeight,
		Education:  DefaultEducationWeight,
		Location:   DefaultLocationWeight,
	}
	if skill != nil {
		w.Skill = *skill
	}
	if experience != nil {
		w.Experience = *experience
	}
	if education != nil {
		w.Education = *education
	}
	if location != nil {
		w.Location = *location
	}
	return w
}

// For returns the weight for a named category, or 0 for an unknown name.
func (w Weights) For(category string) float64 {
	switch category {
	case CategorySkill:
		return w.Skill
	case CategoryExperience:
		return w.Experience
	case CategoryEducation:
		return w.Education
	case CategoryLocation:
		return w.Location
	default:
		return 0
	}
}

// For returns the score for a named category, or 0 for an unknown name.
func (c CategoryScores) For(category string) float64 {
	switch category {
	case CategorySkill:
		return c.Skill
	case CategoryExperience:
		return c.Experience
	case CategoryEducation:
		return c.Education
	case CategoryLocation:
		return c.Location
	default:
		return 0
	}
}

// Set overwrites the score for a named category. Unknown names are ignored.
func (c *CategoryScores) Set(category string, score float64) {
	switch category {
	case CategorySkill:
		c.Skill = score
	case CategoryExperience:
		c.Experience = score
	case CategoryEducation:
		c.Education = score
	case CategoryLocation:
		c.Location = score
	}
}

// OverallScore combines the four category scores using the job's weights,
// rounded to 2 decimal places and clamped to [0,100].
func OverallScore(scores CategoryScores, weights Weights) float64 {
	overall := scores.Skill*weights.Skill +
		scores.Experience*weights.Experience +
		scores.Education*weights.Education +
		scores.Location*weights.Location
	return Clamp(Round2(overall))
}

// Clamp limits a score to the [0,100] range.
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Round2 rounds a score to 2 decimal places.
func Round2(score float64) float64 {
	return math.Round(score*100) / 100
}
