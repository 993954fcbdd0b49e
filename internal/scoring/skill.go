package scoring

import (
	"strings"

	"github.com/google/uuid"
)

// Proficiency level constants
const (
	ProficiencyBeginner     = "beginner"
	ProficiencyIntermediate = "intermediate"
	ProficiencyAdvanced     = "advanced"
	ProficiencyExpert       = "expert"
)

// proficiencyWeight maps proficiency levels to fixed comparison weights
var proficiencyWeight = map[string]float64{
	ProficiencyBeginner:     0.4,
	ProficiencyIntermediate: 0.7,
	ProficiencyAdvanced:     0.9,
	ProficiencyExpert:       1.0,
}

const (
	// requiredSkillFactor scales the declared weight of required skills
	// versus optional ones.
	requiredSkillFactor = 1.5
	// absentOptionalCredit is the fraction of its weight an optional skill
	// still contributes when the candidate does not have it.
	absentOptionalCredit = 0.3
	// defaultSkillWeight is used when a required skill carries no declared weight.
	defaultSkillWeight = 1.0
)

// CandidateSkill is one skill from a candidate snapshot.
type CandidateSkill struct {
	SkillID     uuid.UUID `json:"skill_id"`
	Name        string    `json:"name,omitempty"`
	Proficiency string    `json:"proficiency"`
	Years       float64   `json:"years"`
}

// RequiredSkill is one skill requirement from a job posting snapshot.
type RequiredSkill struct {
	SkillID        uuid.UUID `json:"skill_id"`
	Name           string    `json:"name,omitempty"`
	Required       bool      `json:"required"`
	MinProficiency string    `json:"min_proficiency"`
	Weight         float64   `json:"weight"`
}

// SkillMatchDetail records how a single job skill requirement scored against
// the candidate, for the persisted score breakdown.
type SkillMatchDetail struct {
	SkillID     uuid.UUID `json:"skill_id"`
	Name        string    `json:"name,omitempty"`
	Required    bool      `json:"required"`
	Matched     bool      `json:"matched"`
	Proficiency string    `json:"proficiency,omitempty"`
	MinRequired string    `json:"min_required,omitempty"`
	Earned      float64   `json:"earned"`
	Possible    float64   `json:"possible"`
}

// ProficiencyWeight returns the fixed comparison weight for a proficiency
// level. Unknown or empty levels default to intermediate.
func ProficiencyWeight(level string) float64 {
	if w, ok := proficiencyWeight[strings.ToLower(strings.TrimSpace(level))]; ok {
		return w
	}
	return proficiencyWeight[ProficiencyIntermediate]
}

// SkillScore scores a candidate's skills against a job's skill requirements.
// Required skills carry 1.5x their declared weight versus optional ones. A
// present skill at or above the required proficiency contributes its full
// weight; a present but under-qualified skill contributes proportionally to
// its proficiency weight; an absent optional skill still contributes 0.3x its
// weight; an absent required skill contributes nothing.
//
// A job with no skill requirements scores 100 for any candidate; a job with
// requirements scores 0 for a candidate with no skills at all.
func SkillScore(candidateSkills []CandidateSkill, requiredSkills []RequiredSkill) (float64, []SkillMatchDetail) {
	if len(requiredSkills) == 0 {
		return 100, nil
	}

	details := make([]SkillMatchDetail, 0, len(requiredSkills))

	if len(candidateSkills) == 0 {
		for _, req := range requiredSkills {
			details = append(details, SkillMatchDetail{
				SkillID:     req.SkillID,
				Name:        req.Name,
				Required:    req.Required,
				Matched:     false,
				MinRequired: req.MinProficiency,
				Possible:    effectiveWeight(req),
			})
		}
		return 0, details
	}

	byID := make(map[uuid.UUID]CandidateSkill, len(candidateSkills))
	for _, cs := range candidateSkills {
		byID[cs.SkillID] = cs
	}

	totalWeight := 0.0
	earnedWeight := 0.0
	for _, req := range requiredSkills {
		possible := effectiveWeight(req)
		totalWeight += possible

		detail := SkillMatchDetail{
			SkillID:     req.SkillID,
			Name:        req.Name,
			Required:    req.Required,
			MinRequired: req.MinProficiency,
			Possible:    possible,
		}

		cand, present := byID[req.SkillID]
		switch {
		case !present && req.Required:
			// Absent required skill earns nothing
		case !present:
			detail.Earned = absentOptionalCredit * possible
		default:
			detail.Matched = true
			detail.Proficiency = cand.Proficiency
			candWeight := ProficiencyWeight(cand.Proficiency)
			reqWeight := ProficiencyWeight(req.MinProficiency)
			if candWeight >= reqWeight {
				detail.Earned = possible
			} else {
				detail.Earned = possible * (candWeight / reqWeight)
			}
		}

		earnedWeight += detail.Earned
		details = append(details, detail)
	}

	if totalWeight == 0 {
		return 100, details
	}
	return Clamp(earnedWeight / totalWeight * 100), details
}

func effectiveWeight(req RequiredSkill) float64 {
	w := req.Weight
	if w <= 0 {
		w = defaultSkillWeight
	}
	if req.Required {
		w *= requiredSkillFactor
	}
	return w
}
