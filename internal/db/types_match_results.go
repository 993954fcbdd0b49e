package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jharmon/matchengine/internal/rules"
	"github.com/jharmon/matchengine/internal/scoring"
)

// Review status constants for match results
const (
	ReviewStatusPending     = "pending"
	ReviewStatusReviewed    = "reviewed"
	ReviewStatusShortlisted = "shortlisted"
)

// Match source constants
const (
	MatchSourceLocal    = "local"
	MatchSourceSemantic = "semantic"
)

// ScoreBreakdown is the JSONB breakdown persisted alongside a match result:
// the weights used, per-skill matching detail, and (for remote results) the
// criteria lists and similarity the semantic service reported.
type ScoreBreakdown struct {
	Weights           scoring.Weights            `json:"weights"`
	SkillMatches      []scoring.SkillMatchDetail `json:"skill_matches,omitempty"`
	WeightAdjustments map[string]float64         `json:"weight_adjustments,omitempty"`
	MatchedCriteria   []string                   `json:"matched_criteria,omitempty"`
	MissingCriteria   []string                   `json:"missing_criteria,omitempty"`
	CosineSimilarity  *float64                   `json:"cosine_similarity,omitempty"`
	CriteriaScore     *float64                   `json:"criteria_score,omitempty"`
}

// MatchResult is one candidate's scored match against a job posting.
// (candidate_id, job_posting_id) is a natural key: re-scoring upserts rather
// than duplicates. Rank is dense, 1-based, and assigned only after a full
// batch; disqualified results keep a NULL rank.
type MatchResult struct {
	ID           uuid.UUID `json:"id"`
	CandidateID  uuid.UUID `json:"candidate_id"`
	JobPostingID uuid.UUID `json:"job_posting_id"`

	SkillScore      float64 `json:"skill_score"`
	ExperienceScore float64 `json:"experience_score"`
	EducationScore  float64 `json:"education_score"`
	LocationScore   float64 `json:"location_score"`
	OverallScore    float64 `json:"overall_score"`

	Breakdown  *ScoreBreakdown    `json:"breakdown,omitempty"`
	AuditTrail []rules.AuditEntry `json:"audit_trail,omitempty"`

	Rank                   *int    `json:"rank,omitempty"`
	Disqualified           bool    `json:"disqualified"`
	DisqualificationReason *string `json:"disqualification_reason,omitempty"`
	ReviewStatus           string  `json:"review_status"`
	Source                 string  `json:"source"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
