package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jharmon/matchengine/internal/rules"
)

// ScoringRule is a stored scoring rule row. Rules are authored out of band by
// an external editor; this core only reads them. Conditions and actions stay
// raw JSON here and are parsed by the rule engine at load time.
type ScoringRule struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	RuleType       string          `json:"rule_type"`
	IsGlobal       bool            `json:"is_global"`
	TemplateID     *uuid.UUID      `json:"template_id,omitempty"`
	JobPostingID   *uuid.UUID      `json:"job_posting_id,omitempty"`
	Priority       *int            `json:"priority,omitempty"`
	ExecutionOrder int             `json:"execution_order"`
	IsActive       bool            `json:"is_active"`
	StopOnMatch    bool            `json:"stop_on_match"`
	Conditions     json.RawMessage `json:"conditions"`
	Actions        json.RawMessage `json:"actions"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Scope derives the rule's authorship scope from its row columns.
func (r *ScoringRule) Scope() rules.Scope {
	switch {
	case r.JobPostingID != nil:
		return rules.ScopeJob
	case r.TemplateID != nil:
		return rules.ScopeTemplate
	default:
		return rules.ScopeGlobal
	}
}

// Definition converts the row into the rule engine's stored-definition form.
func (r *ScoringRule) Definition() rules.Definition {
	return rules.Definition{
		ID:             r.ID,
		Name:           r.Name,
		Scope:          r.Scope(),
		Type:           rules.RuleType(r.RuleType),
		Priority:       r.Priority,
		ExecutionOrder: r.ExecutionOrder,
		Active:         r.IsActive,
		StopOnMatch:    r.StopOnMatch,
		Conditions:     r.Conditions,
		Actions:        r.Actions,
	}
}
