package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jharmon/matchengine/internal/rules"
)

// -----------------------------------------------------------------------------
// Scoring Rule Methods
// -----------------------------------------------------------------------------

// ListActiveRules returns the active rules applicable to a job: global rules,
// rules for the job's scoring template when it has one, and job-specific
// rules.
func (db *DB) ListActiveRules(ctx context.Context, jobID uuid.UUID, templateID *uuid.UUID) ([]ScoringRule, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, rule_type, is_global, template_id, job_posting_id,
		        priority, execution_order, is_active, stop_on_match,
		        conditions, actions, created_at, updated_at
		 FROM scoring_rules
		 WHERE is_active
		   AND (is_global
		        OR job_posting_id = $1
		        OR ($2::uuid IS NOT NULL AND template_id = $2))
		 ORDER BY created_at`,
		jobID, templateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scoring rules: %w", err)
	}
	defer rows.Close()

	var result []ScoringRule
	for rows.Next() {
		var r ScoringRule
		if err := rows.Scan(&r.ID, &r.Name, &r.RuleType, &r.IsGlobal, &r.TemplateID,
			&r.JobPostingID, &r.Priority, &r.ExecutionOrder, &r.IsActive,
			&r.StopOnMatch, &r.Conditions, &r.Actions, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scoring rule: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scoring rules: %w", err)
	}
	return result, nil
}

// ActiveRules implements the rule engine's Source interface.
func (db *DB) ActiveRules(ctx context.Context, jobID uuid.UUID, templateID *uuid.UUID) ([]rules.Definition, error) {
	stored, err := db.ListActiveRules(ctx, jobID, templateID)
	if err != nil {
		return nil, err
	}
	defs := make([]rules.Definition, 0, len(stored))
	for i := range stored {
		defs = append(defs, stored[i].Definition())
	}
	return defs, nil
}
