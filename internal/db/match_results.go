package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Match Result Methods
// -----------------------------------------------------------------------------

// UpsertMatchResult stores a match result keyed by (candidate_id,
// job_posting_id), overwriting scores, breakdown and audit trail on conflict.
// Reports whether a new row was created.
func (db *DB) UpsertMatchResult(ctx context.Context, m *MatchResult) (bool, error) {
	breakdownJSON, err := json.Marshal(m.Breakdown)
	if err != nil {
		return false, fmt.Errorf("failed to marshal score breakdown: %w", err)
	}
	auditJSON, err := json.Marshal(m.AuditTrail)
	if err != nil {
		return false, fmt.Errorf("failed to marshal audit trail: %w", err)
	}

	if m.ReviewStatus == "" {
		m.ReviewStatus = ReviewStatusPending
	}

	var created bool
	err = db.pool.QueryRow(ctx,
		`INSERT INTO match_results (
		     candidate_id, job_posting_id, skill_score, experience_score,
		     education_score, location_score, overall_score, breakdown,
		     audit_trail, disqualified, disqualification_reason, review_status,
		     source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (candidate_id, job_posting_id) DO UPDATE SET
		     skill_score = $3, experience_score = $4, education_score = $5,
		     location_score = $6, overall_score = $7, breakdown = $8,
		     audit_trail = $9, disqualified = $10,
		     disqualification_reason = $11, source = $13, updated_at = NOW()
		 RETURNING id, (xmax = 0)`,
		m.CandidateID, m.JobPostingID, m.SkillScore, m.ExperienceScore,
		m.EducationScore, m.LocationScore, m.OverallScore, breakdownJSON,
		auditJSON, m.Disqualified, m.DisqualificationReason, m.ReviewStatus,
		m.Source,
	).Scan(&m.ID, &created)
	if err != nil {
		return false, fmt.Errorf("failed to upsert match result: %w", err)
	}
	return created, nil
}

// RecomputeRanks overwrites the rank of every match result for a job: dense,
// 1-based, ordered by overall score descending, disqualified results
// excluded and left with a NULL rank. The whole pass runs inside a per-job
// advisory lock so concurrent batch runs for the same job cannot interleave
// their rank writes.
func (db *DB) RecomputeRanks(ctx context.Context, jobID uuid.UUID) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rank transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, jobID,
	); err != nil {
		return fmt.Errorf("failed to acquire rank lock: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE match_results SET rank = NULL WHERE job_posting_id = $1`, jobID,
	); err != nil {
		return fmt.Errorf("failed to clear ranks: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`WITH ranked AS (
		     SELECT id, DENSE_RANK() OVER (ORDER BY overall_score DESC) AS new_rank
		     FROM match_results
		     WHERE job_posting_id = $1 AND NOT disqualified
		 )
		 UPDATE match_results m
		 SET rank = r.new_rank, updated_at = NOW()
		 FROM ranked r
		 WHERE m.id = r.id`,
		jobID,
	); err != nil {
		return fmt.Errorf("failed to assign ranks: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rank transaction: %w", err)
	}
	return nil
}

// ListMatchResultsByJob retrieves match results for a job, ranked results
// first, then disqualified and unranked ones by score. A limit of 0 returns
// everything.
func (db *DB) ListMatchResultsByJob(ctx context.Context, jobID uuid.UUID, limit int) ([]MatchResult, error) {
	query := `SELECT id, candidate_id, job_posting_id, skill_score,
	                 experience_score, education_score, location_score,
	                 overall_score, breakdown, audit_trail, rank, disqualified,
	                 disqualification_reason, review_status, source,
	                 created_at, updated_at
	          FROM match_results
	          WHERE job_posting_id = $1
	          ORDER BY rank NULLS LAST, overall_score DESC`
	args := []any{jobID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list match results: %w", err)
	}
	defer rows.Close()

	var results []MatchResult
	for rows.Next() {
		var m MatchResult
		var breakdownJSON, auditJSON []byte
		if err := rows.Scan(&m.ID, &m.CandidateID, &m.JobPostingID, &m.SkillScore,
			&m.ExperienceScore, &m.EducationScore, &m.LocationScore,
			&m.OverallScore, &breakdownJSON, &auditJSON, &m.Rank, &m.Disqualified,
			&m.DisqualificationReason, &m.ReviewStatus, &m.Source,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match result: %w", err)
		}

		// Parse JSONB fields
		if breakdownJSON != nil {
			_ = json.Unmarshal(breakdownJSON, &m.Breakdown)
		}
		if auditJSON != nil {
			_ = json.Unmarshal(auditJSON, &m.AuditTrail)
		}

		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate match results: %w", err)
	}
	return results, nil
}
