package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jharmon/matchengine/internal/scoring"
)

// -----------------------------------------------------------------------------
// Candidate Methods
// -----------------------------------------------------------------------------

// GetCandidateByID retrieves a candidate snapshot with its skill associations.
// Returns nil without error when the candidate does not exist.
func (db *DB) GetCandidateByID(ctx context.Context, id uuid.UUID) (*Candidate, error) {
	var c Candidate
	err := db.pool.QueryRow(ctx,
		`SELECT id, full_name, email, status, experience_years, education_level,
		        city, country, created_at, updated_at
		 FROM candidates WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.FullName, &c.Email, &c.Status, &c.ExperienceYears,
		&c.EducationLevel, &c.City, &c.Country, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}

	skills, err := db.getCandidateSkills(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Skills = skills

	return &c, nil
}

// ListCandidateIDs returns the ids of all candidates eligible for matching.
func (db *DB) ListCandidateIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id FROM candidates WHERE status != $1 ORDER BY created_at`,
		CandidateStatusRejected,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan candidate id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return ids, nil
}

// getCandidateSkills loads the candidate_skills association with skill names.
func (db *DB) getCandidateSkills(ctx context.Context, candidateID uuid.UUID) ([]scoring.CandidateSkill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT cs.skill_id, s.name, cs.proficiency, cs.years
		 FROM candidate_skills cs
		 JOIN skills s ON s.id = cs.skill_id
		 WHERE cs.candidate_id = $1
		 ORDER BY s.name`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate skills: %w", err)
	}
	defer rows.Close()

	var skills []scoring.CandidateSkill
	for rows.Next() {
		var s scoring.CandidateSkill
		if err := rows.Scan(&s.SkillID, &s.Name, &s.Proficiency, &s.Years); err != nil {
			return nil, fmt.Errorf("failed to scan candidate skill: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidate skills: %w", err)
	}
	return skills, nil
}
