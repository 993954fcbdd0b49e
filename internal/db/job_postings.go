package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jharmon/matchengine/internal/scoring"
)

// -----------------------------------------------------------------------------
// Job Posting Methods
// -----------------------------------------------------------------------------

// GetJobPostingByID retrieves a job posting snapshot with its required skill
// associations. Returns nil without error when the posting does not exist.
func (db *DB) GetJobPostingByID(ctx context.Context, id uuid.UUID) (*JobPosting, error) {
	var p JobPosting
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, template_id, skill_weight, experience_weight,
		        education_weight, location_weight, min_experience_years,
		        preferred_experience_years, required_education, city, country,
		        location_type, created_at, updated_at
		 FROM job_postings WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Title, &p.TemplateID, &p.SkillWeight, &p.ExperienceWeight,
		&p.EducationWeight, &p.LocationWeight, &p.MinExperienceYears,
		&p.PreferredExperienceYears, &p.RequiredEducation, &p.City, &p.Country,
		&p.LocationType, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}

	required, err := db.getJobRequiredSkills(ctx, id)
	if err != nil {
		return nil, err
	}
	p.RequiredSkills = required

	return &p, nil
}

// getJobRequiredSkills loads the job_required_skills association with skill names.
func (db *DB) getJobRequiredSkills(ctx context.Context, jobID uuid.UUID) ([]scoring.RequiredSkill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT jrs.skill_id, s.name, jrs.is_required, jrs.min_proficiency, jrs.weight
		 FROM job_required_skills jrs
		 JOIN skills s ON s.id = jrs.skill_id
		 WHERE jrs.job_posting_id = $1
		 ORDER BY s.name`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get job required skills: %w", err)
	}
	defer rows.Close()

	var skills []scoring.RequiredSkill
	for rows.Next() {
		var s scoring.RequiredSkill
		if err := rows.Scan(&s.SkillID, &s.Name, &s.Required, &s.MinProficiency, &s.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan job required skill: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job required skills: %w", err)
	}
	return skills, nil
}
