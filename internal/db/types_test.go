package db

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jharmon/matchengine/internal/rules"
)

func TestScoringRule_Scope(t *testing.T) {
	jobID := uuid.New()
	templateID := uuid.New()

	global := &ScoringRule{IsGlobal: true}
	assert.Equal(t, rules.ScopeGlobal, global.Scope())

	template := &ScoringRule{TemplateID: &templateID}
	assert.Equal(t, rules.ScopeTemplate, template.Scope())

	job := &ScoringRule{TemplateID: &templateID, JobPostingID: &jobID}
	assert.Equal(t, rules.ScopeJob, job.Scope(), "job binding wins over template binding")
}

func TestScoringRule_Definition(t *testing.T) {
	priority := 80
	row := &ScoringRule{
		ID:             uuid.New(),
		Name:           "senior boost",
		RuleType:       "CATEGORY_BOOST",
		IsGlobal:       true,
		Priority:       &priority,
		ExecutionOrder: 3,
		IsActive:       true,
		StopOnMatch:    true,
		Conditions:     json.RawMessage(`{"field": "experience_years", "operator": ">=", "value": 8}`),
		Actions:        json.RawMessage(`{"type": "BOOST_CATEGORY", "category": "experience", "modifier": {"type": "ABSOLUTE", "value": 10}}`),
	}

	def := row.Definition()

	assert.Equal(t, row.ID, def.ID)
	assert.Equal(t, rules.ScopeGlobal, def.Scope)
	assert.Equal(t, rules.RuleTypeCategoryBoost, def.Type)
	assert.Equal(t, &priority, def.Priority)
	assert.Equal(t, 3, def.ExecutionOrder)
	assert.True(t, def.Active)
	assert.True(t, def.StopOnMatch)

	// The definition must compile cleanly through the rule engine
	rule, err := rules.Compile(def)
	assert.NoError(t, err)
	assert.True(t, rule.Matchable())
}

func TestJobPosting_Weights(t *testing.T) {
	skill := 0.7
	location := 0.0
	posting := &JobPosting{SkillWeight: &skill, LocationWeight: &location}

	w := posting.Weights()

	assert.Equal(t, 0.7, w.Skill)
	assert.Equal(t, 0.30, w.Experience, "unset weight falls back to default")
	assert.Equal(t, 0.20, w.Education)
	assert.Equal(t, 0.0, w.Location, "explicit zero is respected")
}

func TestCandidate_OrEmptyHelpers(t *testing.T) {
	city := "Berlin"
	c := &Candidate{City: &city}

	assert.Equal(t, "Berlin", c.CityOrEmpty())
	assert.Equal(t, "", c.CountryOrEmpty())
	assert.Equal(t, "", c.EducationLevelOrEmpty())
}

func TestJobPosting_OrEmptyHelpers(t *testing.T) {
	education := "master"
	p := &JobPosting{RequiredEducation: &education}

	assert.Equal(t, "master", p.RequiredEducationOrEmpty())
	assert.Equal(t, "", p.CityOrEmpty())
	assert.Equal(t, "", p.CountryOrEmpty())
}
