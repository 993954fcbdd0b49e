package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jharmon/matchengine/internal/scoring"
)

func TestParseAction_KnownTypes(t *testing.T) {
	action, err := ParseAction(json.RawMessage(`{"type": "BOOST_CATEGORY", "category": "skill", "modifier": {"type": "PERCENTAGE", "value": 20}}`))
	require.NoError(t, err)
	assert.Equal(t, ActionBoostCategory, action.Type)
	assert.Equal(t, "skill", action.Category)
	require.NotNil(t, action.Modifier)
	assert.Equal(t, ModifierPercentage, action.Modifier.Type)
}

func TestParseAction_UnknownType(t *testing.T) {
	_, err := ParseAction(json.RawMessage(`{"type": "EXPLODE"}`))
	assert.Error(t, err)
}

func TestParseAction_UnknownModifierType(t *testing.T) {
	_, err := ParseAction(json.RawMessage(`{"type": "MODIFY_OVERALL", "modifier": {"type": "HALVE", "value": 2}}`))
	assert.Error(t, err)
}

func TestModifierApply_Percentage(t *testing.T) {
	m := Modifier{Type: ModifierPercentage, Value: 20}
	assert.InDelta(t, 60.0, m.Apply(50), 0.001)

	down := Modifier{Type: ModifierPercentage, Value: -50}
	assert.InDelta(t, 25.0, down.Apply(50), 0.001)
}

func TestModifierApply_Absolute(t *testing.T) {
	m := Modifier{Type: ModifierAbsolute, Value: 30}
	assert.Equal(t, 80.0, m.Apply(50))
	assert.Equal(t, 100.0, m.Apply(90))

	down := Modifier{Type: ModifierAbsolute, Value: -60}
	assert.Equal(t, 0.0, down.Apply(50))
}

func TestModifierApply_Multiplier(t *testing.T) {
	m := Modifier{Type: ModifierMultiplier, Value: 1.5}
	assert.Equal(t, 75.0, m.Apply(50))
	assert.Equal(t, 100.0, m.Apply(90))
}

func TestModifierApply_Set(t *testing.T) {
	m := Modifier{Type: ModifierSet, Value: 42}
	assert.Equal(t, 42.0, m.Apply(10))

	over := Modifier{Type: ModifierSet, Value: 120}
	assert.Equal(t, 100.0, over.Apply(10))
}

func TestExecute_Disqualify(t *testing.T) {
	st := &scoreState{overall: 70}

	outcome := execute(&Action{Type: ActionDisqualify, Message: "candidate withdrew"}, st)

	assert.True(t, outcome.Disqualified)
	assert.Equal(t, "candidate withdrew", outcome.Reason)
	assert.Equal(t, 70.0, st.overall, "disqualify makes no numeric change")
}

func TestExecute_DisqualifyDefaultReason(t *testing.T) {
	outcome := execute(&Action{Type: ActionDisqualify}, &scoreState{})
	assert.NotEmpty(t, outcome.Reason)
}

func TestExecute_BoostCategory(t *testing.T) {
	st := &scoreState{
		categories: scoring.CategoryScores{Skill: 50, Experience: 80, Education: 100, Location: 60},
		weights:    scoring.Weights{Skill: 0.4, Experience: 0.3, Education: 0.2, Location: 0.1},
	}
	st.overall = scoring.OverallScore(st.categories, st.weights)

	outcome := execute(&Action{
		Type:     ActionBoostCategory,
		Category: scoring.CategorySkill,
		Modifier: &Modifier{Type: ModifierPercentage, Value: 20},
	}, st)

	assert.Equal(t, 60.0, st.categories.Skill)
	assert.InDelta(t, 10.0, outcome.Impact, 0.001)
	// Overall moves by the weighted share of the category delta
	assert.InDelta(t, 74.0, st.overall, 0.001)
	assert.Equal(t, 80.0, st.categories.Experience, "other categories untouched")
}

func TestExecute_BoostCategoryClamped(t *testing.T) {
	st := &scoreState{
		categories: scoring.CategoryScores{Skill: 95},
		weights:    scoring.Weights{Skill: 0.4},
	}
	st.overall = scoring.OverallScore(st.categories, st.weights)

	outcome := execute(&Action{
		Type:     ActionBoostCategory,
		Category: scoring.CategorySkill,
		Modifier: &Modifier{Type: ModifierPercentage, Value: 50},
	}, st)

	assert.Equal(t, 100.0, st.categories.Skill)
	assert.InDelta(t, 5.0, outcome.Impact, 0.001)
}

func TestExecute_ModifyOverall(t *testing.T) {
	st := &scoreState{overall: 70}

	outcome := execute(&Action{
		Type:     ActionModifyOverall,
		Modifier: &Modifier{Type: ModifierAbsolute, Value: -15},
	}, st)

	assert.Equal(t, 55.0, st.overall)
	assert.InDelta(t, -15.0, outcome.Impact, 0.001)
}

func TestExecute_AdjustWeightsIsAdvisory(t *testing.T) {
	st := &scoreState{
		weights: scoring.Weights{Skill: 0.4, Experience: 0.3, Education: 0.2, Location: 0.1},
		overall: 70,
	}

	outcome := execute(&Action{
		Type:     ActionAdjustWeights,
		Category: scoring.CategorySkill,
		Modifier: &Modifier{Type: ModifierMultiplier, Value: 1.5},
	}, st)

	assert.False(t, outcome.Disqualified)
	assert.InDelta(t, 0.2, outcome.WeightDeltas[scoring.CategorySkill], 0.001)
	assert.Equal(t, 0.4, st.weights.Skill, "weights are not mutated")
	assert.Equal(t, 70.0, st.overall, "scores are not mutated")
}

func TestExecute_MissingModifierIsNoOp(t *testing.T) {
	st := &scoreState{overall: 70}

	outcome := execute(&Action{Type: ActionModifyOverall}, st)

	assert.Equal(t, 0.0, outcome.Impact)
	assert.Equal(t, 70.0, st.overall)
}
