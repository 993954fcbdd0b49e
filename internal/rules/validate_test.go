package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_WellFormedRule(t *testing.T) {
	result := Validate(
		json.RawMessage(`{"operator": "AND", "conditions": [
			{"field": "candidate.status", "operator": "==", "value": "active"},
			{"field": "experience_years", "operator": ">=", "value": 3}
		]}`),
		json.RawMessage(`{"type": "BOOST_CATEGORY", "category": "skill", "modifier": {"type": "PERCENTAGE", "value": 20}}`),
	)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidate_UnknownOperator(t *testing.T) {
	result := Validate(
		json.RawMessage(`{"field": "status", "operator": "LIKE", "value": "x"}`),
		json.RawMessage(`{"type": "DISQUALIFY", "message": "nope"}`),
	)

	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)
}

func TestValidate_BoostWithoutModifier(t *testing.T) {
	result := Validate(
		json.RawMessage(`{"field": "status", "operator": "==", "value": "active"}`),
		json.RawMessage(`{"type": "BOOST_CATEGORY", "category": "skill"}`),
	)

	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "requires a modifier")
}

func TestValidate_BoostWithoutCategory(t *testing.T) {
	result := Validate(
		json.RawMessage(`{"field": "status", "operator": "==", "value": "active"}`),
		json.RawMessage(`{"type": "BOOST_CATEGORY", "modifier": {"type": "SET", "value": 50}}`),
	)

	assert.False(t, result.Valid)
}

func TestValidate_UnknownCategory(t *testing.T) {
	result := Validate(
		json.RawMessage(`{"field": "status", "operator": "==", "value": "active"}`),
		json.RawMessage(`{"type": "BOOST_CATEGORY", "category": "charisma", "modifier": {"type": "SET", "value": 50}}`),
	)

	assert.False(t, result.Valid)
}

func TestValidate_MalformedConditionJSON(t *testing.T) {
	result := Validate(
		json.RawMessage(`{"operator": `),
		json.RawMessage(`{"type": "DISQUALIFY", "message": "x"}`),
	)

	assert.False(t, result.Valid)
}

func TestValidate_DisqualifyWithoutMessageWarns(t *testing.T) {
	result := Validate(
		json.RawMessage(`{"field": "status", "operator": "==", "value": "withdrawn"}`),
		json.RawMessage(`{"type": "DISQUALIFY"}`),
	)

	assert.True(t, result.Valid)
	assert.NotEmpty(t, result.Warnings)
}

func TestValidate_BadRegexWarns(t *testing.T) {
	result := Validate(
		json.RawMessage(`{"field": "email", "operator": "MATCHES", "value": "["}`),
		json.RawMessage(`{"type": "DISQUALIFY", "message": "bad domain"}`),
	)

	assert.True(t, result.Valid, "a bad regex parses; it just never matches")
	assert.NotEmpty(t, result.Warnings)
}

func TestValidate_SetValueOutOfRangeWarns(t *testing.T) {
	result := Validate(
		json.RawMessage(`{"field": "status", "operator": "==", "value": "active"}`),
		json.RawMessage(`{"type": "MODIFY_OVERALL", "modifier": {"type": "SET", "value": 150}}`),
	)

	assert.True(t, result.Valid)
	assert.NotEmpty(t, result.Warnings)
}

func TestValidate_InValueNotArrayWarns(t *testing.T) {
	result := Validate(
		json.RawMessage(`{"field": "city", "operator": "IN", "value": "Berlin"}`),
		json.RawMessage(`{"type": "DISQUALIFY", "message": "x"}`),
	)

	assert.True(t, result.Valid)
	assert.NotEmpty(t, result.Warnings)
}

func TestValidate_ContainsValueNotStringWarns(t *testing.T) {
	result := Validate(
		json.RawMessage(`{"field": "title", "operator": "CONTAINS", "value": {"oops": true}}`),
		json.RawMessage(`{"type": "DISQUALIFY", "message": "x"}`),
	)

	assert.True(t, result.Valid)
	assert.NotEmpty(t, result.Warnings)
}
