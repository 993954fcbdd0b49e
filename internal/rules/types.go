// Package rules implements the data-driven scoring rule engine: parsing of
// stored JSON rule definitions into typed condition and action trees,
// condition evaluation against candidate/job snapshots, action execution, and
// the two-phase evaluation pipeline with its audit trail.
package rules

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Scope is the authorship level of a rule.
type Scope string

// Rule scopes
const (
	ScopeGlobal   Scope = "global"
	ScopeTemplate Scope = "template"
	ScopeJob      Scope = "job"
)

// RuleType classifies what a rule does when it matches.
type RuleType string

// Rule types
const (
	RuleTypePreFilter       RuleType = "PRE_FILTER"
	RuleTypeDisqualify      RuleType = "DISQUALIFY"
	RuleTypeCategoryBoost   RuleType = "CATEGORY_BOOST"
	RuleTypeOverallModifier RuleType = "OVERALL_MODIFIER"
	RuleTypeWeightAdjuster  RuleType = "WEIGHT_ADJUSTER"
)

// Strategy selects how applicable rules are ordered before evaluation.
type Strategy string

// Execution strategies
const (
	StrategyPriority   Strategy = "PRIORITY"
	StrategySequential Strategy = "SEQUENTIAL"
	StrategyGrouped    Strategy = "GROUPED"
)

// DefaultPriority is assigned to rules that do not declare one.
const DefaultPriority = 50

// Definition is a stored rule row as persisted: condition and action trees
// still raw JSON. Rows are authored out of band and only read here.
type Definition struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Scope          Scope           `json:"scope"`
	Type           RuleType        `json:"rule_type"`
	Priority       *int            `json:"priority,omitempty"`
	ExecutionOrder int             `json:"execution_order"`
	Active         bool            `json:"is_active"`
	StopOnMatch    bool            `json:"stop_on_match"`
	Conditions     json.RawMessage `json:"conditions"`
	Actions        json.RawMessage `json:"actions"`
}

// Rule is an executable rule: a Definition with its condition and action
// parsed once at load time. Malformed JSON leaves Condition or Action nil,
// which makes the rule inert rather than aborting evaluation.
type Rule struct {
	ID             uuid.UUID
	Name           string
	Scope          Scope
	Type           RuleType
	Priority       int
	ExecutionOrder int
	Active         bool
	StopOnMatch    bool
	Condition      Condition
	Action         *Action
}

// Compile parses a stored definition into an executable rule. Parse failures
// are reported so callers can log them, but the returned rule is still usable:
// it simply never matches.
func Compile(def Definition) (Rule, error) {
	rule := Rule{
		ID:             def.ID,
		Name:           def.Name,
		Scope:          def.Scope,
		Type:           def.Type,
		Priority:       DefaultPriority,
		ExecutionOrder: def.ExecutionOrder,
		Active:         def.Active,
		StopOnMatch:    def.StopOnMatch,
	}
	if def.Priority != nil {
		rule.Priority = *def.Priority
	}

	cond, condErr := ParseCondition(def.Conditions)
	if condErr == nil {
		rule.Condition = cond
	}

	action, actionErr := ParseAction(def.Actions)
	if actionErr == nil {
		rule.Action = action
	}

	if condErr != nil {
		return rule, condErr
	}
	return rule, actionErr
}

// Matchable reports whether the rule can ever fire: it must be active and
// have survived parsing of both its condition and its action.
func (r Rule) Matchable() bool {
	return r.Active && r.Condition != nil && r.Action != nil
}
