package rules

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jharmon/matchengine/internal/scoring"
)

// ValidationResult is the outcome of validating one rule's condition and
// action blobs. It is meant for an external rule-authoring tool: checks are
// structural only, never against actual candidate or job data.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

var knownCategories = map[string]bool{
	scoring.CategorySkill:      true,
	scoring.CategoryExperience: true,
	scoring.CategoryEducation:  true,
	scoring.CategoryLocation:   true,
}

// Validate checks a conditions blob and an actions blob for structural
// soundness: well-formed JSON, known operators and action types, and the
// fields each action type requires.
func Validate(conditions, actions json.RawMessage) ValidationResult {
	result := ValidationResult{Errors: []string{}, Warnings: []string{}}

	result.Errors = append(result.Errors, schemaErrors("conditions", conditionSchema, conditions)...)
	result.Errors = append(result.Errors, schemaErrors("actions", actionSchema, actions)...)

	cond, err := ParseCondition(conditions)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("conditions: %v", err))
	} else {
		result.Warnings = append(result.Warnings, conditionWarnings(cond)...)
	}

	action, err := ParseAction(actions)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("actions: %v", err))
	} else {
		errs, warns := actionChecks(action)
		result.Errors = append(result.Errors, errs...)
		result.Warnings = append(result.Warnings, warns...)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func schemaErrors(label, schema string, doc json.RawMessage) []string {
	if len(doc) == 0 {
		return []string{fmt.Sprintf("%s: document is empty", label)}
	}

	res, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return []string{fmt.Sprintf("%s: %v", label, err)}
	}

	errs := make([]string, 0, len(res.Errors()))
	for _, desc := range res.Errors() {
		errs = append(errs, fmt.Sprintf("%s: %s: %s", label, desc.Field(), desc.Description()))
	}
	return errs
}

// conditionWarnings flags constructs that parse but are likely authoring
// mistakes, such as regex patterns that will never compile at evaluation time.
func conditionWarnings(cond Condition) []string {
	var warnings []string
	switch n := cond.(type) {
	case *LogicalNode:
		for _, child := range n.Children {
			warnings = append(warnings, conditionWarnings(child)...)
		}
	case *LeafNode:
		if n.Op == OpMatches {
			if pattern, ok := toPrimitiveString(n.Value); ok {
				if _, err := regexp.Compile("(?i)" + pattern); err != nil {
					warnings = append(warnings, fmt.Sprintf("conditions: field %q: pattern %q does not compile and will never match", n.Field, pattern))
				}
			} else {
				warnings = append(warnings, fmt.Sprintf("conditions: field %q: MATCHES value is not a string", n.Field))
			}
		}
		if n.Op == OpIn {
			if _, ok := n.Value.([]any); !ok {
				warnings = append(warnings, fmt.Sprintf("conditions: field %q: IN value is not an array and will never match", n.Field))
			}
		}
		if n.Op == OpContains || n.Op == OpStartsWith || n.Op == OpEndsWith {
			if _, ok := toPrimitiveString(n.Value); !ok {
				warnings = append(warnings, fmt.Sprintf("conditions: field %q: %s value is not a string and will never match", n.Field, n.Op))
			}
		}
	}
	return warnings
}

func actionChecks(action *Action) (errs, warnings []string) {
	needsModifier := action.Type == ActionBoostCategory ||
		action.Type == ActionModifyOverall ||
		action.Type == ActionAdjustWeights
	needsCategory := action.Type == ActionBoostCategory || action.Type == ActionAdjustWeights

	if needsModifier && action.Modifier == nil {
		errs = append(errs, fmt.Sprintf("actions: %s requires a modifier", action.Type))
	}
	if needsCategory {
		if action.Category == "" {
			errs = append(errs, fmt.Sprintf("actions: %s requires a category", action.Type))
		} else if !knownCategories[action.Category] {
			errs = append(errs, fmt.Sprintf("actions: unknown category %q", action.Category))
		}
	}

	if action.Type == ActionDisqualify {
		if action.Message == "" {
			warnings = append(warnings, "actions: DISQUALIFY has no message; a default reason will be reported")
		}
		if action.Modifier != nil {
			warnings = append(warnings, "actions: DISQUALIFY ignores its modifier")
		}
	}

	if action.Modifier != nil && action.Modifier.Type == ModifierSet {
		if action.Modifier.Value < 0 || action.Modifier.Value > 100 {
			warnings = append(warnings, fmt.Sprintf("actions: SET value %v is outside [0,100] and will be clamped", action.Modifier.Value))
		}
	}
	return errs, warnings
}
