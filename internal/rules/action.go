package rules

import (
	"encoding/json"
	"fmt"

	"github.com/jharmon/matchengine/internal/scoring"
)

// ActionType declares what happens when a rule matches.
type ActionType string

// Action types
const (
	ActionDisqualify    ActionType = "DISQUALIFY"
	ActionBoostCategory ActionType = "BOOST_CATEGORY"
	ActionModifyOverall ActionType = "MODIFY_OVERALL"
	ActionAdjustWeights ActionType = "ADJUST_WEIGHTS"
)

// ModifierType selects how a modifier value is applied to a score.
type ModifierType string

// Modifier types
const (
	ModifierPercentage ModifierType = "PERCENTAGE"
	ModifierAbsolute   ModifierType = "ABSOLUTE"
	ModifierMultiplier ModifierType = "MULTIPLIER"
	ModifierSet        ModifierType = "SET"
)

var actionTypes = map[ActionType]bool{
	ActionDisqualify: true, ActionBoostCategory: true,
	ActionModifyOverall: true, ActionAdjustWeights: true,
}

var modifierTypes = map[ModifierType]bool{
	ModifierPercentage: true, ModifierAbsolute: true,
	ModifierMultiplier: true, ModifierSet: true,
}

// Modifier adjusts a score relative to its current value.
type Modifier struct {
	Type  ModifierType `json:"type"`
	Value float64      `json:"value"`
}

// Action is a rule's parsed action block.
type Action struct {
	Type     ActionType `json:"type"`
	Category string     `json:"category,omitempty"`
	Modifier *Modifier  `json:"modifier,omitempty"`
	Message  string     `json:"message,omitempty"`
}

// ParseAction parses a JSON action block. Unknown action or modifier types
// fail here, at load time.
func ParseAction(raw json.RawMessage) (*Action, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("action is empty")
	}

	var action Action
	if err := json.Unmarshal(raw, &action); err != nil {
		return nil, fmt.Errorf("failed to parse action JSON: %w", err)
	}
	if !actionTypes[action.Type] {
		return nil, fmt.Errorf("unknown action type %q", action.Type)
	}
	if action.Modifier != nil && !modifierTypes[action.Modifier.Type] {
		return nil, fmt.Errorf("unknown modifier type %q", action.Modifier.Type)
	}
	return &action, nil
}

// Apply computes the new score after a modifier. ABSOLUTE, MULTIPLIER and SET
// clamp their result to [0,100]; PERCENTAGE is left to the caller's clamp so
// the same modifier semantics apply to scores and to advisory weight deltas.
func (m Modifier) Apply(score float64) float64 {
	switch m.Type {
	case ModifierPercentage:
		return score * (1 + m.Value/100)
	case ModifierAbsolute:
		return scoring.Clamp(score + m.Value)
	case ModifierMultiplier:
		return scoring.Clamp(score * m.Value)
	case ModifierSet:
		return scoring.Clamp(m.Value)
	default:
		return score
	}
}

// Outcome reports the effect of executing one matched rule's action.
type Outcome struct {
	Disqualified bool
	Reason       string
	Category     string
	OldScore     float64
	NewScore     float64
	// Impact is NewScore - OldScore, the number reported to the audit trail.
	Impact float64
	// WeightDeltas is the advisory payload of an ADJUST_WEIGHTS action. It is
	// surfaced in the audit trail; no automatic re-scoring loop consumes it.
	WeightDeltas map[string]float64
}

// scoreState is the mutable score vector a rule evaluation runs over.
type scoreState struct {
	categories scoring.CategoryScores
	overall    float64
	weights    scoring.Weights
}

// execute applies an action to the running score state and reports its
// numeric impact. DISQUALIFY makes no numeric change; ADJUST_WEIGHTS never
// mutates scores or weights directly.
func execute(action *Action, st *scoreState) Outcome {
	switch action.Type {
	case ActionDisqualify:
		reason := action.Message
		if reason == "" {
			reason = "disqualified by rule"
		}
		return Outcome{Disqualified: true, Reason: reason}

	case ActionBoostCategory:
		if action.Modifier == nil || action.Category == "" {
			return Outcome{Category: action.Category}
		}
		old := st.categories.For(action.Category)
		next := scoring.Clamp(action.Modifier.Apply(old))
		st.categories.Set(action.Category, next)
		// A category change moves the overall by its weighted share, keeping
		// cumulative application order-sensitive and deterministic.
		st.overall = scoring.Clamp(scoring.Round2(st.overall + (next-old)*st.weights.For(action.Category)))
		return Outcome{Category: action.Category, OldScore: old, NewScore: next, Impact: next - old}

	case ActionModifyOverall:
		if action.Modifier == nil {
			return Outcome{}
		}
		old := st.overall
		next := scoring.Clamp(action.Modifier.Apply(old))
		st.overall = next
		return Outcome{OldScore: old, NewScore: next, Impact: next - old}

	case ActionAdjustWeights:
		if action.Modifier == nil || action.Category == "" {
			return Outcome{Category: action.Category}
		}
		current := st.weights.For(action.Category)
		proposed := action.Modifier.Apply(current)
		return Outcome{
			Category:     action.Category,
			WeightDeltas: map[string]float64{action.Category: proposed - current},
		}

	default:
		return Outcome{}
	}
}
