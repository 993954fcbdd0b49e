package rules

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jharmon/matchengine/internal/scoring"
)

// Source fetches stored rule definitions applicable to a job: global rules,
// template rules when the job references a scoring template, and job-specific
// rules. Only active rules are returned.
type Source interface {
	ActiveRules(ctx context.Context, jobID uuid.UUID, templateID *uuid.UUID) ([]Definition, error)
}

// groupOrder is the fixed type ordering of the GROUPED strategy.
var groupOrder = map[RuleType]int{
	RuleTypeDisqualify:      0,
	RuleTypePreFilter:       1,
	RuleTypeCategoryBoost:   2,
	RuleTypeOverallModifier: 3,
	RuleTypeWeightAdjuster:  4,
}

// AuditEntry records one rule that matched during an evaluation.
type AuditEntry struct {
	RuleID       uuid.UUID          `json:"rule_id"`
	RuleName     string             `json:"rule_name,omitempty"`
	RuleType     RuleType           `json:"rule_type"`
	Scope        Scope              `json:"scope"`
	Action       ActionType         `json:"action"`
	Category     string             `json:"category,omitempty"`
	ScoreImpact  float64            `json:"score_impact"`
	WeightDeltas map[string]float64 `json:"weight_deltas,omitempty"`
	Message      string             `json:"message,omitempty"`
}

// Evaluation is the result of running the rule pipeline for one candidate.
type Evaluation struct {
	TotalRulesEvaluated    int                    `json:"total_rules_evaluated"`
	RulesMatched           int                    `json:"rules_matched"`
	PreFilterPassed        bool                   `json:"pre_filter_passed"`
	Disqualified           bool                   `json:"disqualified"`
	DisqualificationReason string                 `json:"disqualification_reason,omitempty"`
	OriginalScore          float64                `json:"original_score"`
	FinalScore             float64                `json:"final_score"`
	CategoryScores         scoring.CategoryScores `json:"category_scores"`
	WeightAdjustments      map[string]float64     `json:"weight_adjustments,omitempty"`
	AuditTrail             []AuditEntry           `json:"audit_trail"`
}

// Engine runs the scoring rule pipeline for one candidate/job pair at a time.
// For a fixed rule set, strategy and snapshot the output is fully
// deterministic.
type Engine struct {
	strategy Strategy
	log      *zap.Logger
}

// NewEngine creates an engine with the given execution strategy. An empty
// strategy defaults to PRIORITY; a nil logger is replaced with a no-op one.
func NewEngine(strategy Strategy, log *zap.Logger) *Engine {
	if strategy == "" {
		strategy = StrategyPriority
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{strategy: strategy, log: log}
}

// Load fetches and compiles the rules applicable to a job. Definitions whose
// condition or action JSON fails to parse are kept but inert, logged at warn.
func (e *Engine) Load(ctx context.Context, src Source, jobID uuid.UUID, templateID *uuid.UUID) ([]Rule, error) {
	defs, err := src.ActiveRules(ctx, jobID, templateID)
	if err != nil {
		return nil, err
	}

	compiled := make([]Rule, 0, len(defs))
	for _, def := range defs {
		rule, err := Compile(def)
		if err != nil {
			e.log.Warn("scoring rule failed to parse, treating as never-matching",
				zap.String("rule_id", def.ID.String()),
				zap.String("rule_name", def.Name),
				zap.Error(err))
		}
		compiled = append(compiled, rule)
	}
	return compiled, nil
}

// Evaluate runs the two-phase pipeline: first pre-filter/disqualify rules,
// then (unless disqualified) category and overall modifiers applied
// cumulatively onto the running score vector. With zero applicable rules the
// engine is a pass-through returning the input scores unchanged.
func (e *Engine) Evaluate(ruleSet []Rule, view View, categories scoring.CategoryScores, weights scoring.Weights) Evaluation {
	st := &scoreState{
		categories: categories,
		overall:    scoring.OverallScore(categories, weights),
		weights:    weights,
	}

	result := Evaluation{
		PreFilterPassed: true,
		OriginalScore:   st.overall,
		AuditTrail:      []AuditEntry{},
	}

	sorted := sortRules(activeRules(ruleSet), e.strategy)

	// Pre-filter phase: PRE_FILTER and DISQUALIFY rules. A disqualifying
	// match ends all rule processing for this candidate; a non-disqualifying
	// stop-on-match only ends this phase.
	preFilterStopped := false
	for _, rule := range sorted {
		if rule.Type != RuleTypePreFilter && rule.Type != RuleTypeDisqualify {
			continue
		}
		if preFilterStopped {
			continue
		}
		result.TotalRulesEvaluated++
		if !rule.Matchable() || !rule.Condition.Evaluate(view) {
			continue
		}
		result.RulesMatched++
		outcome := execute(rule.Action, st)
		result.AuditTrail = append(result.AuditTrail, auditEntry(rule, outcome))

		if outcome.Disqualified {
			result.Disqualified = true
			result.DisqualificationReason = outcome.Reason
			result.PreFilterPassed = false
			result.FinalScore = result.OriginalScore
			result.CategoryScores = categories
			return result
		}
		if rule.StopOnMatch {
			preFilterStopped = true
		}
	}

	// Boost phase: remaining rule types, cumulative.
	for _, rule := range sorted {
		if rule.Type == RuleTypePreFilter || rule.Type == RuleTypeDisqualify {
			continue
		}
		result.TotalRulesEvaluated++
		if !rule.Matchable() || !rule.Condition.Evaluate(view) {
			continue
		}
		result.RulesMatched++
		outcome := execute(rule.Action, st)
		result.AuditTrail = append(result.AuditTrail, auditEntry(rule, outcome))

		if len(outcome.WeightDeltas) > 0 {
			if result.WeightAdjustments == nil {
				result.WeightAdjustments = make(map[string]float64)
			}
			for category, delta := range outcome.WeightDeltas {
				result.WeightAdjustments[category] += delta
			}
		}
		if rule.StopOnMatch {
			break
		}
	}

	result.FinalScore = st.overall
	result.CategoryScores = st.categories
	return result
}

func auditEntry(rule Rule, outcome Outcome) AuditEntry {
	entry := AuditEntry{
		RuleID:       rule.ID,
		RuleName:     rule.Name,
		RuleType:     rule.Type,
		Scope:        rule.Scope,
		Action:       rule.Action.Type,
		Category:     outcome.Category,
		ScoreImpact:  scoring.Round2(outcome.Impact),
		WeightDeltas: outcome.WeightDeltas,
		Message:      rule.Action.Message,
	}
	if outcome.Disqualified {
		entry.Message = outcome.Reason
	}
	return entry
}

func activeRules(ruleSet []Rule) []Rule {
	active := make([]Rule, 0, len(ruleSet))
	for _, rule := range ruleSet {
		if rule.Active {
			active = append(active, rule)
		}
	}
	return active
}

// sortRules orders rules per the execution strategy. Sorting is stable so
// that equal keys preserve load order, keeping evaluation deterministic.
func sortRules(ruleSet []Rule, strategy Strategy) []Rule {
	sorted := make([]Rule, len(ruleSet))
	copy(sorted, ruleSet)

	switch strategy {
	case StrategySequential:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].ExecutionOrder < sorted[j].ExecutionOrder
		})
	case StrategyGrouped:
		sort.SliceStable(sorted, func(i, j int) bool {
			gi, gj := groupOrder[sorted[i].Type], groupOrder[sorted[j].Type]
			if gi != gj {
				return gi < gj
			}
			return sorted[i].Priority > sorted[j].Priority
		})
	default: // StrategyPriority
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Priority > sorted[j].Priority
		})
	}
	return sorted
}
