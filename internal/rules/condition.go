package rules

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// LogicalOp combines child conditions.
type LogicalOp string

// Logical operators
const (
	OpAnd LogicalOp = "AND"
	OpOr  LogicalOp = "OR"
	OpNot LogicalOp = "NOT"
)

// CompareOp compares a resolved field value against a literal.
type CompareOp string

// Comparison operators
const (
	OpGT         CompareOp = ">"
	OpLT         CompareOp = "<"
	OpGTE        CompareOp = ">="
	OpLTE        CompareOp = "<="
	OpEQ         CompareOp = "=="
	OpNE         CompareOp = "!="
	OpContains   CompareOp = "CONTAINS"
	OpMatches    CompareOp = "MATCHES"
	OpIn         CompareOp = "IN"
	OpHas        CompareOp = "HAS"
	OpStartsWith CompareOp = "STARTS_WITH"
	OpEndsWith   CompareOp = "ENDS_WITH"
)

var compareOps = map[CompareOp]bool{
	OpGT: true, OpLT: true, OpGTE: true, OpLTE: true, OpEQ: true, OpNE: true,
	OpContains: true, OpMatches: true, OpIn: true, OpHas: true,
	OpStartsWith: true, OpEndsWith: true,
}

// Condition is one node of a parsed boolean condition tree.
type Condition interface {
	// Evaluate reports whether the condition holds for the given view.
	// Evaluation never mutates the tree and never fails: anything that
	// cannot be resolved or compared evaluates to false.
	Evaluate(view View) bool
}

// LogicalNode combines child conditions with AND, OR or NOT.
type LogicalNode struct {
	Op       LogicalOp
	Children []Condition
}

// LeafNode compares a dot-path field from the candidate/job view against a
// literal value.
type LeafNode struct {
	Field string
	Op    CompareOp
	Value any
}

// conditionJSON is the wire shape of a condition node; a node is either
// logical (operator + conditions) or a leaf (field + operator + value).
type conditionJSON struct {
	Operator   string            `json:"operator"`
	Conditions []json.RawMessage `json:"conditions"`
	Field      string            `json:"field"`
	Value      any               `json:"value"`
}

// ParseCondition parses a JSON condition tree into its typed form. Unknown
// operators and malformed shapes fail here, at load time, so evaluation never
// has to guess.
func ParseCondition(raw json.RawMessage) (Condition, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("condition is empty")
	}

	var node conditionJSON
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("failed to parse condition JSON: %w", err)
	}

	if node.Field != "" {
		op := CompareOp(node.Operator)
		if !compareOps[op] {
			return nil, fmt.Errorf("unknown comparison operator %q for field %q", node.Operator, node.Field)
		}
		return &LeafNode{Field: node.Field, Op: op, Value: node.Value}, nil
	}

	op := LogicalOp(strings.ToUpper(node.Operator))
	switch op {
	case OpAnd, OpOr:
		if len(node.Conditions) == 0 {
			return nil, fmt.Errorf("%s condition has no children", op)
		}
	case OpNot:
		if len(node.Conditions) != 1 {
			return nil, fmt.Errorf("NOT condition requires exactly one child, got %d", len(node.Conditions))
		}
	default:
		return nil, fmt.Errorf("unknown logical operator %q", node.Operator)
	}

	children := make([]Condition, 0, len(node.Conditions))
	for _, rawChild := range node.Conditions {
		child, err := ParseCondition(rawChild)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return &LogicalNode{Op: op, Children: children}, nil
}

// Evaluate implements Condition.
func (n *LogicalNode) Evaluate(view View) bool {
	switch n.Op {
	case OpAnd:
		for _, child := range n.Children {
			if !child.Evaluate(view) {
				return false
			}
		}
		return true
	case OpOr:
		for _, child := range n.Children {
			if child.Evaluate(view) {
				return true
			}
		}
		return false
	case OpNot:
		return !n.Children[0].Evaluate(view)
	default:
		return false
	}
}

// Evaluate implements Condition. A missing or null field value always
// evaluates to false, regardless of operator.
func (n *LeafNode) Evaluate(view View) bool {
	actual, ok := view.Resolve(n.Field)
	if !ok || actual == nil {
		return false
	}

	switch n.Op {
	case OpGT, OpLT, OpGTE, OpLTE:
		return compareOrdered(n.Op, actual, n.Value)
	case OpEQ:
		return looseEqual(actual, n.Value)
	case OpNE:
		return !looseEqual(actual, n.Value)
	case OpContains:
		a, b, ok := foldStrings(actual, n.Value)
		return ok && strings.Contains(a, b)
	case OpMatches:
		return matchesPattern(actual, n.Value)
	case OpIn:
		return evalIn(actual, n.Value)
	case OpHas:
		return evalHas(actual, n.Value)
	case OpStartsWith:
		a, b, ok := foldStrings(actual, n.Value)
		return ok && strings.HasPrefix(a, b)
	case OpEndsWith:
		a, b, ok := foldStrings(actual, n.Value)
		return ok && strings.HasSuffix(a, b)
	default:
		return false
	}
}

func compareOrdered(op CompareOp, actual, expected any) bool {
	a, aok := toNumber(actual)
	b, bok := toNumber(expected)
	if !aok || !bok {
		return false
	}
	switch op {
	case OpGT:
		return a > b
	case OpLT:
		return a < b
	case OpGTE:
		return a >= b
	case OpLTE:
		return a <= b
	default:
		return false
	}
}

// looseEqual compares numerically when both sides coerce to numbers, and by
// string representation otherwise. String comparison is case-sensitive.
func looseEqual(actual, expected any) bool {
	if a, aok := toNumber(actual); aok {
		if b, bok := toNumber(expected); bok {
			return a == b
		}
	}
	as, aok := toPrimitiveString(actual)
	bs, bok := toPrimitiveString(expected)
	if !aok || !bok {
		return false
	}
	return as == bs
}

// matchesPattern builds a case-insensitive regexp from the expected value.
// Malformed patterns evaluate to false, never panic.
func matchesPattern(actual, pattern any) bool {
	ps, ok := toPrimitiveString(pattern)
	if !ok {
		return false
	}
	re, err := regexp.Compile("(?i)" + ps)
	if err != nil {
		return false
	}
	as, ok := toPrimitiveString(actual)
	if !ok {
		return false
	}
	return re.MatchString(as)
}

// evalIn reports whether the actual value is a member of the expected array.
func evalIn(actual, expected any) bool {
	items, ok := expected.([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		if looseEqual(actual, item) {
			return true
		}
	}
	return false
}

// evalHas reports whether a candidate-side array contains an element whose
// name or id equals the expected value, or a primitive element equal to it.
// A non-array actual degrades to a plain equality check.
func evalHas(actual, expected any) bool {
	items, ok := actual.([]any)
	if !ok {
		return looseEqual(actual, expected)
	}
	for _, item := range items {
		if obj, isObj := item.(map[string]any); isObj {
			if looseEqual(obj["name"], expected) || looseEqual(obj["id"], expected) {
				return true
			}
			continue
		}
		if looseEqual(item, expected) {
			return true
		}
	}
	return false
}

// toNumber coerces JSON primitives to a float64.
func toNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// toPrimitiveString renders a JSON primitive as a string; objects and arrays
// are not comparable this way.
func toPrimitiveString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}

// foldStrings lowercases both sides for the case-insensitive string
// operators. A non-primitive on either side fails the comparison, so an
// object or array valued condition never matches instead of matching
// everything through an empty-string fold.
func foldStrings(actual, expected any) (string, string, bool) {
	as, aok := toPrimitiveString(actual)
	bs, bok := toPrimitiveString(expected)
	if !aok || !bok {
		return "", "", false
	}
	return strings.ToLower(as), strings.ToLower(bs), true
}
