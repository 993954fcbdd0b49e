package rules

import (
	"encoding/json"
	"fmt"
	"strings"
)

// View is the read-only candidate+job data a condition tree evaluates
// against. Both sides are plain JSON maps so that dot paths resolve the same
// way regardless of which typed snapshot produced them.
type View struct {
	Candidate map[string]any
	Job       map[string]any
}

// NewView builds a view from candidate and job snapshots via a JSON
// round-trip of each.
func NewView(candidate, job any) (View, error) {
	candMap, err := toMap(candidate)
	if err != nil {
		return View{}, fmt.Errorf("failed to build candidate view: %w", err)
	}
	jobMap, err := toMap(job)
	if err != nil {
		return View{}, fmt.Errorf("failed to build job view: %w", err)
	}
	return View{Candidate: candMap, Job: jobMap}, nil
}

func toMap(v any) (map[string]any, error) {
	if v == nil {
		return map[string]any{}, nil
	}
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Resolve looks up a dot path. An explicit "candidate." or "job." prefix pins
// the side; otherwise the candidate side is tried first and the job side is
// the fallback when the path does not resolve on the candidate.
func (v View) Resolve(path string) (any, bool) {
	parts := strings.Split(path, ".")
	if len(parts) == 0 {
		return nil, false
	}

	switch parts[0] {
	case "candidate":
		if val, ok := resolvePath(v.Candidate, parts[1:]); ok {
			return val, true
		}
		return resolvePath(v.Job, parts[1:])
	case "job":
		return resolvePath(v.Job, parts[1:])
	}

	if val, ok := resolvePath(v.Candidate, parts); ok {
		return val, true
	}
	return resolvePath(v.Job, parts)
}

func resolvePath(root map[string]any, parts []string) (any, bool) {
	if len(parts) == 0 {
		return nil, false
	}
	var current any = root
	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
