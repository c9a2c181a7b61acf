package plan

import (
	"time"
)

// Build runs the full planning pipeline over raw decomposer output:
// validate, build the dependency graph, classify phases and priorities,
// compute the critical path, and assemble the final plan.
//
// The result is deterministic: two calls with the same goal, deadline, and
// task set (in any input order) produce plans with identical fingerprints.
func Build(goal, deadline string, raw []RawTask) (*Plan, error) {
	tasks, err := Validate(raw)
	if err != nil {
		return nil, err
	}

	g, err := NewGraph(tasks)
	if err != nil {
		return nil, err
	}

	Classify(tasks, g)
	path, total := CriticalPath(tasks, g)

	p := &Plan{
		Goal:          goal,
		Deadline:      deadline,
		Tasks:         tasks,
		CriticalPath:  path,
		TotalDuration: total,
		CreatedAt:     time.Now().UTC(),
	}

	fp, err := Fingerprint(p)
	if err != nil {
		return nil, err
	}
	p.Fingerprint = fp

	return p, nil
}
