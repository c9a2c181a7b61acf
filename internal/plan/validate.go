package plan

import (
	"sort"
	"strings"

	"github.com/felixgeelhaar/taskplan/internal/domain"
	"github.com/felixgeelhaar/taskplan/internal/errors"
)

// Validate normalizes and validates raw decomposer output.
//
// It rejects empty input, invalid ids, non-positive durations, duplicate ids,
// dangling dependency references, and self-dependencies. Unrecognized
// phase/priority hints are treated as unset rather than an error, since the
// upstream text generator is unreliable; the classifier fills them in.
//
// Input order carries no meaning. Tasks are processed and returned in
// id-sorted order so that validation failures and downstream output are
// deterministic for a given input set.
func Validate(raw []RawTask) ([]Task, error) {
	if len(raw) == 0 {
		return nil, errors.NewEmptyPlanError()
	}

	ordered := make([]RawTask, len(raw))
	copy(ordered, raw)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ID < ordered[j].ID
	})

	seen := make(map[string]bool, len(ordered))
	for _, rt := range ordered {
		if _, err := domain.NewTaskID(rt.ID); err != nil {
			return nil, errors.NewInvalidTaskIDError(rt.ID, err)
		}
		if seen[rt.ID] {
			return nil, errors.NewDuplicateTaskIDError(rt.ID)
		}
		seen[rt.ID] = true

		if rt.Duration <= 0 {
			return nil, errors.NewInvalidDurationError(rt.ID, rt.Duration)
		}
	}

	tasks := make([]Task, 0, len(ordered))
	for _, rt := range ordered {
		deps, err := normalizeDependencies(rt, seen)
		if err != nil {
			return nil, err
		}

		task := Task{
			ID:            domain.TaskID(rt.ID),
			Title:         strings.TrimSpace(rt.Title),
			Description:   normalizeDescription(rt),
			Duration:      rt.Duration,
			DependencyIDs: deps,
		}

		if phase, ok := domain.ParsePhaseHint(rt.PhaseHint); ok {
			task.Phase = phase
			task.hintedPhase = true
		}
		if priority, ok := domain.ParsePriorityHint(rt.PriorityHint); ok {
			task.Priority = priority
			task.hintedPriority = true
		}

		tasks = append(tasks, task)
	}

	return tasks, nil
}

// normalizeDependencies validates, deduplicates, and sorts a task's
// dependency references.
func normalizeDependencies(rt RawTask, known map[string]bool) ([]domain.TaskID, error) {
	if len(rt.DependencyIDs) == 0 {
		return nil, nil
	}

	uniq := make(map[string]bool, len(rt.DependencyIDs))
	deps := make([]domain.TaskID, 0, len(rt.DependencyIDs))
	for _, dep := range rt.DependencyIDs {
		if dep == rt.ID {
			return nil, errors.NewSelfDependencyError(rt.ID)
		}
		if !known[dep] {
			return nil, errors.NewDanglingDependencyError(dep, rt.ID)
		}
		if uniq[dep] {
			continue
		}
		uniq[dep] = true
		deps = append(deps, domain.TaskID(dep))
	}

	sort.Slice(deps, func(i, j int) bool { return deps[i] < deps[j] })
	return deps, nil
}

// normalizeDescription falls back to the title when the decomposer omitted
// the description body, and to the task id when both are blank, so every
// task carries non-empty description text.
func normalizeDescription(rt RawTask) string {
	if desc := strings.TrimSpace(rt.Description); desc != "" {
		return desc
	}
	if title := strings.TrimSpace(rt.Title); title != "" {
		return title
	}
	return rt.ID
}
