// Package plan implements the task dependency graph engine.
//
// The engine turns a raw list of task records, as emitted by an external
// goal-decomposition provider, into a validated dependency graph, classifies
// each task into a phase and priority, derives the critical path, and
// assembles an immutable Plan value.
//
// The pipeline is: Validate -> BuildGraph -> Classify -> CriticalPath ->
// Assemble. Each stage consumes the previous stage's output only; the first
// validation failure short-circuits and no partial Plan is ever produced.
// Every stage is a pure function over its input, so independent callers may
// compute plans concurrently without coordination.
package plan

import (
	"time"

	"github.com/felixgeelhaar/taskplan/internal/domain"
)

// RawTask is a single task record from the goal decomposer.
// Raw input is untrusted: ids may collide, durations may be missing or
// negative, dependencies may dangle, and hint fields may carry arbitrary
// prose. Validate turns RawTasks into Tasks or rejects the whole batch.
type RawTask struct {
	ID            string   `json:"id" yaml:"id"`
	Title         string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description   string   `json:"description" yaml:"description"`
	Duration      float64  `json:"duration" yaml:"duration"`
	DependencyIDs []string `json:"dependencies" yaml:"dependencies"`
	PhaseHint     string   `json:"phase_hint,omitempty" yaml:"phase_hint,omitempty"`
	PriorityHint  string   `json:"priority_hint,omitempty" yaml:"priority_hint,omitempty"`
}

// Task is a validated, classified task. Immutable once validated: later
// stages operate on copies and never mutate their input.
type Task struct {
	// ID uniquely identifies this task within the plan.
	ID domain.TaskID `json:"id"`

	// Title is an optional short human-readable name.
	Title string `json:"title,omitempty"`

	// Description is the task body text.
	Description string `json:"description"`

	// Duration is the positive scalar weight used for critical path
	// computation. Time units are abstract.
	Duration float64 `json:"duration"`

	// DependencyIDs lists tasks that must complete before this one.
	// Sorted and deduplicated; never contains the task's own id.
	DependencyIDs []domain.TaskID `json:"dependencies"`

	// Phase is the lifecycle bucket (planning, execution, review).
	Phase domain.Phase `json:"phase"`

	// Priority is the importance bucket (high, medium, low).
	Priority domain.Priority `json:"priority"`

	// OnCriticalPath is set only by the critical path calculator.
	OnCriticalPath bool `json:"on_critical_path"`

	// hinted* record whether phase/priority came from a valid explicit
	// hint. The classifier only fills unhinted fields.
	hintedPhase    bool
	hintedPriority bool
}

// HasDependencies returns true if this task depends on other tasks.
func (t *Task) HasDependencies() bool {
	return len(t.DependencyIDs) > 0
}

// Plan is the immutable output of the engine. A Plan is constructed once per
// Assemble invocation; re-planning produces a new Plan.
type Plan struct {
	// Goal is the original goal description that spawned this plan.
	Goal string `json:"goal"`

	// Deadline is the optional user-supplied deadline, opaque to the engine.
	Deadline string `json:"deadline,omitempty"`

	// Tasks holds all tasks in stable id-sorted order.
	Tasks []Task `json:"tasks"`

	// CriticalPath is the ordered task id sequence from a source task to a
	// sink task with the maximum total duration.
	CriticalPath []domain.TaskID `json:"critical_path"`

	// TotalDuration is the duration sum along the critical path. It bounds
	// the minimum project completion time.
	TotalDuration float64 `json:"total_duration"`

	// CreatedAt is when this plan was assembled.
	CreatedAt time.Time `json:"created_at"`

	// Fingerprint is the blake3 hash of the canonical plan content,
	// excluding CreatedAt. Identical input yields identical fingerprints.
	Fingerprint string `json:"fingerprint"`
}

// TaskCount returns the total number of tasks in the plan.
func (p *Plan) TaskCount() int {
	return len(p.Tasks)
}

// GetTask returns the task with the given ID, or nil if not found.
func (p *Plan) GetTask(id domain.TaskID) *Task {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i]
		}
	}
	return nil
}

// HighPriorityCount returns the number of high priority tasks.
func (p *Plan) HighPriorityCount() int {
	n := 0
	for i := range p.Tasks {
		if p.Tasks[i].Priority == domain.PriorityHigh {
			n++
		}
	}
	return n
}

// IsOnCriticalPath reports whether the given task id is on the critical path.
func (p *Plan) IsOnCriticalPath(id domain.TaskID) bool {
	for _, cp := range p.CriticalPath {
		if cp == id {
			return true
		}
	}
	return false
}
