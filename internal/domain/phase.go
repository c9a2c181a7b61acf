package domain

import (
	"fmt"
	"strings"
)

// Phase represents the coarse lifecycle bucket of a task.
// This is a value object that enforces valid phase values.
type Phase string

// Valid phases, modelling project progression along the dependency order
const (
	PhasePlanning  Phase = "planning"
	PhaseExecution Phase = "execution"
	PhaseReview    Phase = "review"
)

// NewPhase creates a new Phase value object with validation
func NewPhase(value string) (Phase, error) {
	p := Phase(value)
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// ParsePhaseHint normalizes a free-form phase hint from the decomposer.
// Unrecognized values return ok=false rather than an error: upstream text
// generation is unreliable, and the classifier fills in unset phases.
func ParsePhaseHint(value string) (Phase, bool) {
	p := Phase(strings.ToLower(strings.TrimSpace(value)))
	if p.Validate() != nil {
		return "", false
	}
	return p, true
}

// Validate checks if the phase is valid
func (p Phase) Validate() error {
	switch p {
	case PhasePlanning, PhaseExecution, PhaseReview:
		return nil
	default:
		return fmt.Errorf("invalid phase %q: must be planning, execution, or review", string(p))
	}
}

// String returns the string representation
func (p Phase) String() string {
	return string(p)
}
