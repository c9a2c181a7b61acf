// Package store persists generated plans.
package store

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskplan/internal/plan"
)

// PlanID identifies a saved plan.
type PlanID string

// String returns the id as a string
func (id PlanID) String() string { return string(id) }

// Record is a saved plan together with its storage envelope.
type Record struct {
	ID        PlanID     `json:"id"`
	Goal      string     `json:"goal"`
	Deadline  string     `json:"deadline,omitempty"`
	Plan      *plan.Plan `json:"plan"`
	CreatedAt time.Time  `json:"created_at"`
}

// Summary is the listing view of a saved plan.
type Summary struct {
	ID            PlanID    `json:"id"`
	Goal          string    `json:"goal"`
	Deadline      string    `json:"deadline,omitempty"`
	TaskCount     int       `json:"task_count"`
	TotalDuration float64   `json:"total_duration"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store defines the interface for plan persistence.
// This interface enables dependency injection and makes testing easier.
type Store interface {
	// Save persists a plan and returns its assigned id
	Save(ctx context.Context, p *plan.Plan) (PlanID, error)

	// Load retrieves a plan by id
	Load(ctx context.Context, id PlanID) (*Record, error)

	// List returns summaries of all saved plans, newest first
	List(ctx context.Context) ([]Summary, error)

	// Delete removes a saved plan
	Delete(ctx context.Context, id PlanID) error
}
