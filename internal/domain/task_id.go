package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// TaskID represents a unique identifier for a task within a plan.
// This is a value object that enforces valid ID formats.
type TaskID string

// maxTaskIDLength is the maximum allowed length for a task ID
const maxTaskIDLength = 100

// NewTaskID creates a new TaskID value object with validation
func NewTaskID(value string) (TaskID, error) {
	id := TaskID(value)
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// Validate checks if the task ID is valid.
// Decomposer output may use numeric ids ("1") or slugs ("task-setup-db"),
// so the format is permissive: non-empty, bounded length, printable, no spaces.
func (t TaskID) Validate() error {
	s := string(t)

	if s == "" {
		return fmt.Errorf("task ID cannot be empty")
	}

	if len(s) > maxTaskIDLength {
		return fmt.Errorf("task ID %q exceeds maximum length of %d characters", s, maxTaskIDLength)
	}

	if strings.TrimSpace(s) != s {
		return fmt.Errorf("task ID %q cannot have leading or trailing whitespace", s)
	}

	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("task ID %q cannot contain whitespace or control characters", s)
		}
	}

	return nil
}

// String returns the string representation
func (t TaskID) String() string {
	return string(t)
}

// Less reports whether this ID sorts before another lexicographically.
// Used wherever a deterministic ordering over task IDs is required.
func (t TaskID) Less(other TaskID) bool {
	return t < other
}
