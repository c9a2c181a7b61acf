package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Validation errors (PLAN-001 to PLAN-099).
	// All are recoverable input failures: the caller can re-request
	// decomposition or surface the precise invariant to the user.
	ErrCodeEmptyPlan          ErrorCode = "PLAN-001"
	ErrCodeInvalidDuration    ErrorCode = "PLAN-002"
	ErrCodeDuplicateTaskID    ErrorCode = "PLAN-003"
	ErrCodeDanglingDependency ErrorCode = "PLAN-004"
	ErrCodeSelfDependency     ErrorCode = "PLAN-005"
	ErrCodeCyclicDependency   ErrorCode = "PLAN-006"
	ErrCodeInvalidTaskID      ErrorCode = "PLAN-007"

	// Provider errors (PROVIDER-001 to PROVIDER-099)
	ErrCodeProviderNotFound  ErrorCode = "PROVIDER-001"
	ErrCodeProviderConfig    ErrorCode = "PROVIDER-002"
	ErrCodeProviderAuth      ErrorCode = "PROVIDER-003"
	ErrCodeProviderAPI       ErrorCode = "PROVIDER-004"
	ErrCodeProviderRateLimit ErrorCode = "PROVIDER-005"
	ErrCodeProviderTimeout   ErrorCode = "PROVIDER-006"
	ErrCodeProviderParse     ErrorCode = "PROVIDER-007"

	// Store errors (STORE-001 to STORE-099)
	ErrCodePlanNotFound   ErrorCode = "STORE-001"
	ErrCodeStoreCorrupt   ErrorCode = "STORE-002"
	ErrCodeStoreIO        ErrorCode = "STORE-003"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeFileUnmarshal   ErrorCode = "IO-004"
	ErrCodeFileMarshal     ErrorCode = "IO-005"

	// Config errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"
)

// PlanError represents an enhanced error with code, offending task ids,
// suggestions, and documentation
type PlanError struct {
	Code        ErrorCode
	Message     string
	TaskIDs     []string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *PlanError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *PlanError) Unwrap() error {
	return e.Cause
}

// IsValidation reports whether this error is one of the input-validation
// failures (PLAN-0xx). Validation failures are recoverable by the caller
// and never fatal.
func (e *PlanError) IsValidation() bool {
	return strings.HasPrefix(string(e.Code), "PLAN-")
}

// AsPlanError unwraps err into a *PlanError if it is or wraps one.
func AsPlanError(err error) (*PlanError, bool) {
	var perr *PlanError
	if stderrors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}

// New creates a new PlanError
func New(code ErrorCode, message string) *PlanError {
	return &PlanError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new PlanError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *PlanError {
	return &PlanError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithTaskIDs records the task ids this error relates to
func (e *PlanError) WithTaskIDs(ids ...string) *PlanError {
	e.TaskIDs = append(e.TaskIDs, ids...)
	return e
}

// WithSuggestion adds a suggestion to the error
func (e *PlanError) WithSuggestion(suggestion string) *PlanError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *PlanError) WithSuggestions(suggestions ...string) *PlanError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *PlanError) WithDocs(url string) *PlanError {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewEmptyPlanError creates an error for decomposer output with no tasks
func NewEmptyPlanError() *PlanError {
	return New(ErrCodeEmptyPlan, "plan has no tasks").
		WithSuggestion("Re-run decomposition; the goal may be too vague for the decomposer").
		WithSuggestion("Provide a more specific goal description")
}

// NewInvalidDurationError creates an error for a non-positive task duration
func NewInvalidDurationError(taskID string, duration float64) *PlanError {
	return New(ErrCodeInvalidDuration, fmt.Sprintf("task %q has invalid duration %g: duration must be positive", taskID, duration)).
		WithTaskIDs(taskID).
		WithSuggestion("Give every task a positive duration estimate")
}

// NewDuplicateTaskIDError creates an error for a task id appearing twice
func NewDuplicateTaskIDError(taskID string) *PlanError {
	return New(ErrCodeDuplicateTaskID, fmt.Sprintf("duplicate task ID %q", taskID)).
		WithTaskIDs(taskID).
		WithSuggestion("Task IDs must be unique within a plan")
}

// NewDanglingDependencyError creates an error for a dependency on an unknown task
func NewDanglingDependencyError(missingID, referencerID string) *PlanError {
	return New(ErrCodeDanglingDependency, fmt.Sprintf("task %q depends on unknown task %q", referencerID, missingID)).
		WithTaskIDs(missingID, referencerID).
		WithSuggestion(fmt.Sprintf("Remove %q from the dependencies of %q or add a task with that ID", missingID, referencerID))
}

// NewSelfDependencyError creates an error for a task depending on itself
func NewSelfDependencyError(taskID string) *PlanError {
	return New(ErrCodeSelfDependency, fmt.Sprintf("task %q depends on itself", taskID)).
		WithTaskIDs(taskID).
		WithSuggestion("Remove the self-dependency")
}

// NewCyclicDependencyError creates an error for a dependency cycle,
// carrying the cycle's task ids in traversal order
func NewCyclicDependencyError(cycle []string) *PlanError {
	return New(ErrCodeCyclicDependency, fmt.Sprintf("dependency cycle detected: %s", strings.Join(cycle, " -> "))).
		WithTaskIDs(cycle...).
		WithSuggestion("Remove one of the dependencies to break the cycle")
}

// NewInvalidTaskIDError creates an error for a structurally invalid task id
func NewInvalidTaskIDError(taskID string, cause error) *PlanError {
	return Wrap(ErrCodeInvalidTaskID, fmt.Sprintf("invalid task ID %q", taskID), cause).
		WithTaskIDs(taskID).
		WithSuggestion("Task IDs must be non-empty and contain no whitespace")
}

// NewPlanNotFoundError creates a store lookup miss error
func NewPlanNotFoundError(planID string) *PlanError {
	return New(ErrCodePlanNotFound, fmt.Sprintf("plan not found: %s", planID)).
		WithSuggestion("Run 'taskplan plan list' to see saved plans")
}

// NewProviderAuthError creates a provider authentication error
func NewProviderAuthError(provider string) *PlanError {
	return New(ErrCodeProviderAuth, fmt.Sprintf("authentication failed for provider: %s", provider)).
		WithSuggestion(fmt.Sprintf("Set the %s_API_KEY environment variable", strings.ToUpper(provider))).
		WithSuggestion("Check if your API key is valid and not expired")
}

// NewProviderParseError creates an error for unparseable decomposer output
func NewProviderParseError(provider string, cause error) *PlanError {
	return Wrap(ErrCodeProviderParse, fmt.Sprintf("provider %s returned output that is not a valid task breakdown", provider), cause).
		WithSuggestion("Retry the decomposition request").
		WithSuggestion("Try a different provider or model")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *PlanError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
