// Package exitcode maps errors to process exit codes so scripts can
// distinguish failure classes without parsing stderr.
package exitcode

import (
	"os"
	"strings"

	"github.com/felixgeelhaar/taskplan/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ValidationError indicates the task set failed dependency validation
	ValidationError = 3

	// ProviderError indicates an LLM provider call or response parse failure
	ProviderError = 4

	// AuthError indicates an authentication failure against a provider
	AuthError = 5

	// NetworkError indicates a network connectivity issue
	NetworkError = 6

	// NotFound indicates a requested plan does not exist
	NotFound = 7

	// Interrupted indicates the process was cancelled by a signal
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if perr, ok := errors.AsPlanError(err); ok {
		switch {
		case perr.IsValidation():
			return ValidationError
		case perr.Code == errors.ErrCodeProviderAuth:
			return AuthError
		case perr.Code == errors.ErrCodeProviderTimeout:
			return NetworkError
		case perr.Code == errors.ErrCodePlanNotFound, perr.Code == errors.ErrCodeFileNotFound:
			return NotFound
		case strings.HasPrefix(string(perr.Code), "PROVIDER-"):
			return ProviderError
		default:
			return GeneralError
		}
	}

	errMsg := strings.ToLower(err.Error())

	// Authentication errors
	if strings.Contains(errMsg, "authentication") || strings.Contains(errMsg, "unauthorized") {
		return AuthError
	}
	if strings.Contains(errMsg, "api key") {
		return AuthError
	}

	// Network errors
	if strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "timeout") {
		return NetworkError
	}
	if strings.Contains(errMsg, "unreachable") {
		return NetworkError
	}

	// Usage errors
	if strings.Contains(errMsg, "unknown command") || strings.Contains(errMsg, "unknown flag") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "missing argument") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case ValidationError:
		return "Task validation failed"
	case ProviderError:
		return "Provider request failed"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	case NotFound:
		return "Plan not found"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
