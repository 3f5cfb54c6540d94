package exitcode

import (
	"os"
	"strings"

	"github.com/felixgeelhaar/countdown/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage, including a malformed duration
	UsageError = 2

	// ConfigError indicates the configuration file could not be loaded or applied
	ConfigError = 3

	// HookError indicates a notification hook failed with failure mode "fail"
	HookError = 4

	// StoreError indicates the history database could not be used
	StoreError = 5

	// Interrupted indicates the user cancelled with Ctrl+C (128 + SIGINT)
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

	if te, ok := errors.As(err); ok {
		switch {
		case te.HasCategory(errors.CategoryDuration):
			return UsageError
		case te.HasCategory(errors.CategoryConfig), te.HasCategory(errors.CategoryIO):
			return ConfigError
		case te.HasCategory(errors.CategoryHook):
			return HookError
		case te.HasCategory(errors.CategoryStore):
			return StoreError
		}
	}

	errMsg := strings.ToLower(err.Error())

	// Usage errors reported by cobra
	if strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "unknown flag") || strings.Contains(errMsg, "unknown shorthand flag") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "missing argument") {
		return UsageError
	}
	if strings.Contains(errMsg, "accepts") && strings.Contains(errMsg, "arg(s)") {
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
		return "Usage error (invalid flags, arguments or duration)"
	case ConfigError:
		return "Configuration error"
	case HookError:
		return "Notification hook failed"
	case StoreError:
		return "History store error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
