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
	// Duration errors (DURATION-001 to DURATION-099)
	ErrCodeDurationUnknownChar   ErrorCode = "DURATION-001"
	ErrCodeDurationMissingNumber ErrorCode = "DURATION-002"
	ErrCodeDurationDuplicateUnit ErrorCode = "DURATION-003"
	ErrCodeDurationZero          ErrorCode = "DURATION-004"
	ErrCodeDurationOutOfRange    ErrorCode = "DURATION-005"
	ErrCodeDurationMissingUnit   ErrorCode = "DURATION-006"
	ErrCodeDurationNegative      ErrorCode = "DURATION-007"

	// Config errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigLoad    ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid ErrorCode = "CONFIG-002"
	ErrCodeConfigKey     ErrorCode = "CONFIG-003"

	// Hook errors (HOOK-001 to HOOK-099)
	ErrCodeHookFailed  ErrorCode = "HOOK-001"
	ErrCodeHookUnknown ErrorCode = "HOOK-002"

	// History store errors (STORE-001 to STORE-099)
	ErrCodeStoreOpen  ErrorCode = "STORE-001"
	ErrCodeStoreWrite ErrorCode = "STORE-002"
	ErrCodeStoreRead  ErrorCode = "STORE-003"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
)

// Category prefixes used by HasCategory
const (
	CategoryDuration = "DURATION"
	CategoryConfig   = "CONFIG"
	CategoryHook     = "HOOK"
	CategoryStore    = "STORE"
	CategoryIO       = "IO"
)

const docsURL = "https://github.com/felixgeelhaar/countdown#duration-format"

// TimerError represents an enhanced error with code, suggestions, and documentation
type TimerError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *TimerError) Error() string {
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
func (e *TimerError) Unwrap() error {
	return e.Cause
}

// HasCategory reports whether the error code belongs to the given category
func (e *TimerError) HasCategory(category string) bool {
	return strings.HasPrefix(string(e.Code), category+"-")
}

// New creates a new TimerError
func New(code ErrorCode, message string) *TimerError {
	return &TimerError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new TimerError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *TimerError {
	return &TimerError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *TimerError) WithSuggestion(suggestion string) *TimerError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *TimerError) WithSuggestions(suggestions ...string) *TimerError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *TimerError) WithDocs(url string) *TimerError {
	e.DocsURL = url
	return e
}

// As finds the first TimerError in err's chain
func As(err error) (*TimerError, bool) {
	var te *TimerError
	if stderrors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// IsDurationError reports whether err is a duration parse or validation failure
func IsDurationError(err error) bool {
	te, ok := As(err)
	return ok && te.HasCategory(CategoryDuration)
}

// HasCode reports whether err carries the given code
func HasCode(err error, code ErrorCode) bool {
	te, ok := As(err)
	return ok && te.Code == code
}

// Duration parse errors

// NewUnknownCharError reports a character outside the duration grammar
func NewUnknownCharError(c rune, input string) *TimerError {
	return New(ErrCodeDurationUnknownChar, fmt.Sprintf("unknown character `%c` when parsing `%s`", c, input)).
		WithSuggestion("Use only digits and the units h, m and s (e.g. 1h15m30s)").
		WithDocs(docsURL)
}

// NewMissingNumberError reports a unit letter with no number in front of it
func NewMissingNumberError(unit string) *TimerError {
	return New(ErrCodeDurationMissingNumber, fmt.Sprintf("a number should be added before `%s`", unit)).
		WithSuggestion("Write the amount before the unit, e.g. 5m instead of m").
		WithDocs(docsURL)
}

// NewDuplicateUnitError reports a unit used more than once.
// The message is the same whichever unit collided.
func NewDuplicateUnitError() *TimerError {
	return New(ErrCodeDurationDuplicateUnit, "should not have more than one block of the same unit").
		WithSuggestion("Combine the amounts into a single block, e.g. 1h30m instead of 1h30m5m").
		WithDocs(docsURL)
}

// NewMissingUnitError reports trailing digits with no unit
func NewMissingUnitError(number int, input string) *TimerError {
	return New(ErrCodeDurationMissingUnit, fmt.Sprintf("number `%d` in `%s` has no unit", number, input)).
		WithSuggestion("Append h, m or s to every number").
		WithDocs(docsURL)
}

// NewZeroDurationError reports a duration totalling zero seconds
func NewZeroDurationError() *TimerError {
	return New(ErrCodeDurationZero, "initial duration should not be zero").
		WithSuggestion("Provide at least one second, e.g. 1s")
}

// NewDurationOutOfRangeError reports a duration above the 24 hour ceiling
func NewDurationOutOfRangeError(totalSeconds int64) *TimerError {
	return New(ErrCodeDurationOutOfRange,
		fmt.Sprintf("cannot have a time that is greater than 24 hours (got %d seconds)", totalSeconds)).
		WithSuggestion("Use a duration of at most 24h")
}

// NewNegativeComponentError reports a negative hours, minutes or seconds value
func NewNegativeComponentError(field string, value int) *TimerError {
	return New(ErrCodeDurationNegative, fmt.Sprintf("%s must not be negative (got %d)", field, value))
}

// Config errors

// NewConfigLoadError creates a config load error
func NewConfigLoadError(path string, cause error) *TimerError {
	return Wrap(ErrCodeConfigLoad, fmt.Sprintf("failed to load configuration: %s", path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion("Run 'countdown config path' to locate the file")
}

// NewConfigKeyError creates an unknown configuration key error
func NewConfigKeyError(key string) *TimerError {
	return New(ErrCodeConfigKey, fmt.Sprintf("unknown configuration key: %s", key)).
		WithSuggestion("Run 'countdown config view' to see available keys")
}

// NewConfigInvalidError creates an invalid configuration value error
func NewConfigInvalidError(key, value string, cause error) *TimerError {
	return Wrap(ErrCodeConfigInvalid, fmt.Sprintf("invalid value %q for %s", value, key), cause)
}

// Hook errors

// NewHookUnknownError creates an unknown hook type error
func NewHookUnknownError(hookType string) *TimerError {
	return New(ErrCodeHookUnknown, fmt.Sprintf("unknown hook type: %s", hookType)).
		WithSuggestion("Use one of: desktop, script, webhook, slack")
}

// NewHookFailedError creates a hook failure error
func NewHookFailedError(hookName, reason string) *TimerError {
	return New(ErrCodeHookFailed, fmt.Sprintf("hook %s failed: %s", hookName, reason))
}

// Store errors

// NewStoreOpenError creates a history store open error
func NewStoreOpenError(path string, cause error) *TimerError {
	return Wrap(ErrCodeStoreOpen, fmt.Sprintf("failed to open history database: %s", path), cause).
		WithSuggestion("Run with --no-history to skip recording").
		WithSuggestion("Check that the directory is writable")
}

// File errors

// NewFileReadError reports a file that exists but cannot be read
func NewFileReadError(path string, cause error) *TimerError {
	return Wrap(ErrCodeFileReadFailed, fmt.Sprintf("failed to read file: %s", path), cause).
		WithSuggestion("Check that the path is a regular file you can read")
}
