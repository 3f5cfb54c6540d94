package hooks

import (
	"context"
	"time"
)

// EventType represents the type of countdown lifecycle event
type EventType string

const (
	// EventCountdownStart fires once the first frame is on screen
	EventCountdownStart EventType = "on_countdown_start"

	// EventCountdownTimeout fires exactly once, on the first tick past zero
	EventCountdownTimeout EventType = "on_countdown_timeout"

	// EventCountdownFinish fires when the user quits, timed out or not
	EventCountdownFinish EventType = "on_countdown_finish"
)

// AllEventTypes lists every event a hook may subscribe to
var AllEventTypes = []EventType{
	EventCountdownStart,
	EventCountdownTimeout,
	EventCountdownFinish,
}

// IsValidEventType reports whether t is a known event
func IsValidEventType(t EventType) bool {
	for _, known := range AllEventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Event represents a lifecycle event that can trigger hooks
type Event struct {
	// Type is the event type
	Type EventType `json:"type"`

	// Timestamp when the event occurred
	Timestamp time.Time `json:"timestamp"`

	// SessionID identifies the countdown session
	SessionID string `json:"sessionId"`

	// Data contains event-specific data
	Data map[string]interface{} `json:"data"`
}

// Hook is the interface that all hooks must implement
type Hook interface {
	// Name returns the hook name
	Name() string

	// EventTypes returns the events this hook handles
	EventTypes() []EventType

	// Execute runs the hook for an event
	Execute(ctx context.Context, event *Event) error

	// Enabled returns whether the hook is currently enabled
	Enabled() bool
}

// HookConfig represents hook configuration
type HookConfig struct {
	// Name of the hook
	Name string `yaml:"name" json:"name"`

	// Type of hook (desktop, script, webhook, slack)
	Type string `yaml:"type" json:"type"`

	// Events this hook should trigger on
	Events []EventType `yaml:"events" json:"events"`

	// Enabled indicates if this hook is active
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Config contains hook-specific configuration
	Config map[string]interface{} `yaml:"config,omitempty" json:"config,omitempty"`

	// Timeout for hook execution
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// FailureMode determines what happens if hook fails
	// "ignore" - log at debug and continue
	// "warn" - log warning and continue
	// "fail" - surface the error to the caller
	FailureMode string `yaml:"failureMode,omitempty" json:"failureMode,omitempty"`
}

// ExecutionResult contains the result of hook execution
type ExecutionResult struct {
	// HookName is the name of the hook that executed
	HookName string `json:"hookName"`

	// EventType is the event that triggered the hook
	EventType EventType `json:"eventType"`

	// Success indicates if the hook executed successfully
	Success bool `json:"success"`

	// Error message if hook failed
	Error string `json:"error,omitempty"`

	// Duration of hook execution
	Duration time.Duration `json:"duration"`

	// Timestamp when hook executed
	Timestamp time.Time `json:"timestamp"`
}

// HookFactory creates hooks from configuration
type HookFactory func(config *HookConfig) (Hook, error)

// DefaultTimeout is the default hook execution timeout
const DefaultTimeout = 30 * time.Second

// ValidFailureModes defines valid failure modes
var ValidFailureModes = []string{"ignore", "warn", "fail"}

// IsValidFailureMode checks if a failure mode is valid
func IsValidFailureMode(mode string) bool {
	for _, valid := range ValidFailureModes {
		if mode == valid {
			return true
		}
	}
	return false
}

// NewEvent creates a new event
func NewEvent(eventType EventType, sessionID string, data map[string]interface{}) *Event {
	if data == nil {
		data = map[string]interface{}{}
	}
	return &Event{
		Type:      eventType,
		Timestamp: time.Now(),
		SessionID: sessionID,
		Data:      data,
	}
}

// GetString gets a string value from event data
func (e *Event) GetString(key string) string {
	if val, ok := e.Data[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetInt64 gets an integer value from event data. Values decoded from
// JSON arrive as float64 and are truncated.
func (e *Event) GetInt64(key string) int64 {
	switch v := e.Data[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// GetBool gets a bool value from event data
func (e *Event) GetBool(key string) bool {
	if val, ok := e.Data[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}
