// Package health runs the checks behind `countdown doctor`: can the
// desktop notifier be reached, does the config load, and is the history
// database writable.
//
//	manager := health.NewManager()
//	manager.AddChecker(health.NewNotifierChecker(runtime.GOOS))
//	manager.AddChecker(health.NewHistoryChecker(path))
//
//	report := manager.Check(ctx)
//	fmt.Println(report.Status)
package health

import (
	"context"
	"time"
)

// Checker verifies one thing a countdown depends on
type Checker interface {
	// Name is lowercase with hyphens, e.g. "desktop-notifier"
	Name() string

	// Check must respect the context deadline
	Check(ctx context.Context) *Result
}

// Status represents the health check status.
type Status string

const (
	// StatusHealthy means the dependency works.
	StatusHealthy Status = "healthy"

	// StatusDegraded means countdowns still run but something is missing,
	// such as notifications.
	StatusDegraded Status = "degraded"

	// StatusUnhealthy means countdowns will fail or lose data.
	StatusUnhealthy Status = "unhealthy"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Result is the outcome of one check
type Result struct {
	Status  Status                 `json:"status" yaml:"status"`
	Message string                 `json:"message" yaml:"message"`
	Details map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
	Latency time.Duration          `json:"latency" yaml:"latency"`
}

// NewResult creates a new health check result with the given status and message.
func NewResult(status Status, message string) *Result {
	return &Result{
		Status:  status,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WithDetail adds a detail to the result and returns the result for chaining.
func (r *Result) WithDetail(key string, value interface{}) *Result {
	r.Details[key] = value
	return r
}

// WithLatency sets the latency and returns the result for chaining.
func (r *Result) WithLatency(latency time.Duration) *Result {
	r.Latency = latency
	return r
}

// Healthy creates a healthy result with the given message.
func Healthy(message string) *Result {
	return NewResult(StatusHealthy, message)
}

// Degraded creates a degraded result with the given message.
func Degraded(message string) *Result {
	return NewResult(StatusDegraded, message)
}

// Unhealthy creates an unhealthy result with the given message.
func Unhealthy(message string) *Result {
	return NewResult(StatusUnhealthy, message)
}
