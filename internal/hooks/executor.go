package hooks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/countdown/internal/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/felixgeelhaar/countdown/internal/hooks"

// Executor executes hooks
type Executor struct {
	// maxConcurrency limits concurrent hook execution
	maxConcurrency int

	// defaultTimeout is used if hook doesn't specify one
	defaultTimeout time.Duration

	tracer trace.Tracer
}

// NewExecutor creates a new hook executor
func NewExecutor() *Executor {
	return &Executor{
		maxConcurrency: 4,
		defaultTimeout: DefaultTimeout,
		tracer:         otel.Tracer(tracerName),
	}
}

// SetTracer replaces the tracer used for hook spans
func (e *Executor) SetTracer(tracer trace.Tracer) {
	e.tracer = tracer
}

// ExecuteAll executes all hooks for an event. Results keep the order of hooks.
func (e *Executor) ExecuteAll(ctx context.Context, hooks []Hook, event *Event) []ExecutionResult {
	if len(hooks) == 0 {
		return nil
	}

	results := make([]ExecutionResult, len(hooks))
	var wg sync.WaitGroup

	sem := make(chan struct{}, e.maxConcurrency)

	for i, hook := range hooks {
		wg.Add(1)
		go func(index int, h Hook) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[index] = e.Execute(ctx, h, event)
		}(i, hook)
	}

	wg.Wait()
	return results
}

// Execute executes a single hook inside its own span
func (e *Executor) Execute(ctx context.Context, hook Hook, event *Event) ExecutionResult {
	result := ExecutionResult{
		HookName:  hook.Name(),
		EventType: event.Type,
		Timestamp: time.Now(),
	}

	timeout := e.defaultTimeout
	if t, ok := hook.(interface{ Timeout() time.Duration }); ok && t.Timeout() > 0 {
		timeout = t.Timeout()
	}

	ctx, span := e.tracer.Start(ctx, "hook."+hook.Name(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("hook.name", hook.Name()),
			attribute.String("hook.event", string(event.Type)),
			attribute.String("session.id", event.SessionID),
		),
	)
	defer span.End()

	hookCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := hook.Execute(hookCtx, event)
	result.Duration = time.Since(start)

	if err != nil {
		result.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		result.Success = true
		span.SetStatus(codes.Ok, "")
	}

	return result
}

// SetMaxConcurrency sets the maximum number of concurrent hook executions
func (e *Executor) SetMaxConcurrency(max int) {
	if max < 1 {
		max = 1
	}
	e.maxConcurrency = max
}

// SetDefaultTimeout sets the default timeout for hook execution
func (e *Executor) SetDefaultTimeout(timeout time.Duration) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	e.defaultTimeout = timeout
}

// HandleResults processes hook execution results based on failure modes
func HandleResults(results []ExecutionResult, failureMode string, logger Logger) error {
	var failures []ExecutionResult
	for _, result := range results {
		if !result.Success {
			failures = append(failures, result)
		}
	}

	if len(failures) == 0 {
		return nil
	}

	for _, failure := range failures {
		msg := fmt.Sprintf("hook %s failed for event %s: %s (took %s)",
			failure.HookName, failure.EventType, failure.Error, failure.Duration)

		switch failureMode {
		case "ignore":
			if logger != nil {
				logger.Debug(msg)
			}
		case "warn":
			if logger != nil {
				logger.Warn(msg)
			}
		case "fail":
			if logger != nil {
				logger.Error(msg)
			}
			return errors.NewHookFailedError(failure.HookName, failure.Error)
		}
	}

	return nil
}

// Logger interface for logging hook results
type Logger interface {
	Debug(msg string)
	Warn(msg string)
	Error(msg string)
}
