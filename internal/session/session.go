// Package session runs one countdown: it owns the State, the pause and
// notified flags, and dispatches lifecycle hooks, metrics and history.
package session

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/countdown/internal/countdown"
	"github.com/felixgeelhaar/countdown/internal/duration"
	"github.com/felixgeelhaar/countdown/internal/hooks"
	"github.com/felixgeelhaar/countdown/internal/log"
	"github.com/felixgeelhaar/countdown/internal/metrics"
	"github.com/felixgeelhaar/countdown/internal/store"
	"github.com/felixgeelhaar/countdown/internal/telemetry"
)

// DefaultTitle is used when no title is given
const DefaultTitle = "Timer"

// Options configures a Session. Every field is optional.
type Options struct {
	Title   string
	Input   string
	Hooks   *hooks.Registry
	Metrics *metrics.Metrics
	Logger  *log.Logger
	Store   store.Store
	// Now returns the wall clock; tests pin it
	Now func() time.Time
}

// Session is a single running countdown. Methods are safe to call from
// the UI loop and from hook goroutines.
type Session struct {
	mu sync.Mutex

	id        string
	title     string
	input     string
	state     *countdown.State
	paused    bool
	notified  bool
	started   bool
	finished  bool
	startedAt time.Time

	hooks   *hooks.Registry
	metrics *metrics.Metrics
	logger  *log.Logger
	store   store.Store
	now     func() time.Time

	span    trace.Span
	hookErr error
}

// New validates d and prepares a session. Nothing runs until Start.
func New(d duration.Duration, opts Options) (*Session, error) {
	state, err := countdown.New(d)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:      uuid.NewString(),
		title:   opts.Title,
		input:   opts.Input,
		state:   state,
		hooks:   opts.Hooks,
		metrics: opts.Metrics,
		logger:  opts.Logger,
		store:   opts.Store,
		now:     opts.Now,
	}
	if s.title == "" {
		s.title = DefaultTitle
	}
	if s.input == "" {
		s.input = d.String()
	}
	if s.logger == nil {
		s.logger = log.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.startedAt = s.now()
	s.logger = s.logger.With("session_id", s.id)
	return s, nil
}

// ID returns the session's unique identifier
func (s *Session) ID() string { return s.id }

// Title returns the label shown above the timer
func (s *Session) Title() string { return s.title }

// Input returns the duration string the session was created from
func (s *Session) Input() string { return s.input }

// StartedAt returns when the session was created
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Tick advances the countdown by one second unless paused. It returns true
// exactly once: on the first call that finds the countdown timed out.
func (s *Session) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.paused {
		s.state.Tick()
		s.metrics.RecordTick(s.state.Remaining())
	}

	if s.state.IsTimeout() && !s.notified {
		s.notified = true
		s.metrics.RecordTimeout()
		return true
	}
	return false
}

// Pause stops the countdown from advancing
func (s *Session) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

// Resume lets the countdown advance again
func (s *Session) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
}

// TogglePause flips the paused flag and returns the new value
func (s *Session) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paused = !s.paused
	return s.paused
}

// Paused reports whether the countdown is paused
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Notified reports whether the timeout notification has fired
func (s *Session) Notified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notified
}

// Snapshot is a consistent copy of the countdown for rendering
type Snapshot struct {
	Remaining     string
	Elapsed       string
	TotalDuration string
	Summary       string
	Progress      float64
	TimedOut      bool
	Paused        bool
	Notified      bool
}

// Snapshot reads every display value under one lock
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Remaining:     s.state.RemainingDisplay(),
		Elapsed:       s.state.ElapsedDisplay(),
		TotalDuration: s.state.TotalDurationDisplay(),
		Summary:       s.state.Summary(),
		Progress:      s.state.Progress(),
		TimedOut:      s.state.IsTimeout(),
		Paused:        s.paused,
		Notified:      s.notified,
	}
}

// State returns the underlying countdown. Callers must not tick it
// directly while the session is running.
func (s *Session) State() *countdown.State {
	return s.state
}

// Start opens the session span and fires on_countdown_start. Calling it
// again has no effect.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	_, s.span = telemetry.StartSessionSpan(ctx, s.id, s.title, s.state.Duration().TotalSeconds())
	data := s.eventDataLocked()
	s.mu.Unlock()

	s.logger.Info("countdown started", "title", s.title, "duration", s.input)
	return s.dispatch(ctx, hooks.EventCountdownStart, data)
}

// Notify fires on_countdown_timeout. The caller invokes it once, after
// Tick returned true.
func (s *Session) Notify(ctx context.Context) []hooks.ExecutionResult {
	s.mu.Lock()
	data := s.eventDataLocked()
	s.mu.Unlock()

	s.logger.Info("time is over", "title", s.title, "summary", data[hooks.DataSummary])

	if s.hooks == nil {
		return nil
	}
	results := s.trigger(ctx, hooks.EventCountdownTimeout, data)
	if err := s.hooks.HandleResults(results, log.HookAdapter{Logger: s.logger}); err != nil {
		s.recordHookErr(err)
	}
	return results
}

// Finish fires on_countdown_finish, counts the outcome and writes the
// history record. It returns the first hook failure whose mode is "fail"
// along with any store error. Only the first call does anything.
func (s *Session) Finish(ctx context.Context) error {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return nil
	}
	s.finished = true
	data := s.eventDataLocked()
	timedOut := s.state.IsTimeout()
	elapsed := s.state.Elapsed()
	record := store.Session{
		ID:             s.id,
		Title:          s.title,
		Input:          s.input,
		TotalSeconds:   s.state.Duration().TotalSeconds(),
		ElapsedSeconds: elapsed,
		TimedOut:       timedOut,
		StartedAt:      s.startedAt,
		EndedAt:        s.now(),
	}
	span := s.span
	s.mu.Unlock()

	hookErr := s.dispatch(ctx, hooks.EventCountdownFinish, data)
	s.metrics.RecordSession(timedOut, elapsed)

	var storeErr error
	if s.store != nil {
		if storeErr = s.store.RecordSession(ctx, record); storeErr != nil {
			s.logger.WithError(storeErr).Warn("failed to record session")
		}
	}

	s.mu.Lock()
	if hookErr == nil {
		hookErr = s.hookErr
	}
	s.mu.Unlock()

	err := stderrors.Join(hookErr, storeErr)
	if span != nil {
		span.SetAttributes(
			attribute.Int64("countdown.elapsed_seconds", elapsed),
			attribute.Bool("countdown.timed_out", timedOut),
		)
		if err != nil {
			telemetry.RecordError(span, err)
		} else {
			telemetry.RecordSuccess(span)
		}
		span.End()
	}

	s.logger.Info("countdown finished", "elapsed", data[hooks.DataElapsed], "timed_out", timedOut)
	return err
}

func (s *Session) dispatch(ctx context.Context, event hooks.EventType, data map[string]interface{}) error {
	if s.hooks == nil {
		return nil
	}
	results := s.trigger(ctx, event, data)
	return s.hooks.HandleResults(results, log.HookAdapter{Logger: s.logger})
}

func (s *Session) trigger(ctx context.Context, event hooks.EventType, data map[string]interface{}) []hooks.ExecutionResult {
	s.mu.Lock()
	span := s.span
	s.mu.Unlock()
	if span != nil {
		ctx = trace.ContextWithSpan(ctx, span)
	}
	results := s.hooks.Trigger(ctx, hooks.NewEvent(event, s.id, data))
	for _, r := range results {
		s.metrics.RecordHook(r.HookName, r.Success, r.Duration)
	}
	return results
}

func (s *Session) recordHookErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hookErr == nil {
		s.hookErr = err
	}
}

func (s *Session) eventDataLocked() map[string]interface{} {
	return map[string]interface{}{
		hooks.DataTitle:     s.title,
		hooks.DataSummary:   s.state.Summary(),
		hooks.DataElapsed:   s.state.ElapsedDisplay(),
		hooks.DataRemaining: s.state.RemainingDisplay(),
		hooks.DataDuration:  s.state.Duration().String(),
		hooks.DataTimedOut:  s.state.IsTimeout(),
	}
}
