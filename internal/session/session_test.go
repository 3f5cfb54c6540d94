package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/countdown/internal/duration"
	timererrors "github.com/felixgeelhaar/countdown/internal/errors"
	"github.com/felixgeelhaar/countdown/internal/hooks"
	"github.com/felixgeelhaar/countdown/internal/metrics"
	"github.com/felixgeelhaar/countdown/internal/store"
)

type recordingHook struct {
	name   string
	events []hooks.EventType
	err    error

	mu   sync.Mutex
	seen []*hooks.Event
}

func (h *recordingHook) Name() string                  { return h.name }
func (h *recordingHook) EventTypes() []hooks.EventType { return h.events }
func (h *recordingHook) Enabled() bool                 { return true }
func (h *recordingHook) Execute(_ context.Context, e *hooks.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, e)
	return h.err
}

func (h *recordingHook) received() []*hooks.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*hooks.Event(nil), h.seen...)
}

type memoryStore struct {
	records []store.Session
	err     error
}

func (m *memoryStore) RecordSession(_ context.Context, s store.Session) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, s)
	return nil
}
func (m *memoryStore) ListSessions(context.Context, int) ([]store.Session, error) {
	return m.records, nil
}
func (m *memoryStore) Stats(context.Context) (store.Stats, error) { return store.Stats{}, nil }
func (m *memoryStore) Close() error                               { return nil }

func newSession(t *testing.T, d duration.Duration, opts Options) *Session {
	t.Helper()
	s, err := New(d, opts)
	require.NoError(t, err)
	return s
}

func TestNewDefaults(t *testing.T) {
	s := newSession(t, duration.MustNew(0, 1, 30), Options{})

	assert.Equal(t, "Timer", s.Title())
	assert.Equal(t, "1m30s", s.Input())
	assert.NotEmpty(t, s.ID())
	assert.False(t, s.StartedAt().IsZero())
	assert.False(t, s.Paused())
	assert.False(t, s.Notified())
}

func TestNewRejectsInvalidDuration(t *testing.T) {
	_, err := New(duration.Duration{}, Options{})
	assert.True(t, timererrors.IsDurationError(err))
}

func TestTickFiresExactlyOnce(t *testing.T) {
	s := newSession(t, duration.MustNew(0, 0, 3), Options{})

	var fired []int
	for i := 1; i <= 10; i++ {
		if s.Tick() {
			fired = append(fired, i)
		}
	}

	// Elapsed must exceed the total, so the fourth tick is the first timeout.
	assert.Equal(t, []int{4}, fired)
	assert.True(t, s.Notified())
	assert.Equal(t, "-00:00:07", s.Snapshot().Remaining)
}

func TestZeroRemainingIsNotTimeout(t *testing.T) {
	s := newSession(t, duration.MustNew(0, 0, 2), Options{})

	assert.False(t, s.Tick())
	assert.False(t, s.Tick())

	snap := s.Snapshot()
	assert.Equal(t, "-00:00:00", snap.Remaining)
	assert.False(t, snap.TimedOut)
}

func TestPauseStopsTicking(t *testing.T) {
	s := newSession(t, duration.MustNew(0, 0, 5), Options{})

	s.Tick()
	s.Pause()
	s.Tick()
	s.Tick()
	assert.Equal(t, int64(1), s.State().Elapsed())
	assert.True(t, s.Paused())

	s.Resume()
	s.Tick()
	assert.Equal(t, int64(2), s.State().Elapsed())

	assert.True(t, s.TogglePause())
	assert.False(t, s.TogglePause())
}

func TestPausedSessionStillReportsTimeout(t *testing.T) {
	s := newSession(t, duration.MustNew(0, 0, 1), Options{})

	// Advance the state behind the session's back, then pause.
	s.State().Tick()
	s.State().Tick()
	s.Pause()

	assert.True(t, s.Tick(), "a paused session still checks the threshold")
	assert.Equal(t, int64(2), s.State().Elapsed(), "but does not advance")
	assert.False(t, s.Tick())
}

func TestLifecycleHooks(t *testing.T) {
	registry := hooks.NewRegistry()
	hook := &recordingHook{name: "rec", events: hooks.AllEventTypes}
	require.NoError(t, registry.Register(hook))

	s := newSession(t, duration.MustNew(0, 0, 1), Options{Title: "Tea", Hooks: registry})
	ctx := context.Background()

	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Start(ctx), "second Start is a no-op")

	s.Tick()
	require.True(t, s.Tick())
	results := s.Notify(ctx)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)

	require.NoError(t, s.Finish(ctx))
	require.NoError(t, s.Finish(ctx), "second Finish is a no-op")

	seen := hook.received()
	require.Len(t, seen, 3)
	assert.Equal(t, hooks.EventCountdownStart, seen[0].Type)
	assert.Equal(t, hooks.EventCountdownTimeout, seen[1].Type)
	assert.Equal(t, hooks.EventCountdownFinish, seen[2].Type)

	timeout := seen[1]
	assert.Equal(t, s.ID(), timeout.SessionID)
	assert.Equal(t, "Tea", timeout.GetString(hooks.DataTitle))
	assert.Equal(t, "Total time: 0 Hour 0 Minutes 1 Seconds", timeout.GetString(hooks.DataSummary))
	assert.Equal(t, "00:00:02", timeout.GetString(hooks.DataElapsed))
	assert.Equal(t, "-00:00:01", timeout.GetString(hooks.DataRemaining))
	assert.Equal(t, "1s", timeout.GetString(hooks.DataDuration))
	assert.True(t, timeout.GetBool(hooks.DataTimedOut))
}

func TestNotifyWithoutHooks(t *testing.T) {
	s := newSession(t, duration.MustNew(0, 0, 1), Options{})
	assert.Nil(t, s.Notify(context.Background()))
}

func TestFailingHookSurfacesOnFinish(t *testing.T) {
	registry := hooks.NewRegistry()
	registry.RegisterFactory("rec", func(cfg *hooks.HookConfig) (hooks.Hook, error) {
		return &recordingHook{name: cfg.Name, events: cfg.Events, err: errors.New("no display")}, nil
	})
	require.NoError(t, registry.RegisterFromConfig(&hooks.HookConfig{
		Name:        "strict",
		Type:        "rec",
		Enabled:     true,
		Events:      []hooks.EventType{hooks.EventCountdownTimeout},
		FailureMode: "fail",
	}))

	s := newSession(t, duration.MustNew(0, 0, 1), Options{Hooks: registry})
	ctx := context.Background()

	s.Tick()
	s.Tick()
	results := s.Notify(ctx)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)

	err := s.Finish(ctx)
	assert.True(t, timererrors.HasCode(err, timererrors.ErrCodeHookFailed), "got %v", err)
}

func TestFinishRecordsHistoryAndMetrics(t *testing.T) {
	mem := &memoryStore{}
	m := metrics.NewMetrics(prometheus.NewRegistry())
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := start

	s := newSession(t, duration.MustNew(0, 0, 2), Options{
		Title:   "Tea",
		Input:   "2S",
		Store:   mem,
		Metrics: m,
		Now:     func() time.Time { return clock },
	})

	for i := 0; i < 3; i++ {
		s.Tick()
	}
	clock = start.Add(3 * time.Second)
	require.NoError(t, s.Finish(context.Background()))

	require.Len(t, mem.records, 1)
	rec := mem.records[0]
	assert.Equal(t, store.Session{
		ID:             s.ID(),
		Title:          "Tea",
		Input:          "2S",
		TotalSeconds:   2,
		ElapsedSeconds: 3,
		TimedOut:       true,
		StartedAt:      start,
		EndedAt:        start.Add(3 * time.Second),
	}, rec)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.Ticks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Timeouts))
	assert.Equal(t, -1.0, testutil.ToFloat64(m.RemainingTime))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Sessions.WithLabelValues(metrics.OutcomeCompleted)))
}

func TestFinishReportsStoreError(t *testing.T) {
	mem := &memoryStore{err: timererrors.Wrap(timererrors.ErrCodeStoreWrite, "disk full", nil)}
	s := newSession(t, duration.MustNew(0, 0, 2), Options{Store: mem})

	err := s.Finish(context.Background())
	assert.True(t, timererrors.HasCode(err, timererrors.ErrCodeStoreWrite), "got %v", err)
}

func TestConcurrentSnapshotAndTick(t *testing.T) {
	s := newSession(t, duration.MustNew(0, 1, 0), Options{})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			s.Tick()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = s.Snapshot()
			_ = s.Notify(context.Background())
		}
	}()
	wg.Wait()

	assert.Equal(t, int64(100), s.State().Elapsed())
}
