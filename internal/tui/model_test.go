package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/countdown/internal/duration"
	"github.com/felixgeelhaar/countdown/internal/hooks"
	"github.com/felixgeelhaar/countdown/internal/session"
)

type stubHook struct {
	err error
}

func (h stubHook) Name() string                  { return "stub" }
func (h stubHook) EventTypes() []hooks.EventType { return []hooks.EventType{hooks.EventCountdownTimeout} }
func (h stubHook) Enabled() bool                 { return true }
func (h stubHook) Execute(context.Context, *hooks.Event) error {
	return h.err
}

func newTestModel(t *testing.T, seconds int, opts Options, hookErr error) Model {
	t.Helper()
	registry := hooks.NewRegistry()
	if err := registry.Register(stubHook{err: hookErr}); err != nil {
		t.Fatal(err)
	}
	s, err := session.New(duration.MustNew(0, 0, seconds), session.Options{Title: "Tea", Hooks: registry})
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(context.Background(), s, opts)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// TestNewModel tests model initialization
func TestNewModel(t *testing.T) {
	m := newTestModel(t, 3, Options{}, nil)

	if m.opts.Interval != time.Second {
		t.Errorf("Expected default interval 1s, got %s", m.opts.Interval)
	}
	if m.quitting || m.showHelp {
		t.Error("Expected a fresh model to be running without help")
	}
	if m.Init() == nil {
		t.Error("Init should start the tick loop")
	}
}

// TestTickAdvancesCountdown tests that each tick moves the clock
func TestTickAdvancesCountdown(t *testing.T) {
	m := newTestModel(t, 3, Options{}, nil)

	m, cmd := update(t, m, TickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("Expected the next tick to be scheduled")
	}
	if got := m.session.Snapshot().Remaining; got != "00:00:02" {
		t.Errorf("Expected 00:00:02, got %s", got)
	}
	if !strings.Contains(m.View(), "00:00:02") {
		t.Error("View should show the remaining time")
	}
}

// TestTimeoutRunsNotifyOnce tests that hooks are dispatched exactly once
func TestTimeoutRunsNotifyOnce(t *testing.T) {
	m := newTestModel(t, 1, Options{Notify: true}, nil)

	m, _ = update(t, m, TickMsg(time.Now()))
	if m.notifying {
		t.Fatal("Should not notify before the timeout")
	}

	m, _ = update(t, m, TickMsg(time.Now()))
	if !m.notifying {
		t.Fatal("Expected notification after passing zero")
	}
	if !strings.Contains(m.View(), "-00:00:01") {
		t.Error("View should show negative time after the timeout")
	}

	m, _ = update(t, m, TickMsg(time.Now()))
	m, _ = update(t, m, NotifyResultMsg{Results: []hooks.ExecutionResult{{HookName: "stub", Success: true}}})
	if m.notifying {
		t.Error("Expected notifying to clear after results")
	}
	if m.quitting {
		t.Error("Should keep running after the timeout without --exit")
	}
	if !m.session.Notified() {
		t.Error("Session should be marked notified")
	}
}

// TestNotifyCommandRunsHooks tests the command returned on timeout
func TestNotifyCommandRunsHooks(t *testing.T) {
	m := newTestModel(t, 1, Options{Notify: true}, errors.New("no display"))

	msg := m.notify()()
	result, ok := msg.(NotifyResultMsg)
	if !ok {
		t.Fatalf("Expected NotifyResultMsg, got %T", msg)
	}
	if len(result.Results) != 1 || result.Results[0].Success {
		t.Fatalf("Expected one failed result, got %+v", result.Results)
	}

	m, _ = update(t, m, result)
	if !strings.Contains(m.lastError, "no display") {
		t.Errorf("Expected hook error to be shown, got %q", m.lastError)
	}
	if !strings.Contains(m.View(), "Hook failed") {
		t.Error("View should render the error box")
	}
}

// TestExitOnTimeout tests --exit behaviour
func TestExitOnTimeout(t *testing.T) {
	m := newTestModel(t, 1, Options{Notify: true, ExitOnTimeout: true}, nil)
	m, _ = update(t, m, TickMsg(time.Now()))
	m, _ = update(t, m, TickMsg(time.Now()))

	m, cmd := update(t, m, NotifyResultMsg{})
	if !m.Quitting() || cmd == nil {
		t.Error("Expected to quit once notifications finished")
	}

	silent := newTestModel(t, 1, Options{ExitOnTimeout: true}, nil)
	silent, _ = update(t, silent, TickMsg(time.Now()))
	silent, _ = update(t, silent, TickMsg(time.Now()))
	if !silent.Quitting() {
		t.Error("Without notifications --exit should quit immediately")
	}
}

// TestKeyBindings tests pause, help and quit keys
func TestKeyBindings(t *testing.T) {
	m := newTestModel(t, 10, Options{}, nil)

	m, _ = update(t, m, keyMsg(" "))
	if !m.session.Paused() {
		t.Error("Space should pause")
	}
	if !strings.Contains(m.View(), "Paused") {
		t.Error("View should show the paused status")
	}

	m, _ = update(t, m, TickMsg(time.Now()))
	if m.session.State().Elapsed() != 0 {
		t.Error("Paused countdown should not advance")
	}

	m, _ = update(t, m, keyMsg("p"))
	if m.session.Paused() {
		t.Error("p should resume")
	}

	m, _ = update(t, m, keyMsg("?"))
	if !m.showHelp || !m.help.ShowAll {
		t.Error("? should toggle the full help")
	}

	for _, k := range []string{"q", "ctrl+c"} {
		quit, cmd := update(t, m, keyMsg(k))
		if !quit.Quitting() || cmd == nil {
			t.Errorf("%s should quit", k)
		}
	}
}

// TestRenderProgressBar tests the ASCII progress bar
func TestRenderProgressBar(t *testing.T) {
	m := newTestModel(t, 10, Options{NoColor: true}, nil)

	bar := m.renderProgressBar(0.5)
	if strings.Count(bar, "█") != barWidth/2 {
		t.Errorf("Expected %d filled cells in %q", barWidth/2, bar)
	}
	if !strings.Contains(bar, "50%") {
		t.Errorf("Expected percentage in %q", bar)
	}
}

// TestQuitView tests the final frame
func TestQuitView(t *testing.T) {
	m := newTestModel(t, 10, Options{NoColor: true}, nil)
	m, _ = update(t, m, TickMsg(time.Now()))
	m, _ = update(t, m, keyMsg("q"))

	view := m.View()
	if !strings.Contains(view, "Total duration: 00:00:01") {
		t.Errorf("Final frame should show the total duration, got %q", view)
	}
	if !strings.Contains(view, "Total time: 0 Hour 0 Minutes 10 Seconds") {
		t.Errorf("Final frame should show the summary, got %q", view)
	}
}

// TestValidateDuration tests prompt validation
func TestValidateDuration(t *testing.T) {
	if err := validateDuration("1h15m"); err != nil {
		t.Errorf("Expected 1h15m to be valid: %v", err)
	}
	if err := validateDuration("15x"); err == nil {
		t.Error("Expected 15x to be rejected")
	}
	if err := validateDuration("0s"); err == nil {
		t.Error("Expected zero to be rejected")
	}
}
