package hooks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/countdown/internal/notify"
)

type fakeNotifier struct {
	sent []notify.Notification
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, note notify.Notification) error {
	f.sent = append(f.sent, note)
	return f.err
}

func timeoutEvent() *Event {
	return NewEvent(EventCountdownTimeout, "session-1", map[string]interface{}{
		DataTitle:     "Tea",
		DataSummary:   "Total time: 0 Hour 3 Minutes 0 Seconds",
		DataElapsed:   "00:03:01",
		DataRemaining: "-00:00:01",
		DataDuration:  "3m",
		DataTimedOut:  true,
	})
}

func TestDesktopHookDefaults(t *testing.T) {
	notifier := &fakeNotifier{}
	hook, err := NewDesktopHookWithNotifier(&HookConfig{Name: "desktop", Enabled: true}, notifier)
	if err != nil {
		t.Fatalf("NewDesktopHookWithNotifier() error = %v", err)
	}

	if got := hook.EventTypes(); len(got) != 1 || got[0] != EventCountdownTimeout {
		t.Errorf("default events = %v, want [%s]", got, EventCountdownTimeout)
	}

	if err := hook.Execute(context.Background(), timeoutEvent()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifier.sent))
	}
	note := notifier.sent[0]
	if note.AppName != "Timer" || note.Summary != "Time is over" || note.Sound != "Glass" {
		t.Errorf("unexpected defaults: %+v", note)
	}
	if note.TimeoutMs != 0 {
		t.Errorf("notification should never expire, got timeout %d", note.TimeoutMs)
	}
	if note.Body != "Total time: 0 Hour 3 Minutes 0 Seconds" {
		t.Errorf("body = %q, want the summary", note.Body)
	}
}

func TestDesktopHookOverrides(t *testing.T) {
	notifier := &fakeNotifier{}
	hook, err := NewDesktopHookWithNotifier(&HookConfig{
		Name:    "desktop",
		Enabled: true,
		Config: map[string]interface{}{
			"appName":   "Kitchen",
			"sound":     "Ping",
			"timeoutMs": 5000,
			"urgency":   "low",
		},
	}, notifier)
	if err != nil {
		t.Fatal(err)
	}

	if err := hook.Execute(context.Background(), timeoutEvent()); err != nil {
		t.Fatal(err)
	}

	note := notifier.sent[0]
	if note.AppName != "Kitchen" || note.Sound != "Ping" || note.TimeoutMs != 5000 || note.Urgency != notify.UrgencyLow {
		t.Errorf("overrides not applied: %+v", note)
	}
}

func TestDesktopHookErrors(t *testing.T) {
	if _, err := NewDesktopHookWithNotifier(&HookConfig{Name: "d"}, nil); err == nil {
		t.Error("expected error for nil notifier")
	}

	_, err := NewDesktopHookWithNotifier(&HookConfig{
		Name:   "d",
		Config: map[string]interface{}{"timeoutMs": -1},
	}, &fakeNotifier{})
	if err == nil {
		t.Error("expected error for negative timeout")
	}

	failing := &fakeNotifier{err: errors.New("no display")}
	hook, _ := NewDesktopHookWithNotifier(&HookConfig{Name: "d", Enabled: true}, failing)
	if err := hook.Execute(context.Background(), timeoutEvent()); err == nil {
		t.Error("expected notifier error to propagate")
	}
}

func TestScriptHookRequiresPath(t *testing.T) {
	if _, err := NewScriptHook(&HookConfig{Name: "s", Config: map[string]interface{}{}}); err == nil {
		t.Error("expected error for missing script path")
	}
}

func TestScriptHookExecute(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}

	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	script := filepath.Join(dir, "hook.sh")
	body := "echo \"$HOOK_EVENT_TYPE $HOOK_SESSION_ID $HOOK_TITLE $1\" > " + out + "\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}

	hook, err := NewScriptHook(&HookConfig{
		Name:    "script",
		Enabled: true,
		Events:  []EventType{EventCountdownTimeout},
		Config: map[string]interface{}{
			"script": script,
			"args":   []interface{}{"extra"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := hook.Execute(context.Background(), timeoutEvent()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(data)); got != "on_countdown_timeout session-1 Tea extra" {
		t.Errorf("script output = %q", got)
	}
}

func TestScriptEnvIsSorted(t *testing.T) {
	env := scriptEnv(timeoutEvent())
	if env[0] != "HOOK_EVENT_TYPE=on_countdown_timeout" || env[1] != "HOOK_SESSION_ID=session-1" {
		t.Errorf("unexpected env prefix: %v", env[:2])
	}
	if env[2] != "HOOK_DURATION=3m" {
		t.Errorf("data keys should be sorted, got %s first", env[2])
	}
}

func TestWebhookHook(t *testing.T) {
	var received Event
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	hook, err := NewWebhookHook(&HookConfig{
		Name:    "webhook",
		Enabled: true,
		Config: map[string]interface{}{
			"url":     server.URL,
			"headers": map[string]interface{}{"Authorization": "Bearer t"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := hook.Execute(context.Background(), timeoutEvent()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if received.Type != EventCountdownTimeout || received.SessionID != "session-1" {
		t.Errorf("unexpected payload: %+v", received)
	}
	if auth != "Bearer t" {
		t.Errorf("custom header not sent, got %q", auth)
	}
}

func TestWebhookHookBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	hook, _ := NewWebhookHook(&HookConfig{Name: "w", Config: map[string]interface{}{"url": server.URL}})
	err := hook.Execute(context.Background(), timeoutEvent())
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Errorf("expected status error, got %v", err)
	}

	if _, err := NewWebhookHook(&HookConfig{Name: "w"}); err == nil {
		t.Error("expected error for missing URL")
	}
}

func TestSlackHook(t *testing.T) {
	var payload map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}))
	defer server.Close()

	hook, err := NewSlackHook(&HookConfig{
		Name:   "slack",
		Config: map[string]interface{}{"webhookUrl": server.URL, "channel": "#kitchen"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := hook.Execute(context.Background(), timeoutEvent()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if payload["username"] != "countdown" || payload["channel"] != "#kitchen" {
		t.Errorf("unexpected payload: %v", payload)
	}
	if text, _ := payload["text"].(string); !strings.Contains(text, "Tea: time is over") {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestSlackFormatMessage(t *testing.T) {
	h := &SlackHook{}

	start := NewEvent(EventCountdownStart, "s", map[string]interface{}{DataTitle: "Tea", DataDuration: "3m"})
	if got := h.formatMessage(start); !strings.Contains(got, "Tea started: 3m") {
		t.Errorf("start message = %q", got)
	}

	stopped := NewEvent(EventCountdownFinish, "s", map[string]interface{}{DataTitle: "Tea", DataRemaining: "00:01:00"})
	if got := h.formatMessage(stopped); !strings.Contains(got, "stopped with 00:01:00 left") {
		t.Errorf("finish message = %q", got)
	}

	done := timeoutEvent()
	done.Type = EventCountdownFinish
	if got := h.formatMessage(done); !strings.Contains(got, "(00:00:01 overtime)") {
		t.Errorf("overtime message = %q", got)
	}
}
