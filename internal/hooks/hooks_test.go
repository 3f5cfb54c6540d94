package hooks

import (
	"context"
	"sync/atomic"
	"testing"
)

// MockHook records how often it ran
type MockHook struct {
	name       string
	eventTypes []EventType
	enabled    bool
	err        error
	calls      atomic.Int32
	lastEvent  atomic.Pointer[Event]
}

func newMockHook(name string, events ...EventType) *MockHook {
	return &MockHook{name: name, eventTypes: events, enabled: true}
}

func (h *MockHook) Name() string            { return h.name }
func (h *MockHook) EventTypes() []EventType { return h.eventTypes }
func (h *MockHook) Enabled() bool           { return h.enabled }
func (h *MockHook) Execute(_ context.Context, event *Event) error {
	h.calls.Add(1)
	h.lastEvent.Store(event)
	return h.err
}

func TestNewEvent(t *testing.T) {
	event := NewEvent(EventCountdownTimeout, "session-123", map[string]interface{}{
		DataTitle: "Tea",
	})

	if event.Type != EventCountdownTimeout {
		t.Errorf("Event type mismatch: got %s, want %s", event.Type, EventCountdownTimeout)
	}
	if event.SessionID != "session-123" {
		t.Errorf("Session ID mismatch: got %s, want session-123", event.SessionID)
	}
	if event.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if event.GetString(DataTitle) != "Tea" {
		t.Errorf("GetString(title) = %q, want Tea", event.GetString(DataTitle))
	}
}

func TestNewEventNilData(t *testing.T) {
	event := NewEvent(EventCountdownStart, "s", nil)
	if event.Data == nil {
		t.Fatal("Data should never be nil")
	}
	if event.GetString("missing") != "" {
		t.Error("missing key should return empty string")
	}
}

func TestEventGetters(t *testing.T) {
	event := NewEvent(EventCountdownFinish, "s", map[string]interface{}{
		"int":   42,
		"int64": int64(7),
		"float": 3.9,
		"flag":  true,
		"wrong": "nope",
	})

	if got := event.GetInt64("int"); got != 42 {
		t.Errorf("GetInt64(int) = %d, want 42", got)
	}
	if got := event.GetInt64("int64"); got != 7 {
		t.Errorf("GetInt64(int64) = %d, want 7", got)
	}
	if got := event.GetInt64("float"); got != 3 {
		t.Errorf("GetInt64(float) = %d, want 3", got)
	}
	if got := event.GetInt64("wrong"); got != 0 {
		t.Errorf("GetInt64(wrong) = %d, want 0", got)
	}
	if !event.GetBool("flag") {
		t.Error("GetBool(flag) should be true")
	}
	if event.GetBool("missing") {
		t.Error("GetBool(missing) should be false")
	}
}

func TestIsValidEventType(t *testing.T) {
	for _, et := range AllEventTypes {
		if !IsValidEventType(et) {
			t.Errorf("%s should be valid", et)
		}
	}
	if IsValidEventType("on_workflow_start") {
		t.Error("unknown events should be rejected")
	}
}

func TestIsValidFailureMode(t *testing.T) {
	tests := []struct {
		mode  string
		valid bool
	}{
		{"ignore", true},
		{"warn", true},
		{"fail", true},
		{"panic", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidFailureMode(tt.mode); got != tt.valid {
			t.Errorf("IsValidFailureMode(%q) = %v, want %v", tt.mode, got, tt.valid)
		}
	}
}
