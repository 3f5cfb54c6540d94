package health

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

type mockChecker struct {
	name   string
	result *Result
	delay  time.Duration
}

func (m *mockChecker) Name() string {
	return m.name
}

func (m *mockChecker) Check(ctx context.Context) *Result {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return Unhealthy("check cancelled").
				WithDetail("error", ctx.Err().Error())
		}
	}
	return m.result
}

func TestCheckKeepsRegistrationOrder(t *testing.T) {
	manager := NewManager()
	manager.AddChecker(&mockChecker{name: "config", result: Healthy("ok"), delay: 20 * time.Millisecond})
	manager.AddChecker(&mockChecker{name: "history", result: Healthy("ok")})
	manager.AddChecker(&mockChecker{name: "desktop-notifier", result: Degraded("missing")})

	report := manager.Check(context.Background())

	if len(report.Checks) != 3 {
		t.Fatalf("Check() returned %d results, want 3", len(report.Checks))
	}
	for i, want := range manager.CheckNames() {
		if report.Checks[i].Name != want {
			t.Errorf("Checks[%d].Name = %q, want %q", i, report.Checks[i].Name, want)
		}
	}
	if report.Status != StatusDegraded {
		t.Errorf("Status = %v, want %v", report.Status, StatusDegraded)
	}
	if report.Checks[0].Latency <= 0 {
		t.Errorf("latency should be measured, got %v", report.Checks[0].Latency)
	}
}

func TestCheckWithTimeout(t *testing.T) {
	manager := NewManager().WithTimeout(20 * time.Millisecond)
	manager.AddChecker(&mockChecker{name: "slow", result: Healthy("late"), delay: time.Second})

	report := manager.Check(context.Background())

	if report.Checks[0].Status != StatusUnhealthy || report.Checks[0].Message != "check cancelled" {
		t.Errorf("slow check should be cancelled, got %+v", report.Checks[0])
	}
	if report.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want %v", report.Status, StatusUnhealthy)
	}
}

func TestCheckNilResult(t *testing.T) {
	manager := NewManager()
	manager.AddChecker(&mockChecker{name: "nil"})

	report := manager.Check(context.Background())
	if report.Checks[0].Status != StatusUnhealthy {
		t.Errorf("nil result should be unhealthy, got %v", report.Checks[0].Status)
	}
}

func TestOverallStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var results []NamedResult
			for _, s := range tt.statuses {
				results = append(results, NamedResult{Name: string(s), Result: *NewResult(s, "")})
			}
			if got := OverallStatus(results); got != tt.want {
				t.Errorf("OverallStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReportWriteText(t *testing.T) {
	report := &Report{
		Status: StatusDegraded,
		Checks: []NamedResult{
			{Name: "config", Result: *Healthy("configuration loaded")},
			{Name: "desktop-notifier", Result: *Degraded("notify-send not found in PATH").WithDetail("suggestion", "install libnotify")},
		},
	}

	var buf bytes.Buffer
	if err := report.WriteText(&buf); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"✓", "config", "! ", "desktop-notifier", "suggestion: install libnotify", "Overall: degraded"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
