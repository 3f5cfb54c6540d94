// Package countdown tracks the progress of a single countdown and renders
// its remaining and elapsed time for display.
package countdown

import (
	"fmt"

	"github.com/felixgeelhaar/countdown/internal/duration"
)

// State counts ticks against a validated Duration. It is not safe for
// concurrent use; the owner drives it from a single event loop.
type State struct {
	duration duration.Duration
	elapsed  int64
}

// New creates a State for d with no ticks observed.
func New(d duration.Duration) (*State, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &State{duration: d}, nil
}

// Tick records one elapsed second.
func (s *State) Tick() {
	s.elapsed++
}

// Duration returns the configured target.
func (s *State) Duration() duration.Duration {
	return s.duration
}

// Elapsed returns the number of ticks observed so far.
func (s *State) Elapsed() int64 {
	return s.elapsed
}

// Remaining returns the signed number of seconds left. It is negative in
// overtime.
func (s *State) Remaining() int64 {
	return s.duration.TotalSeconds() - s.elapsed
}

// IsTimeout reports whether the countdown has run past its target. The
// comparison is strict, so it turns true one tick after the display
// reaches zero and stays true from then on.
func (s *State) IsTimeout() bool {
	return s.elapsed > s.duration.TotalSeconds()
}

// Progress returns the fraction of the target that has elapsed, clamped to
// [0, 1].
func (s *State) Progress() float64 {
	p := float64(s.elapsed) / float64(s.duration.TotalSeconds())
	if p > 1 {
		return 1
	}
	return p
}

// RemainingDisplay renders the remaining time as [-]HH:MM:SS. The sign is
// omitted only while time is strictly left, so zero renders as -00:00:00.
func (s *State) RemainingDisplay() string {
	current := s.Remaining()
	sign := "-"
	if current > 0 {
		sign = ""
	}
	return sign + clock(abs(current))
}

// ElapsedDisplay renders the elapsed time as HH:MM:SS.
func (s *State) ElapsedDisplay() string {
	return clock(s.elapsed)
}

// TotalDurationDisplay renders the elapsed time with a label, for the
// status line.
func (s *State) TotalDurationDisplay() string {
	return "Total duration: " + s.ElapsedDisplay()
}

// Summary describes the configured duration using its components as given.
func (s *State) Summary() string {
	return fmt.Sprintf("Total time: %d Hour %d Minutes %d Seconds",
		s.duration.Hours(), s.duration.Minutes(), s.duration.Seconds())
}

// clock formats seconds as HH:MM:SS. Hours are never truncated.
func clock(seconds int64) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds/60)%60, seconds%60)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
