// Package duration parses and validates the compact countdown duration
// format ("1h15m30s") into an immutable Duration value.
package duration

import (
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/countdown/internal/errors"
)

// MaxSeconds is the longest countdown accepted (24 hours).
const MaxSeconds = 24 * 60 * 60

// Duration is a validated countdown length. Components are kept exactly as
// given, so 90 minutes stays 90 minutes rather than becoming 1h30m.
type Duration struct {
	hours   int
	minutes int
	seconds int
}

// New builds a Duration from its components and validates it.
func New(hours, minutes, seconds int) (Duration, error) {
	switch {
	case hours < 0:
		return Duration{}, errors.NewNegativeComponentError("hours", hours)
	case minutes < 0:
		return Duration{}, errors.NewNegativeComponentError("minutes", minutes)
	case seconds < 0:
		return Duration{}, errors.NewNegativeComponentError("seconds", seconds)
	}

	d := Duration{hours: hours, minutes: minutes, seconds: seconds}
	if err := d.Validate(); err != nil {
		return Duration{}, err
	}
	return d, nil
}

// MustNew is like New but panics if the components are invalid.
func MustNew(hours, minutes, seconds int) Duration {
	d, err := New(hours, minutes, seconds)
	if err != nil {
		panic(err)
	}
	return d
}

// Hours returns the hours component as parsed.
func (d Duration) Hours() int { return d.hours }

// Minutes returns the minutes component as parsed.
func (d Duration) Minutes() int { return d.minutes }

// Seconds returns the seconds component as parsed.
func (d Duration) Seconds() int { return d.seconds }

// TotalSeconds returns (hours*60 + minutes)*60 + seconds.
func (d Duration) TotalSeconds() int64 {
	return (int64(d.hours)*60+int64(d.minutes))*60 + int64(d.seconds)
}

// IsZero reports whether the duration totals zero seconds.
func (d Duration) IsZero() bool {
	return d.TotalSeconds() == 0
}

// Validate checks 0 < TotalSeconds() <= MaxSeconds.
func (d Duration) Validate() error {
	total := d.TotalSeconds()
	if total == 0 {
		return errors.NewZeroDurationError()
	}
	if total > MaxSeconds {
		return errors.NewDurationOutOfRangeError(total)
	}
	return nil
}

// Std converts the duration to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d.TotalSeconds()) * time.Second
}

// String returns the compact form, omitting zero components ("1h15m").
func (d Duration) String() string {
	if d.IsZero() {
		return "0s"
	}

	var b strings.Builder
	for _, part := range []struct {
		value int
		unit  byte
	}{
		{d.hours, 'h'},
		{d.minutes, 'm'},
		{d.seconds, 's'},
	} {
		if part.value == 0 {
			continue
		}
		b.WriteString(strconv.Itoa(part.value))
		b.WriteByte(part.unit)
	}
	return b.String()
}
