package duration

import (
	"math"
	"strings"

	"github.com/felixgeelhaar/countdown/internal/errors"
)

// unit identifies which Duration field a block assigns.
type unit int

const (
	unitHour unit = iota
	unitMinute
	unitSecond
)

func (u unit) String() string {
	switch u {
	case unitHour:
		return "h"
	case unitMinute:
		return "m"
	default:
		return "s"
	}
}

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenUnit
)

// token is either a number or a unit; only the field matching kind is set.
type token struct {
	kind  tokenKind
	value int
	unit  unit
}

// maxComponent caps digit accumulation so absurdly long numbers saturate
// instead of overflowing. Anything this large fails the range check anyway.
const maxComponent = math.MaxInt32

// Parse converts a compact duration string such as "1h15m30s" into a
// validated Duration. Units are case-insensitive, may appear in any order,
// and each at most once.
func Parse(input string) (Duration, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return Duration{}, err
	}

	d, err := assemble(tokens, input)
	if err != nil {
		return Duration{}, err
	}

	if err := d.Validate(); err != nil {
		return Duration{}, err
	}
	return d, nil
}

func tokenize(input string) ([]token, error) {
	var (
		tokens   []token
		num      int
		sawDigit bool
	)

	for _, c := range strings.TrimSpace(input) {
		if c >= '0' && c <= '9' {
			if num <= (maxComponent-9)/10 {
				num = num*10 + int(c-'0')
			} else {
				num = maxComponent
			}
			sawDigit = true
			continue
		}

		u, ok := unitFor(c)
		if !ok {
			return nil, errors.NewUnknownCharError(c, input)
		}
		if sawDigit {
			tokens = append(tokens, token{kind: tokenNumber, value: num})
		}
		tokens = append(tokens, token{kind: tokenUnit, unit: u})
		num, sawDigit = 0, false
	}

	if sawDigit {
		tokens = append(tokens, token{kind: tokenNumber, value: num})
	}
	return tokens, nil
}

func unitFor(c rune) (unit, bool) {
	switch c {
	case 'h', 'H':
		return unitHour, true
	case 'm', 'M':
		return unitMinute, true
	case 's', 'S':
		return unitSecond, true
	}
	return 0, false
}

// assemble walks the token stream with a single pending-number slot. Only
// the range check is left to the caller.
func assemble(tokens []token, input string) (Duration, error) {
	var (
		d          Duration
		seen       [3]bool
		pending    int
		hasPending bool
	)

	for _, tok := range tokens {
		switch tok.kind {
		case tokenNumber:
			pending, hasPending = tok.value, true

		case tokenUnit:
			if !hasPending {
				return Duration{}, errors.NewMissingNumberError(tok.unit.String())
			}
			if seen[tok.unit] {
				return Duration{}, errors.NewDuplicateUnitError()
			}
			seen[tok.unit] = true

			switch tok.unit {
			case unitHour:
				d.hours = pending
			case unitMinute:
				d.minutes = pending
			case unitSecond:
				d.seconds = pending
			}
			hasPending = false
		}
	}

	if hasPending {
		return Duration{}, errors.NewMissingUnitError(pending, input)
	}
	if d.IsZero() {
		return Duration{}, errors.NewZeroDurationError()
	}
	return d, nil
}
