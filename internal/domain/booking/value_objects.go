package booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimeSlot = errors.New("start time must be before end time")
	ErrStartInPast     = errors.New("start time cannot be in the past")
	ErrNegativeAmount  = errors.New("amount cannot be negative")
)

// TimeSlot is the half-open interval [start, end) a booking claims.
// Times are normalized to UTC with second precision, which is the
// form interval comparisons are performed in everywhere.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	start = Normalize(start)
	end = Normalize(end)

	if !start.Before(end) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}

	return TimeSlot{start: start, end: end}, nil
}

// Normalize converts a timestamp to the persisted form: UTC, second precision.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

// Overlaps implements the half-open overlap test:
// existing.start < new.end AND existing.end > new.start.
func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && ts.end.After(other.start)
}

func (ts TimeSlot) ValidateNotPast(now time.Time) error {
	if ts.start.Before(Normalize(now)) {
		return ErrStartInPast
	}
	return nil
}

func (ts TimeSlot) String() string {
	return fmt.Sprintf("[%s,%s)", ts.start.Format(time.RFC3339), ts.end.Format(time.RFC3339))
}

// Money is an amount in the deployment currency's minor units (cents).
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Multiply(factor int64) Money {
	return Money{cents: m.cents * factor}
}
