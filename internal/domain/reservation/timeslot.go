package reservation

import (
	"errors"
	"time"
)

var ErrInvalidTimeSlot = errors.New("start time must be before end time")

// TimeSlot is a validated half-open interval [start, end).
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return TimeSlot{start: start, end: end}, nil
}

func (ts TimeSlot) Start() time.Time        { return ts.start }
func (ts TimeSlot) End() time.Time          { return ts.end }
func (ts TimeSlot) Duration() time.Duration { return ts.end.Sub(ts.start) }

func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return overlaps(ts.start, ts.end, other.start, other.end)
}

// Overlaps reports whether a and b share any instant. Adjacent slots do not overlap.
func Overlaps(a, b TimeSlot) bool {
	return a.Overlaps(b)
}

// Window is the user's candidate span. Either bound may still be unset (zero).
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) IsComplete() bool {
	return !w.Start.IsZero() && !w.End.IsZero()
}

func (w Window) Overlaps(ts TimeSlot) bool {
	return overlaps(w.Start, w.End, ts.start, ts.end)
}

func overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}
