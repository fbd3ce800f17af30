// Package timeslot implements the interval arithmetic behind the event
// scheduling grid: half-open time slots, overlap and containment tests, and
// candidate slot generation at a fixed granularity.
package timeslot

import (
	"encoding/json"
	"fmt"
	"time"

	appErrors "github.com/opencfp/schedule-engine/pkg/errors"
)

// DefaultLookaheadSlots bounds how far ahead of a reference slot a later slot
// may start while still counting as part of the same visual block. Tunable via
// config; the value is a UX choice, not an interval-math one.
const DefaultLookaheadSlots = 20

// TimeSlot is an immutable half-open interval [Start, End). Two slots where
// one ends exactly when the other starts are adjacent, not overlapping.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

// New constructs a slot, rejecting zero-length and inverted intervals.
func New(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, appErrors.Clone(appErrors.ErrInvalidSlot,
			fmt.Sprintf("slot start %s must be before end %s", start.Format(time.RFC3339), end.Format(time.RFC3339)))
	}
	return TimeSlot{start: start, end: end}, nil
}

// MustNew constructs a slot and panics on invalid bounds. Intended for
// fixtures and literals whose validity is evident at the call site.
func MustNew(start, end time.Time) TimeSlot {
	s, err := New(start, end)
	if err != nil {
		panic(err)
	}
	return s
}

// Start returns the inclusive lower bound.
func (s TimeSlot) Start() time.Time { return s.start }

// End returns the exclusive upper bound.
func (s TimeSlot) End() time.Time { return s.end }

// Duration returns the slot length.
func (s TimeSlot) Duration() time.Duration { return s.end.Sub(s.start) }

// IsZero reports whether the slot is the uninitialised zero value.
func (s TimeSlot) IsZero() bool { return s.start.IsZero() && s.end.IsZero() }

// Equal reports structural equality: same start and same end instant.
func (s TimeSlot) Equal(other TimeSlot) bool {
	return s.start.Equal(other.start) && s.end.Equal(other.end)
}

// IsAfter reports whether s starts strictly after other. It establishes the
// canonical ordering used to orient Merge.
func (s TimeSlot) IsAfter(other TimeSlot) bool {
	return s.start.After(other.start)
}

// StartsSameInstant reports whether both slots begin at the same instant.
func (s TimeSlot) StartsSameInstant(other TimeSlot) bool {
	return s.start.Equal(other.start)
}

// Overlaps reports whether the two half-open intervals share at least one
// instant. Adjacency is not overlap. The test is symmetric.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.start.Before(other.end) && other.start.Before(s.end)
}

// ShiftStart returns a slot of the same duration beginning at newStart.
func (s TimeSlot) ShiftStart(newStart time.Time) TimeSlot {
	return TimeSlot{start: newStart, end: newStart.Add(s.Duration())}
}

// DurationInSlots returns how many whole granularity units fit into the slot.
// A partial trailing unit is truncated, not rounded.
func (s TimeSlot) DurationInSlots(granularity time.Duration) int {
	if granularity <= 0 {
		return 0
	}
	return int(s.Duration() / granularity)
}

// MarshalJSON renders the slot bounds for read-side payloads.
func (s TimeSlot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	}{Start: s.start, End: s.end})
}

// UnmarshalJSON rebuilds a slot, enforcing the construction invariant.
func (s *TimeSlot) UnmarshalJSON(data []byte) error {
	var raw struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	slot, err := New(raw.Start, raw.End)
	if err != nil {
		return err
	}
	*s = slot
	return nil
}

// String renders the slot for logs and error messages.
func (s TimeSlot) String() string {
	return fmt.Sprintf("[%s, %s)", s.start.Format(time.RFC3339), s.end.Format(time.RFC3339))
}

// Contains reports whether inner lies entirely within outer. An absent (nil)
// outer window contains nothing.
func Contains(outer *TimeSlot, inner TimeSlot) bool {
	if outer == nil {
		return false
	}
	return !inner.start.Before(outer.start) && !inner.end.After(outer.end)
}

// WithinLookahead reports whether next falls entirely inside the window
// stretching from the reference slot's start to windowSlots granularity units
// past its end. windowSlots <= 0 falls back to DefaultLookaheadSlots.
func WithinLookahead(ref, next TimeSlot, granularity time.Duration, windowSlots int) bool {
	if granularity <= 0 {
		return false
	}
	if windowSlots <= 0 {
		windowSlots = DefaultLookaheadSlots
	}
	window := TimeSlot{
		start: ref.start,
		end:   ref.end.Add(granularity * time.Duration(windowSlots)),
	}
	return Contains(&window, next)
}

// Merge combines two slots that are known to belong together into their
// convex hull, oriented by IsAfter so argument order does not matter. Slots
// that are neither adjacent nor overlapping are rejected: a hull spanning a
// gap would silently cover unrelated time.
func Merge(a, b TimeSlot) (TimeSlot, error) {
	if !a.Overlaps(b) && !a.end.Equal(b.start) && !b.end.Equal(a.start) {
		return TimeSlot{}, appErrors.Clone(appErrors.ErrDisjointSlots,
			fmt.Sprintf("cannot merge disjoint slots %s and %s", a, b))
	}
	return mergeHull(a, b), nil
}

// mergeHull builds the convex hull without precondition checks. Callers must
// have already established that a and b are adjacent or overlapping.
func mergeHull(a, b TimeSlot) TimeSlot {
	if a.IsAfter(b) {
		return TimeSlot{start: b.start, end: maxTime(a.end, b.end)}
	}
	return TimeSlot{start: a.start, end: maxTime(a.end, b.end)}
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
