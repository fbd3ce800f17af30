package schedule

import (
	"fmt"
	"time"

	appErrors "github.com/opencfp/schedule-engine/pkg/errors"
)

const lastMinuteOfDay = 1439

// Window is the display window: the event's full span plus the narrower
// day-range and minute-of-day range the UI currently renders.
type Window struct {
	EventStart         time.Time
	EventEnd           time.Time
	DisplayStart       time.Time
	DisplayEnd         time.Time
	DisplayStartMinute int
	DisplayEndMinute   int
}

// NewWindow validates the window invariants at the construction boundary so
// downstream reads do not have to re-check them.
func NewWindow(eventStart, eventEnd, displayStart, displayEnd time.Time, startMinute, endMinute int) (Window, error) {
	if !eventStart.Before(eventEnd) {
		return Window{}, appErrors.Clone(appErrors.ErrValidation, "event start must be before event end")
	}
	if displayStart.Before(eventStart) || displayEnd.After(eventEnd) {
		return Window{}, appErrors.Clone(appErrors.ErrValidation, "display window must lie within the event span")
	}
	if startMinute < 0 || endMinute > lastMinuteOfDay || startMinute >= endMinute {
		return Window{}, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("display minutes %d..%d must satisfy 0 <= start < end <= %d", startMinute, endMinute, lastMinuteOfDay))
	}
	return Window{
		EventStart:         eventStart,
		EventEnd:           eventEnd,
		DisplayStart:       displayStart,
		DisplayEnd:         displayEnd,
		DisplayStartMinute: startMinute,
		DisplayEndMinute:   endMinute,
	}, nil
}

// MinuteWindow returns the rendered minute-of-day bounds. The start < end
// invariant was checked when the window was built.
func (w Window) MinuteWindow() (int, int) {
	return w.DisplayStartMinute, w.DisplayEndMinute
}

// ScheduleDays lists local midnight for every calendar day from eventStart's
// day through eventEnd's day inclusive. Days are advanced by calendar-day
// construction rather than 24h addition, so the walk stays aligned to local
// midnight across DST transitions.
func ScheduleDays(eventStart, eventEnd time.Time, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.UTC
	}
	start := eventStart.In(loc)
	end := eventEnd.In(loc)
	if end.Before(start) {
		return nil
	}

	var days []time.Time
	cursor := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	for !afterCalendarDay(cursor, end) {
		days = append(days, cursor)
		cursor = time.Date(cursor.Year(), cursor.Month(), cursor.Day()+1, 0, 0, 0, 0, loc)
	}
	return days
}

// DayRange selects a sub-range of an ordered day list by day ordinal. A nil
// End means a single-day view at Start.
type DayRange struct {
	Start int
	End   *int
}

// Validate rejects ordinals outside the day list.
func (r DayRange) Validate(total int) error {
	if r.Start < 0 || r.Start >= total {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("day index %d out of range 0..%d", r.Start, total-1))
	}
	if r.End != nil {
		if *r.End < r.Start || *r.End >= total {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("day index %d out of range %d..%d", *r.End, r.Start, total-1))
		}
	}
	return nil
}

// DisplayedDays returns the slice of allDays addressed by the range.
func DisplayedDays(allDays []time.Time, dayRange DayRange) ([]time.Time, error) {
	if err := dayRange.Validate(len(allDays)); err != nil {
		return nil, err
	}
	end := dayRange.Start
	if dayRange.End != nil {
		end = *dayRange.End
	}
	return allDays[dayRange.Start : end+1], nil
}

func afterCalendarDay(t, reference time.Time) bool {
	ty, tm, td := t.Date()
	ry, rm, rd := reference.Date()
	if ty != ry {
		return ty > ry
	}
	if tm != rm {
		return tm > rm
	}
	return td > rd
}
