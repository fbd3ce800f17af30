package timeslot

import "time"

// DailySlots produces the candidate slots covering the calendar day that
// contains day, at the given granularity. The sequence always begins at local
// midnight and always ends exactly at the next local midnight: when the
// granularity does not divide the day evenly the final slot is clipped short
// rather than overshooting into the next day. The generator is stateless and
// recomputes from scratch on every call.
func DailySlots(day time.Time, granularity time.Duration) []TimeSlot {
	if granularity <= 0 {
		return nil
	}
	dayStart := StartOfDay(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	// Days spanning a DST transition are not 24h long, so the count is
	// derived from the actual bounds instead of a fixed 24h assumption.
	slots := make([]TimeSlot, 0, int(dayEnd.Sub(dayStart)/granularity)+1)
	for cursor := dayStart; cursor.Before(dayEnd); {
		next := cursor.Add(granularity)
		if next.After(dayEnd) {
			next = dayEnd
		}
		slots = append(slots, TimeSlot{start: cursor, end: next})
		cursor = next
	}
	return slots
}

// FilterWithinRange selects slots relative to [rangeStart, rangeEnd] under
// one of two policies. With includeEndSlot a slot is kept when its start
// falls within the range even if it runs past rangeEnd, so the caller gets
// the slot a boundary instant falls into. Without it only fully contained
// slots survive.
func FilterWithinRange(slots []TimeSlot, rangeStart, rangeEnd time.Time, includeEndSlot bool) []TimeSlot {
	filtered := make([]TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if includeEndSlot {
			if !slot.start.Before(rangeStart) && !slot.start.After(rangeEnd) {
				filtered = append(filtered, slot)
			}
			continue
		}
		if !slot.start.Before(rangeStart) && !slot.end.After(rangeEnd) {
			filtered = append(filtered, slot)
		}
	}
	return filtered
}

// StartOfDay returns local midnight of the calendar day containing t.
func StartOfDay(t time.Time) time.Time {
	year, month, dayOfMonth := t.Date()
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, t.Location())
}
