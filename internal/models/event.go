package models

import "time"

// Event carries the schedule-relevant subset of a conference event: its full
// span, the event-local timezone name, and the minute-of-day window the
// schedule UI currently renders. All instants entering the engine are assumed
// already normalised to the event timezone.
type Event struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	Timezone           string    `json:"timezone"`
	DisplayStartMinute int       `json:"display_start_minute"`
	DisplayEndMinute   int       `json:"display_end_minute"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Track is a parallel scheduling lane (typically a room). Sessions on the
// same track must not overlap; sessions on different tracks may.
type Track struct {
	ID       string `json:"id"`
	EventID  string `json:"event_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}
