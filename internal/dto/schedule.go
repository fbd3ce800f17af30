// Package dto defines the request and response payloads exchanged with the
// scheduling service.
package dto

import (
	"time"

	"github.com/opencfp/schedule-engine/internal/models"
	"github.com/opencfp/schedule-engine/internal/schedule"
	"github.com/opencfp/schedule-engine/internal/timeslot"
)

// PlaceSessionRequest asks for a talk to be placed on a track. SessionID is
// optional; the service mints one when absent.
type PlaceSessionRequest struct {
	EventID   string    `json:"event_id" validate:"required"`
	TrackID   string    `json:"track_id" validate:"required"`
	SessionID string    `json:"session_id"`
	TalkID    string    `json:"talk_id"`
	StartsAt  time.Time `json:"starts_at" validate:"required"`
	EndsAt    time.Time `json:"ends_at" validate:"required"`
}

// MoveSessionRequest asks for an existing session to change slot.
type MoveSessionRequest struct {
	EventID   string    `json:"event_id" validate:"required"`
	SessionID string    `json:"session_id" validate:"required"`
	StartsAt  time.Time `json:"starts_at" validate:"required"`
	EndsAt    time.Time `json:"ends_at" validate:"required"`
}

// RemoveSessionRequest asks for a session to be unscheduled.
type RemoveSessionRequest struct {
	EventID   string `json:"event_id" validate:"required"`
	SessionID string `json:"session_id" validate:"required"`
}

// PlacementResult reports a validated edit for the caller to commit.
type PlacementResult struct {
	Session models.Session `json:"session"`
	Pending bool           `json:"pending"`
}

// DayViewRequest selects the days and granularity to render. DayStart and
// DayEnd are ordinals into the event's schedulable day list; a nil DayEnd
// renders a single day.
type DayViewRequest struct {
	EventID             string        `json:"event_id" validate:"required"`
	DayStart            int           `json:"day_start" validate:"min=0"`
	DayEnd              *int          `json:"day_end"`
	Granularity         time.Duration `json:"granularity"`
	IncludeBoundarySlot bool          `json:"include_boundary_slot"`
}

// TrackView groups the rendered sessions of one track. Blocks cluster the
// sessions that sit close enough together to draw as one visual unit.
type TrackView struct {
	Track    models.Track             `json:"track"`
	Sessions []schedule.SessionView   `json:"sessions"`
	Blocks   [][]schedule.SessionView `json:"blocks,omitempty"`
}

// DayView is one rendered day: its candidate slots clipped to the displayed
// minute window plus the sessions of every track.
type DayView struct {
	Day    time.Time           `json:"day"`
	Slots  []timeslot.TimeSlot `json:"slots"`
	Tracks []TrackView         `json:"tracks"`
}

// ScheduleView is the read model for the rendering collaborator.
type ScheduleView struct {
	EventID      string    `json:"event_id"`
	Days         []DayView `json:"days"`
	StartMinute  int       `json:"start_minute"`
	EndMinute    int       `json:"end_minute"`
	TotalDays    int       `json:"total_days"`
	PendingEdits int       `json:"pending_edits"`
}
