package models

import "time"

// Session is a talk placed on a track. The engine validates its placement and
// answers interval queries; creation, persistence and the talk payload itself
// belong to the surrounding application.
type Session struct {
	ID       string    `json:"id"`
	TrackID  string    `json:"track_id"`
	TalkID   string    `json:"talk_id"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// SessionConflict identifies an already placed session that collides with a
// requested placement.
type SessionConflict struct {
	SessionID string    `json:"session_id"`
	TrackID   string    `json:"track_id"`
	TalkID    string    `json:"talk_id"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
}

// SessionConflictError is returned when a placement or move would double-book
// a track. It carries every conflicting session so callers can surface
// "conflicts with session X" rather than a generic rejection.
type SessionConflictError struct {
	TrackID   string            `json:"track_id"`
	Message   string            `json:"message"`
	Conflicts []SessionConflict `json:"conflicts"`
}

// Error implements the error interface for conflict errors.
func (e *SessionConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// ConflictIDs lists the ids of the sessions blocking the placement.
func (e *SessionConflictError) ConflictIDs() []string {
	ids := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		ids = append(ids, c.SessionID)
	}
	return ids
}
