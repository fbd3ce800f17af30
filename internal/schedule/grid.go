// Package schedule holds the in-memory scheduling grid (tracks crossed with
// placed sessions) and the display-window derivation used by the read side.
// The grid is a per-edit aggregate: callers hydrate it from a consistent read
// of the stored sessions, apply one edit, and commit the outcome themselves.
package schedule

import (
	"fmt"
	"sort"

	"github.com/opencfp/schedule-engine/internal/models"
	"github.com/opencfp/schedule-engine/internal/timeslot"
	appErrors "github.com/opencfp/schedule-engine/pkg/errors"
)

type placement struct {
	session models.Session
	slot    timeslot.TimeSlot
}

// Grid is the scheduling aggregate. It owns the track-to-session placement
// map for the duration of an edit and never mutates shared state.
type Grid struct {
	sessions map[string]placement
	byTrack  map[string][]string
}

// NewGrid returns an empty grid.
func NewGrid() *Grid {
	return &Grid{
		sessions: make(map[string]placement),
		byTrack:  make(map[string][]string),
	}
}

// Hydrate builds a grid from stored session records, enforcing slot validity
// and the same-track non-overlap invariant. A stored state violating either
// is surfaced as an error rather than silently repaired.
func Hydrate(records []models.Session) (*Grid, error) {
	grid := NewGrid()
	for _, record := range records {
		slot, err := timeslot.New(record.StartsAt, record.EndsAt)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidSlot.Code, appErrors.ErrInvalidSlot.Status,
				fmt.Sprintf("stored session %s has invalid bounds", record.ID))
		}
		if err := grid.place(record, slot); err != nil {
			return nil, err
		}
	}
	return grid, nil
}

// PlaceSession adds a session to a track, rejecting it when the slot overlaps
// any session already on that track. Sessions on other tracks are ignored.
func (g *Grid) PlaceSession(trackID string, slot timeslot.TimeSlot, sessionID string) error {
	if _, exists := g.sessions[sessionID]; exists {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("session %s is already placed", sessionID))
	}
	return g.place(models.Session{ID: sessionID, TrackID: trackID, StartsAt: slot.Start(), EndsAt: slot.End()}, slot)
}

// PlaceSessionRecord places a full session record, keeping its payload.
func (g *Grid) PlaceSessionRecord(record models.Session, slot timeslot.TimeSlot) error {
	if _, exists := g.sessions[record.ID]; exists {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("session %s is already placed", record.ID))
	}
	return g.place(record, slot)
}

// MoveSession revalidates a session against all other sessions on its track
// and, on success, replaces its slot. The session being moved is excluded
// from the overlap check so an unchanged position always succeeds.
func (g *Grid) MoveSession(sessionID string, newSlot timeslot.TimeSlot) error {
	current, ok := g.sessions[sessionID]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("session %s not found", sessionID))
	}
	if err := g.checkOverlap(current.session.TrackID, newSlot, sessionID); err != nil {
		return err
	}
	current.slot = newSlot
	current.session.StartsAt = newSlot.Start()
	current.session.EndsAt = newSlot.End()
	g.sessions[sessionID] = current
	return nil
}

// RemoveSession deletes a placement. A second removal of the same id fails
// with not-found so callers can detect stale references.
func (g *Grid) RemoveSession(sessionID string) error {
	current, ok := g.sessions[sessionID]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("session %s not found", sessionID))
	}
	delete(g.sessions, sessionID)
	trackID := current.session.TrackID
	ids := g.byTrack[trackID]
	for i, id := range ids {
		if id == sessionID {
			g.byTrack[trackID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// SessionsOverlapping returns every session on the track whose interval
// overlaps the query slot, ordered by start. The rendering side uses this to
// compute visual column stacking for simultaneous sessions.
func (g *Grid) SessionsOverlapping(slot timeslot.TimeSlot, trackID string) []models.Session {
	var overlapping []models.Session
	for _, id := range g.byTrack[trackID] {
		p := g.sessions[id]
		if p.slot.Overlaps(slot) {
			overlapping = append(overlapping, p.session)
		}
	}
	sortSessions(overlapping)
	return overlapping
}

// Session returns a placed session by id.
func (g *Grid) Session(sessionID string) (models.Session, bool) {
	p, ok := g.sessions[sessionID]
	if !ok {
		return models.Session{}, false
	}
	return p.session, true
}

// SessionSlot returns the placed slot for a session id.
func (g *Grid) SessionSlot(sessionID string) (timeslot.TimeSlot, bool) {
	p, ok := g.sessions[sessionID]
	if !ok {
		return timeslot.TimeSlot{}, false
	}
	return p.slot, true
}

// TrackSessions returns the sessions on a track ordered by start.
func (g *Grid) TrackSessions(trackID string) []models.Session {
	sessions := make([]models.Session, 0, len(g.byTrack[trackID]))
	for _, id := range g.byTrack[trackID] {
		sessions = append(sessions, g.sessions[id].session)
	}
	sortSessions(sessions)
	return sessions
}

// Len returns the number of placed sessions.
func (g *Grid) Len() int { return len(g.sessions) }

func (g *Grid) place(record models.Session, slot timeslot.TimeSlot) error {
	if err := g.checkOverlap(record.TrackID, slot, ""); err != nil {
		return err
	}
	g.sessions[record.ID] = placement{session: record, slot: slot}
	g.byTrack[record.TrackID] = append(g.byTrack[record.TrackID], record.ID)
	return nil
}

// checkOverlap collects every session on the track overlapping slot,
// excluding excludeID (the session being moved).
func (g *Grid) checkOverlap(trackID string, slot timeslot.TimeSlot, excludeID string) error {
	var conflicts []models.SessionConflict
	for _, id := range g.byTrack[trackID] {
		if id == excludeID {
			continue
		}
		p := g.sessions[id]
		if p.slot.Overlaps(slot) {
			conflicts = append(conflicts, models.SessionConflict{
				SessionID: p.session.ID,
				TrackID:   p.session.TrackID,
				TalkID:    p.session.TalkID,
				StartsAt:  p.session.StartsAt,
				EndsAt:    p.session.EndsAt,
			})
		}
	}
	if len(conflicts) == 0 {
		return nil
	}
	conflictErr := &models.SessionConflictError{
		TrackID:   trackID,
		Message:   fmt.Sprintf("slot %s overlaps %d session(s) on track %s", slot, len(conflicts), trackID),
		Conflicts: conflicts,
	}
	return appErrors.Wrap(conflictErr, appErrors.ErrOverlap.Code, appErrors.ErrOverlap.Status, conflictErr.Message)
}

func sortSessions(sessions []models.Session) {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].StartsAt.Equal(sessions[j].StartsAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].StartsAt.Before(sessions[j].StartsAt)
	})
}
