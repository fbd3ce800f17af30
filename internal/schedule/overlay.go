package schedule

import (
	"time"

	"github.com/opencfp/schedule-engine/internal/models"
	"github.com/opencfp/schedule-engine/internal/timeslot"
)

// PendingChange is an unconfirmed slot change for a session: an edit the user
// has requested but the surrounding application has not yet committed.
type PendingChange struct {
	SessionID   string
	Slot        timeslot.TimeSlot
	RequestedAt time.Time
}

// SessionView is the read-side merge of a confirmed session and an optional
// pending change. When a pending change exists its slot wins, so the UI can
// preview the edit before the store confirms it.
type SessionView struct {
	Session models.Session
	Slot    timeslot.TimeSlot
	Pending bool
}

// MergePending overlays a pending change onto a confirmed session.
func MergePending(confirmed models.Session, confirmedSlot timeslot.TimeSlot, pending *PendingChange) SessionView {
	if pending == nil || pending.SessionID != confirmed.ID {
		return SessionView{Session: confirmed, Slot: confirmedSlot}
	}
	return SessionView{Session: confirmed, Slot: pending.Slot, Pending: true}
}
