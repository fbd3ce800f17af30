package service

import (
	"sync"
	"time"

	"github.com/opencfp/schedule-engine/internal/schedule"
)

// draftStore holds validated-but-uncommitted schedule edits keyed by session
// id so read-side views can preview them. Drafts expire after the configured
// TTL; expired entries are dropped on read and skipped by Len.
type draftStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]schedule.PendingChange
}

func newDraftStore(ttl time.Duration) *draftStore {
	return &draftStore{
		ttl:   ttl,
		items: make(map[string]schedule.PendingChange),
	}
}

func (s *draftStore) Save(change schedule.PendingChange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[change.SessionID] = change
}

func (s *draftStore) Get(sessionID string) (schedule.PendingChange, bool) {
	s.mu.RLock()
	change, ok := s.items[sessionID]
	s.mu.RUnlock()
	if !ok {
		return schedule.PendingChange{}, false
	}
	if time.Since(change.RequestedAt) > s.ttl {
		s.Delete(sessionID)
		return schedule.PendingChange{}, false
	}
	return change, true
}

func (s *draftStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.items, sessionID)
	s.mu.Unlock()
}

func (s *draftStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, change := range s.items {
		if time.Since(change.RequestedAt) <= s.ttl {
			n++
		}
	}
	return n
}
