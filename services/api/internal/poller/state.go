package poller

import (
	"sync"
	"time"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"
)

// Snapshot is the normalized model built from one successful fetch. It is
// read-only once published.
type Snapshot struct {
	History   []models.NormalizedEvent
	Current   models.Current
	FetchedAt time.Time
}

// State holds the latest snapshot. Every successful fetch replaces it whole;
// the last fetch to complete wins.
type State struct {
	mu   sync.RWMutex
	snap Snapshot
}

// Snapshot returns the current snapshot. Callers must not modify History.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Ready reports whether at least one fetch has succeeded.
func (s *State) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.snap.FetchedAt.IsZero()
}

func (s *State) replace(snap Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}
