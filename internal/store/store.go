package store

import (
	"errors"
	"sync"
)

// ErrNotLoaded is returned before the first successful load.
var ErrNotLoaded = errors.New("store: no data loaded yet")

// Store holds the current snapshot. Readers always see a complete snapshot;
// a refresh replaces it in one step.
type Store struct {
	mu       sync.RWMutex
	snapshot *Snapshot
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, ErrNotLoaded
	}
	return s.snapshot, nil
}

// Replace swaps in a new snapshot.
func (s *Store) Replace(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
}

// Loaded reports whether any snapshot is available.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot != nil
}
