// Package memory provides the in-memory audit store used by tests and
// single-process deployments.
package memory

import (
	"context"
	"sync"

	"bilan/internal/audit"
)

// Store keeps per-artifact event histories in memory. Appends hold the lock
// for the full read-modify-write, so the per-artifact serialization the
// audit log documents is satisfied within a single process.
type Store struct {
	mu     sync.RWMutex
	events map[string][]audit.Event
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{events: make(map[string][]audit.Event)}
}

// Append adds an event to the artifact's history.
func (s *Store) Append(_ context.Context, artifactID string, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[artifactID] = append(s.events[artifactID], event)
	return nil
}

// ListByArtifact returns a copy of the artifact's history in append order.
func (s *Store) ListByArtifact(_ context.Context, artifactID string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[artifactID]...), nil
}

// Clear drops all histories. Test helper.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[string][]audit.Event)
}
