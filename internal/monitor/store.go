package monitor

import (
	"slices"
	"sync/atomic"

	"github.com/aleister1102/livewatch/internal/models"
)

// SnapshotStore holds the most recently published snapshot. Readers never
// block and never observe a partially written cycle.
type SnapshotStore struct {
	current atomic.Pointer[models.Snapshot]
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Current returns the published snapshot. The event slice is a copy, so
// callers may reorder or filter it freely. Before the first publish it
// returns an empty snapshot.
func (s *SnapshotStore) Current() models.Snapshot {
	snap := s.current.Load()
	if snap == nil {
		return models.Snapshot{Events: []models.Event{}}
	}
	return models.Snapshot{
		LastRunUTC: snap.LastRunUTC,
		Events:     slices.Clone(snap.Events),
	}
}

// Publish replaces the current snapshot in a single step.
func (s *SnapshotStore) Publish(snap models.Snapshot) {
	if snap.Events == nil {
		snap.Events = []models.Event{}
	}
	s.current.Store(&snap)
}
