// Package store holds the most recent price snapshot for concurrent access.
package store

import (
	"sync/atomic"

	"github.com/andygrunwald/tanker-exporter/internal/models"
)

// Store hands the latest snapshot from the refresh loop to the HTTP scrape
// handlers. The snapshot is an immutable value behind an atomically swapped
// pointer, so readers never block the writer and never see a partial update.
type Store struct {
	current atomic.Pointer[models.Snapshot]
}

// New creates an empty Store. Until the first Write, Read returns the empty
// snapshot sentinel.
func New() *Store {
	return &Store{}
}

// Read returns the latest committed snapshot. Non-blocking.
func (s *Store) Read() models.Snapshot {
	snap := s.current.Load()
	if snap == nil {
		return models.Snapshot{}
	}
	return *snap
}

// Write atomically replaces the current snapshot. The caller must not modify
// the snapshot's contents after passing it in.
func (s *Store) Write(snap models.Snapshot) {
	s.current.Store(&snap)
}
