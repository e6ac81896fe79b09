// Package handoff carries a just-created chat session from the page that created it
// to the page that displays it, without a second round trip to the API.
//
// The slot is a latency optimization only: the destination always falls back to a
// remote fetch keyed by its route's session id.
package handoff

import (
	"sync"

	"parlor/internal/handoff/models"
)

// Slot holds at most one record. Each Write overwrites the previous one.
type Slot struct {
	mu     sync.Mutex
	record models.Record
	filled bool
}

// NewSlot returns an empty slot.
func NewSlot() *Slot {
	return &Slot{}
}

// Write stores record. It completes before returning so a navigation issued after
// it always observes the record.
func (s *Slot) Write(record models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = record
	s.filled = true
}

// ReadAndClear returns the stored record and empties the slot.
func (s *Slot) ReadAndClear() (models.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.filled {
		return models.Record{}, false
	}
	record := s.record
	s.record = models.Record{}
	s.filled = false
	return record, true
}

// Clear empties the slot.
func (s *Slot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = models.Record{}
	s.filled = false
}
