// Package state holds the per-device ephemeral memory of each event
// handler. Records live for the process lifetime only; durability across
// restarts is explicitly not provided.
package state

import "sync"

// Store maps deviceID to one handler's record type. Each handler owns its
// own Store, so records of different handlers never interact. Safe for
// concurrent use across devices.
type Store[T any] struct {
	mu      sync.RWMutex
	records map[int64]T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{records: make(map[int64]T)}
}

func (s *Store[T]) Get(deviceID int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[deviceID]
	return rec, ok
}

func (s *Store[T]) Put(deviceID int64, rec T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[deviceID] = rec
}

func (s *Store[T]) Delete(deviceID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, deviceID)
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
