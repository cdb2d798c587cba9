package store

import (
	"context"
	"sync"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Put stores a copy of rec.
func (s *MemoryStore) Put(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[rec.ImportID]; ok {
		return ErrAlreadyExists
	}
	s.records[rec.ImportID] = *rec
	return nil
}

// Get returns a copy of the record with the given id.
func (s *MemoryStore) Get(_ context.Context, importID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[importID]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}
