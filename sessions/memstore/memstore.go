package memstore

import (
	"context"
	"sync"

	"github.com/d-madiou/job-board-client/sessions"
)

var _ sessions.Storage = (*Storage)(nil)

// Storage is an in-memory sessions.Storage.
type Storage struct {
	mu      sync.RWMutex
	entries map[string]string
}

// New creates an empty in-memory storage
func New() *Storage {
	return &Storage{
		entries: make(map[string]string),
	}
}

func (s *Storage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *Storage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = value
	return nil
}

func (s *Storage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Len returns the number of stored entries.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
