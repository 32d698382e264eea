// Package storage provides in-memory query log storage.
//
// Information Hiding:
// - Slice storage structure hidden from users
// - Thread-safe access via RWMutex hidden behind interface
// - Suitable for testing and --no-history runs

package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryStorage implements QueryLog using an in-memory slice.
// Data is lost when process terminates.
type InMemoryStorage struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewInMemoryStorage creates a new in-memory storage.
func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{}
}

// Record stores an entry.
func (s *InMemoryStorage) Record(ctx context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	s.entries = append(s.entries, entry)
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *InMemoryStorage) Recent(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}

	result := make([]Entry, 0, n)
	for i := len(s.entries) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, s.entries[i])
	}
	return result, nil
}

// Close is a no-op.
func (s *InMemoryStorage) Close() error {
	return nil
}

// Verify InMemoryStorage implements QueryLog
var _ QueryLog = (*InMemoryStorage)(nil)
