package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryKV is an in-process KV with the same observable contract as the
// Postgres backing. Used in tests and single-instance deployments.
type MemoryKV struct {
	mu      sync.Mutex
	entries map[string]Entry
	now     func() time.Time
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		entries: map[string]Entry{},
		now:     time.Now,
	}
}

func (s *MemoryKV) Get(_ context.Context, key string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || !e.ExpiresAt.After(s.now()) {
		delete(s.entries, key)
		return nil, nil
	}
	out := e
	return &out, nil
}

func (s *MemoryKV) Put(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.Key] = e
	return nil
}

func (s *MemoryKV) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	delete(s.entries, key)
	return ok, nil
}

func (s *MemoryKV) DeletePrefix(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			count++
		}
	}
	return count, nil
}
