// Package store provides TokenStore adapters: a Redis client for shared
// deployments and an in-process TTL map for tests and single-node use.
package store

import (
	"context"
	"sync"
	"time"

	authflow "github.com/hakbeom/go-authflow"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is an in-process TokenStore with per-key TTLs. Expiry is lazy:
// records are dropped when read past their deadline. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: map[string]memoryEntry{},
		now:     time.Now,
	}
}

// WithClock injects a custom clock (useful for TTL tests).
func (s *MemoryStore) WithClock(clock func() time.Time) *MemoryStore {
	if clock != nil {
		s.now = clock
	}
	return s
}

// Set stores value under key, overwriting any previous value and resetting
// its TTL.
func (s *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

// Get returns the live value for key or authflow.ErrRecordNotFound.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveValue(key)
}

// GetDel atomically returns the live value for key and removes it. A second
// caller observes authflow.ErrRecordNotFound.
func (s *MemoryStore) GetDel(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	value, err := s.liveValue(key)
	if err != nil {
		return "", err
	}

	delete(s.entries, key)
	return value, nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// liveValue must be called with the mutex held.
func (s *MemoryStore) liveValue(key string) (string, error) {
	entry, ok := s.entries[key]
	if !ok {
		return "", authflow.ErrRecordNotFound
	}

	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return "", authflow.ErrRecordNotFound
	}

	return entry.value, nil
}

var _ authflow.TokenStore = (*MemoryStore)(nil)
