package staging

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore implements Store with in-process storage. Suitable for a
// single-instance deployment and for tests; multi-instance deployments need
// the Redis store so a callback can land on any instance.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ticker  *time.Ticker
	done    chan struct{}
}

// NewMemoryStore creates an in-memory staging store. A positive
// cleanupInterval starts a background sweep of expired entries.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		done:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		s.ticker = time.NewTicker(cleanupInterval)
		go s.cleanupLoop()
	}
	return s
}

func (s *MemoryStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Consume(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	delete(s.entries, key)

	if time.Now().After(entry.expiresAt) {
		return "", ErrNotFound
	}
	return entry.value, nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Close stops the cleanup loop.
func (s *MemoryStore) Close() {
	if s.ticker != nil {
		s.ticker.Stop()
		close(s.done)
	}
}

func (s *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-s.ticker.C:
			now := time.Now()
			s.mu.Lock()
			for key, entry := range s.entries {
				if now.After(entry.expiresAt) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

var _ Store = (*MemoryStore)(nil)
