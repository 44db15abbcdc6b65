package session

import (
	"context"
	"sync"
	"time"

	"github.com/perimetra/console/pkg/apiclient"
)

// MemoryStore implements Store with in-process storage.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ticker   *time.Ticker
	done     chan struct{}
}

// NewMemoryStore creates an in-memory session store. A positive
// cleanupInterval starts a background sweep of expired sessions.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}
	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}
	return store
}

func (m *MemoryStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneSession(session)
	m.sessions[session.Token] = copied
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	m.mu.RLock()
	session, exists := m.sessions[token]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return nil, ErrSessionExpired
	}

	return cloneSession(session), nil
}

func (m *MemoryStore) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *MemoryStore) DeleteExpired(ctx context.Context) error {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	for token, session := range m.sessions {
		if now.After(session.ExpiresAt) {
			delete(m.sessions, token)
		}
	}
	return nil
}

// Close stops the cleanup loop.
func (m *MemoryStore) Close() {
	if m.ticker != nil {
		m.ticker.Stop()
		close(m.done)
	}
}

func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			_ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}

// cloneSession copies a session so callers cannot mutate stored state.
func cloneSession(s *Session) *Session {
	copied := *s
	if s.User != nil {
		user := *s.User
		user.Identities = append([]apiclient.ProviderIdentity(nil), s.User.Identities...)
		copied.User = &user
	}
	return &copied
}

var _ Store = (*MemoryStore)(nil)
