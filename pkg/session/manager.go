package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/perimetra/console/pkg/apiclient"
	"github.com/perimetra/console/pkg/logger"
)

// Manager is the single owner of Session state. All materialization and
// teardown goes through it.
type Manager struct {
	store     Store
	transport Transport
	config    Config
	logger    *slog.Logger
}

// Option configures a Manager during construction.
type Option func(*Manager)

// WithStore sets the session store.
func WithStore(store Store) Option {
	return func(m *Manager) { m.store = store }
}

// WithTransport sets the token transport.
func WithTransport(t Transport) Option {
	return func(m *Manager) { m.transport = t }
}

// WithConfig sets the session configuration.
func WithConfig(cfg Config) Option {
	return func(m *Manager) { m.config = cfg }
}

// WithLogger configures the logger for the manager.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a session manager. A store and transport are required;
// the memory store is the default store.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.store == nil {
		m.store = NewMemoryStore(m.config.CleanupInterval)
	}
	if m.transport == nil {
		panic("session: transport is required")
	}
	return m
}

// Materialize is the single write path into Session. It takes a complete
// exchange outcome, persists the session atomically, and hands the browser
// its token. A missing access token or user is rejected before anything is
// written, so no partial session is ever observable.
func (m *Manager) Materialize(ctx context.Context, w http.ResponseWriter, accessToken string, user *apiclient.UserProfile) (*Session, error) {
	if accessToken == "" || user == nil {
		return nil, ErrIncompleteOutcome
	}

	token, err := generateToken()
	if err != nil {
		return nil, errors.Join(ErrTokenGeneration, err)
	}

	now := time.Now()
	session := &Session{
		ID:          uuid.New(),
		Token:       token,
		AccessToken: accessToken,
		User:        user,
		CreatedAt:   now,
		ExpiresAt:   now.Add(m.sessionTTL(accessToken)),
	}

	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}

	if err := m.transport.SetToken(w, token, time.Until(session.ExpiresAt)); err != nil {
		// Keep store and cookie consistent: a session the browser never
		// learned about is useless and would linger until expiry.
		_ = m.store.Delete(ctx, token)
		return nil, err
	}

	m.logger.InfoContext(ctx, "session materialized",
		logger.Component("session"),
		logger.UserID(user.ID),
	)
	return session, nil
}

// Current resolves the request's session. Invalid or expired sessions are
// indistinguishable from absent ones to the caller.
func (m *Manager) Current(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.transport.GetToken(r)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	session, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if !session.IsAuthenticated() {
		// A stored partial session means a bug in the write path; treat it
		// as absent rather than exposing it.
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Logout is the symmetric teardown path: it removes the stored session and
// expires the browser cookie.
func (m *Manager) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	token, err := m.transport.GetToken(r)
	if err != nil {
		// No session to tear down; still clear any stale cookie.
		_ = m.transport.ClearToken(w)
		return nil
	}

	if err := m.store.Delete(ctx, token); err != nil {
		return err
	}
	return m.transport.ClearToken(w)
}

// sessionTTL caps the configured lifetime by the access token's exp claim
// when the token is a JWT. The signature is not checked here: the API is the
// authority on token validity, we only borrow its expiry for cookie hygiene.
func (m *Manager) sessionTTL(accessToken string) time.Duration {
	ttl := m.config.MaxLifetime

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return ttl
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return ttl
	}
	if until := time.Until(exp.Time); until > 0 && until < ttl {
		return until
	}
	return ttl
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
