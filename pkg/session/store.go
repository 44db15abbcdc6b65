package session

import "context"

// Store defines the interface for session persistence. Writes replace the
// whole session, so a reader never observes a half-updated record.
type Store interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by token.
	Get(ctx context.Context, token string) (*Session, error)

	// Delete removes a session by token. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes all expired sessions.
	DeleteExpired(ctx context.Context) error
}
