package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/perimetra/console/pkg/apiclient"
)

// Session is the authenticated client state. Instances are only created by
// Manager.Materialize; treat the fields as read-only outside this package.
type Session struct {
	ID          uuid.UUID              `json:"id"`
	Token       string                 `json:"token"`
	AccessToken string                 `json:"access_token"`
	User        *apiclient.UserProfile `json:"user"`
	CreatedAt   time.Time              `json:"created_at"`
	ExpiresAt   time.Time              `json:"expires_at"`
}

// IsAuthenticated reports whether the session carries a complete identity.
// Both the access token and the user must be present; a session with one but
// not the other is never considered valid.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.AccessToken != "" && s.User != nil
}

// IsExpired reports whether the session has expired.
func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}
