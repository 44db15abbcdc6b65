package staging

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the key does not exist, expired, or was already consumed.
	ErrNotFound = errors.New("staging.not_found")

	// ErrInvalidKey indicates an empty key.
	ErrInvalidKey = errors.New("staging.invalid_key")
)

// Store persists short-lived staged values.
type Store interface {
	// Put stores value under key for at most ttl.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Consume atomically retrieves and deletes the value under key.
	// Returns ErrNotFound when the key is absent, expired, or was consumed before.
	Consume(ctx context.Context, key string) (string, error)

	// Delete removes the value under key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Config holds staging store configuration.
type Config struct {
	// TTL bounds how long staged values live. It should comfortably cover a
	// user completing the provider's consent screen.
	TTL time.Duration `env:"STAGING_TTL" envDefault:"10m"`

	// CleanupInterval for expired values in the memory store (0 to disable).
	CleanupInterval time.Duration `env:"STAGING_CLEANUP_INTERVAL" envDefault:"1m"`
}
