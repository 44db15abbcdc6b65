package session

import "time"

// Config holds session configuration.
type Config struct {
	// CookieName is the name of the session cookie.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"perimetra_sid"`

	// MaxLifetime bounds the session regardless of the access token's own
	// expiry. When the token is a JWT with a shorter exp, the shorter value wins.
	MaxLifetime time.Duration `env:"SESSION_MAX_LIFETIME" envDefault:"720h"`

	// CleanupInterval for expired sessions in the memory store (0 to disable).
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`

	// SecureCookies enables the Secure flag on session cookies.
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`
}

// DefaultConfig returns default session configuration.
func DefaultConfig() Config {
	return Config{
		CookieName:      "perimetra_sid",
		MaxLifetime:     30 * 24 * time.Hour,
		CleanupInterval: 5 * time.Minute,
		SecureCookies:   false,
	}
}
