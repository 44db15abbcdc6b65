package workspace

import (
	"errors"
	"net/http"
	"time"
)

// ErrorHandler handles errors raised during workspace resolution.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type config struct {
	cache        Cache
	cacheTTL     time.Duration
	errorHandler ErrorHandler
	skipPaths    []string
}

// Option configures the middleware.
type Option func(*config)

// WithCache sets a custom membership cache.
func WithCache(cache Cache) Option {
	return func(c *config) { c.cache = cache }
}

// WithCacheTTL sets how long memberships are cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *config) { c.cacheTTL = ttl }
}

// WithErrorHandler sets a custom resolution error handler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *config) { c.errorHandler = handler }
}

// WithSkipPaths sets path prefixes that bypass workspace resolution.
func WithSkipPaths(paths ...string) Option {
	return func(c *config) { c.skipPaths = paths }
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "Workspace not found", http.StatusNotFound)
	case errors.Is(err, ErrNotAuthenticated), errors.Is(err, ErrNoWorkspaceInContext):
		http.Error(w, "Authentication required", http.StatusUnauthorized)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
