package workspace

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/perimetra/console/pkg/session"
)

// Middleware resolves the workspace named by the request and attaches it to
// the context. Requests that name no workspace pass through untouched; a
// named workspace requires an authenticated session, and the membership
// check runs with that session's token. Cache entries are scoped per user.
func Middleware(resolver Resolver, provider Provider, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		cache:        NewMemoryCache(),
		cacheTTL:     5 * time.Minute,
		errorHandler: defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			identifier, err := resolver.Resolve(r)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}
			if identifier == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, ok := session.FromContext(r.Context())
			if !ok || !sess.IsAuthenticated() {
				cfg.errorHandler(w, r, ErrNotAuthenticated)
				return
			}

			key := cacheKey(sess.User.ID, identifier)
			if cached, ok := cfg.cache.Get(r.Context(), key); ok {
				next.ServeHTTP(w, r.WithContext(WithWorkspace(r.Context(), cached)))
				return
			}

			ws, err := provider.Membership(r.Context(), sess.AccessToken, identifier)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}
			cfg.cache.Set(r.Context(), key, ws, cfg.cacheTTL)

			next.ServeHTTP(w, r.WithContext(WithWorkspace(r.Context(), ws)))
		})
	}
}

// RequireWorkspace gates routes that cannot run without an active
// workspace.
func RequireWorkspace(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				errorHandler(w, r, ErrNoWorkspaceInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func cacheKey(userID int64, identifier string) string {
	return strconv.FormatInt(userID, 10) + ":" + identifier
}
