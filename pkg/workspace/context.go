package workspace

import (
	"context"
	"log/slog"

	"github.com/perimetra/console/pkg/apiclient"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithWorkspace adds the active workspace to the context.
func WithWorkspace(ctx context.Context, ws *apiclient.Workspace) context.Context {
	return context.WithValue(ctx, contextKey{}, ws)
}

// FromContext retrieves the active workspace from the context.
func FromContext(ctx context.Context) (*apiclient.Workspace, bool) {
	ws, ok := ctx.Value(contextKey{}).(*apiclient.Workspace)
	return ws, ok && ws != nil
}

// MustFromContext retrieves the active workspace or panics. Use only in
// handlers mounted behind RequireWorkspace.
func MustFromContext(ctx context.Context) *apiclient.Workspace {
	ws, ok := FromContext(ctx)
	if !ok {
		panic("workspace: no workspace in context")
	}
	return ws
}

// LoggerExtractor returns a logger context extractor that adds the active
// workspace ID to log records.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if ws, ok := FromContext(ctx); ok {
			return slog.String("workspace_id", ws.ID), true
		}
		return slog.Attr{}, false
	}
}
