package workspace

import "errors"

var (
	// ErrNotFound is returned when the user has no membership matching the
	// requested workspace.
	ErrNotFound = errors.New("workspace not found")

	// ErrNotAuthenticated is returned when workspace resolution runs without
	// an authenticated session.
	ErrNotAuthenticated = errors.New("workspace resolution requires authentication")

	// ErrNoWorkspaceInContext is returned when a handler requires a
	// workspace but none was resolved.
	ErrNoWorkspaceInContext = errors.New("no workspace in context")
)
