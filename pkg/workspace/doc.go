// Package workspace carries the active workspace through request contexts.
//
// A workspace is resolved per request from the URL path or a header, checked
// against the signed-in user's memberships via the product API, and attached
// to the context for handlers and the logger. Resolution requires an
// authenticated session; switching workspaces never touches the session
// itself.
//
// The package also auto-accepts a workspace invite the user carried into
// sign-in, immediately after the session materializes.
package workspace
