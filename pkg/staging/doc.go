// Package staging stores short-lived values that must survive a full-page
// OAuth redirect: the anti-forgery state nonce and any payload the user
// carried into sign-in (e.g. a pending workspace invite). Values are written
// immediately before navigating to the provider and consumed exactly once by
// the callback; anything not consumed expires on its own.
//
// Consume is atomic get-and-delete, which is what makes the per-request state
// nonce single-use: a replayed callback finds nothing to validate against.
package staging
