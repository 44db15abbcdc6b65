package session

import "errors"

var (
	// ErrSessionNotFound indicates no session was found for the request.
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrSessionExpired indicates the session has expired.
	ErrSessionExpired = errors.New("session.expired")

	// ErrIncompleteOutcome indicates a materialization attempt with a missing
	// access token or user. Rejected so a partial session is never observable.
	ErrIncompleteOutcome = errors.New("session.incomplete_outcome")

	// ErrInvalidSession indicates a malformed session passed to a store.
	ErrInvalidSession = errors.New("session.invalid")

	// ErrTokenGeneration indicates session token generation failed.
	ErrTokenGeneration = errors.New("session.token_generation_failed")
)
