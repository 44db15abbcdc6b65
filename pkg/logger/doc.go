// Package logger builds slog loggers for the console with consistent output
// formats and domain attribute helpers.
//
// The factory wraps the chosen handler with a decorator that pulls
// request-scoped attributes (request ID, workspace ID) out of the context at
// log time, so handlers and services never thread those values manually.
package logger
