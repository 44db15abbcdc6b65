// Package httpserver runs the console's HTTP listener with graceful shutdown
// on context cancellation or SIGINT/SIGTERM.
package httpserver
