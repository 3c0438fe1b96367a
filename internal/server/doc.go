// Package server runs the engine's HTTP transport.
//
// It owns the server lifecycle: startup, POSIX signal handling, and graceful
// shutdown with connection draining.
package server
