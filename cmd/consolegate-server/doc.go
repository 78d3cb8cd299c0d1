// Package main provides the entry point for consolegate-server.
//
// The server is the ConsoleGate front door. It owns a fixed trio of
// listeners and provides:
//
//   - Protocol classification of every accepted connection
//   - TLS termination with an optional client certificate policy
//   - Plain-to-https redirects on the redirect listener
//   - Static console serving for established sessions
//   - A local Unix socket for management access
//
// Usage:
//
//	consolegate-server [flags]
//	consolegate-server --config /path/to/config.yaml
//
// The server loads configuration, binds or adopts its listener set,
// and runs until a signal arrives or the idle-exit grace elapses.
package main
