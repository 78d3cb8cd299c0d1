// Package command provides CLI command definitions for ConsoleGate.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command, global flags, socket resolution
//   - status.go: Gateway status snapshot
//   - conns.go: Live connection listing
//   - health.go: Health probe
//   - metrics.go: Raw metrics exposition dump
//   - cert.go: Local certificate inspection
//   - config.go: CLI and server configuration commands
//   - connect.go: Gateway endpoint management
//   - repl.go: Interactive mode
//
// Commands follow a consistent pattern of parsing flags, calling the
// management API over the Unix socket, and formatting output.
package command
