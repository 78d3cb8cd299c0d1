// Package main provides the entry point for consolegate-cli.
//
// The CLI tool talks to a running consolegate-server over its local
// management socket for:
//
//   - Status and health inspection
//   - Live connection listing
//   - Raw metrics dumps
//   - Local certificate and configuration checks
//   - Saved gateway endpoints on multi-gateway hosts
//
// Usage:
//
//	consolegate-cli [command] [flags]
//	consolegate-cli status --output json
//	consolegate-cli conns --wide
//	consolegate-cli --socket /run/consolegate/mgmt.sock health
//
// The CLI supports both single-command mode and interactive REPL mode.
package main
