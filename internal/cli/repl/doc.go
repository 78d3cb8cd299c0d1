// Package repl provides the interactive mode for the ConsoleGate CLI.
//
// This package implements the read-eval-print loop for interactive
// management sessions:
//
//   - repl.go: Main loop and dispatch to the command layer
//   - completer.go: Prefix completion backing the help listing
//   - history.go: Command history persistence
//
// The REPL itself knows nothing about the management API; the command
// layer injects the dispatch function.
package repl
