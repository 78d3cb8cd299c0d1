// Package logger provides structured logging for ConsoleGate.
//
// This package wraps log/slog for structured logging:
//
//   - logger.go: Logger interface, slog handler configuration
//   - context.go: Context-aware logging with request/connection IDs
//   - redact.go: Key material redaction
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering with runtime adjustment
//   - Automatic masking of PEM private keys and secret-bearing fields
//   - Context propagation for per-connection correlation
package logger
