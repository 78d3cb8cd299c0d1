// Package domain defines the core domain models for ConsoleGate.
package domain

import (
	"errors"
	"fmt"
)

// GateError represents a gateway error with a structured error code.
// Codes follow the format CG-<AREA>-<NNNN>.
type GateError struct {
	Code    string // Error code (e.g., "CG-TLS-5250")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *GateError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *GateError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *GateError) Is(target error) bool {
	t, ok := target.(*GateError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewGateError creates a new GateError with the given code and message.
func NewGateError(code, message string) *GateError {
	return &GateError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *GateError) WithDetails(details string) *GateError {
	return &GateError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *GateError) WithCause(cause error) *GateError {
	return &GateError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Wrap wraps an error with this gate error as the cause.
func (e *GateError) Wrap(cause error) *GateError {
	return e.WithCause(cause)
}

// IsGateError checks if an error is a GateError with the given code.
// If code is empty, it only checks if the error is a GateError.
func IsGateError(err error, code string) bool {
	var ge *GateError
	if errors.As(err, &ge) {
		if code == "" {
			return true
		}
		return ge.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a GateError.
func GetErrorCode(err error) string {
	var ge *GateError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

// ============================================================================
// Configuration Errors (CONF) — fatal at startup
// ============================================================================

var (
	// ErrConfigInvalid indicates the loaded configuration failed validation.
	ErrConfigInvalid = NewGateError("CG-CONF-1000", "invalid configuration")

	// ErrCertUnreadable indicates the certificate file could not be read.
	ErrCertUnreadable = NewGateError("CG-CONF-5001", "certificate file unreadable")

	// ErrCertInvalid indicates no parseable certificate was found.
	ErrCertInvalid = NewGateError("CG-CONF-5002", "certificate not parseable")

	// ErrKeyInvalid indicates no parseable private key was found.
	ErrKeyInvalid = NewGateError("CG-CONF-5003", "private key not parseable")

	// ErrKeyMismatch indicates the private key does not match the leaf certificate.
	ErrKeyMismatch = NewGateError("CG-CONF-5004", "private key does not match certificate")

	// ErrTrustInvalid indicates the client trust file yielded no usable CA.
	ErrTrustInvalid = NewGateError("CG-CONF-5005", "client trust file not parseable")
)

// ============================================================================
// Listener Errors (LSTN) — fatal at startup
// ============================================================================

var (
	// ErrListenerMissing indicates a required listener was not provided.
	ErrListenerMissing = NewGateError("CG-LSTN-5001", "required listener missing")

	// ErrListenerInvalid indicates an inherited descriptor is not a listening socket.
	ErrListenerInvalid = NewGateError("CG-LSTN-5002", "inherited descriptor is not a listener")

	// ErrBindFailed indicates a listener could not be bound.
	ErrBindFailed = NewGateError("CG-LSTN-5003", "listener bind failed")

	// ErrReadyMarker indicates the ready marker could not be written.
	ErrReadyMarker = NewGateError("CG-LSTN-5004", "ready marker write failed")
)

// ============================================================================
// Protocol Errors (PROT) — per-connection
// ============================================================================

var (
	// ErrSniffTimeout indicates no client data arrived before the sniff deadline.
	ErrSniffTimeout = NewGateError("CG-PROT-4080", "no client data before sniff deadline")

	// ErrClientGone indicates the peer closed before sending a first byte.
	ErrClientGone = NewGateError("CG-PROT-4990", "connection closed before first byte")

	// ErrTLSNotConfigured indicates a TLS record arrived but no certificate is configured.
	ErrTLSNotConfigured = NewGateError("CG-PROT-4970", "tls connection attempted without tls configured")

	// ErrRequestUnparsable indicates the first request head could not be parsed.
	ErrRequestUnparsable = NewGateError("CG-PROT-4000", "malformed request head")
)

// ============================================================================
// TLS Errors (TLS) — per-connection
// ============================================================================

var (
	// ErrHandshakeFailed indicates the TLS handshake did not complete.
	ErrHandshakeFailed = NewGateError("CG-TLS-5250", "tls handshake failed")

	// ErrClientCertRequired indicates the peer presented no certificate in require mode.
	ErrClientCertRequired = NewGateError("CG-TLS-4960", "client certificate required")

	// ErrClientCertRejected indicates the presented client certificate failed verification.
	ErrClientCertRejected = NewGateError("CG-TLS-4950", "client certificate verification failed")
)

// ============================================================================
// Resource Errors (RSRC) — per-connection, never fatal
// ============================================================================

var (
	// ErrAcceptPressure indicates accept failed under descriptor pressure.
	ErrAcceptPressure = NewGateError("CG-RSRC-5031", "accept failed under resource pressure")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewGateError("CG-SYS-5000", "internal server error")

	// ErrServerClosed indicates the gateway is shutting down.
	ErrServerClosed = NewGateError("CG-SYS-5030", "server closed")
)
