// Package logger provides structured logging for ConsoleGate.
package logger

import (
	"log/slog"
	"strings"
)

// pemKeyMarker identifies PEM-encoded private key material. Certificates
// are public and stay loggable; anything carrying a private key never
// reaches the log stream.
const pemKeyMarker = "PRIVATE KEY-----"

// Sensitive key patterns that should be redacted. Path-bearing keys such
// as key_file or cert_file must stay visible, so the bare word "key" is
// deliberately not matched.
var sensitiveKeyPatterns = []string{
	"password",
	"passphrase",
	"secret",
	"credential",
	"bearer",
	"private_key",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// pemRedactedValue is the placeholder for redacted PEM key material.
const pemRedactedValue = "-----REDACTED PRIVATE KEY-----"

// redactSensitive checks if an attribute contains sensitive data
// and redacts it if necessary.
func redactSensitive(a slog.Attr) slog.Attr {
	// A PEM private key block in the value takes priority over
	// key-based detection.
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		if strings.Contains(strVal, pemKeyMarker) {
			return slog.String(a.Key, pemRedactedValue)
		}

		// If key name suggests sensitive data and value is non-empty, fully redact
		keyLower := strings.ToLower(a.Key)
		for _, pattern := range sensitiveKeyPatterns {
			if strings.Contains(keyLower, pattern) {
				if strVal != "" {
					return slog.String(a.Key, redactedValue)
				}
				break
			}
		}
	}

	// Handle nested groups recursively
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// RedactString manually redacts a string value.
// Use this when you need to redact a value before logging.
func RedactString(value string) string {
	if strings.Contains(value, pemKeyMarker) {
		return pemRedactedValue
	}
	return value
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue checks if a value appears to be sensitive.
func IsSensitiveValue(value string) bool {
	return strings.Contains(value, pemKeyMarker)
}
