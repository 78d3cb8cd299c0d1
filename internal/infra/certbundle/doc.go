// Package certbundle provides server certificate management for ConsoleGate.
//
// This package handles the certificate material presented to TLS clients:
//
//   - bundle.go: Bundle loading (separate, combined, and chain files),
//     key/leaf match validation
//   - store.go: Atomic active-bundle holder wired into tls.Config
//   - watcher.go: Bundle hot-reload via fsnotify
//
// A Bundle is immutable once parsed. Reloads build a complete new Bundle
// and swap it in; sessions that already started a handshake finish with
// the bundle they saw first.
package certbundle
