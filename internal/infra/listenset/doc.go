// Package listenset manages the gateway's pre-provisioned listener set.
//
// The gateway serves three distinctly-purposed listeners: plain HTTP,
// HTTP-only redirect, and TLS. A Set owns all three plus the readiness
// marker contract around them:
//
//   - Bind creates the unix socket trio in a runtime directory and
//     writes the "ready" marker once everything is bound.
//   - Inherited adopts already-bound descriptors handed over by an
//     activation supervisor (LISTEN_FDS convention).
//   - FromListeners wraps injected listeners directly, which is how
//     tests provide 127.0.0.1:0 TCP listeners.
//
// Close tears the set down: every listener is closed and, for
// directory-bound sets, the socket files and marker are removed so
// that subsequent connection attempts are refused. No protocol logic
// lives here; the Set is a pure resource-handoff boundary.
package listenset
