// Package gateserver implements the ConsoleGate connection core.
//
// The server owns a pre-provisioned listener set and walks every
// accepted connection through a fixed lifecycle: sniff the first bytes
// to classify the protocol, then terminate TLS, answer with a redirect,
// or serve the plaintext stream directly. Established connections are
// served HTTP/1.x by an internal http.Server; the request handler is an
// injected collaborator.
//
// File organization:
//
//   - server.go: Server lifecycle, accept loops, Run/PollOnce
//   - conn.go: tracked connection wrapper and state machine
//   - tracker.go: live registry, exact count, idle policy events
//   - sniff.go: protocol classification from the first byte
//   - handshake.go: TLS termination and client certificate policy
//   - redirect.go: plaintext-to-HTTPS 301 responder
//   - middleware.go: CSP, metrics and recovery middleware
//   - listener.go: channel listener feeding the internal HTTP server
//
// A connection's failure never affects other connections or the
// process; the only voluntary exit path is the idle policy, which Run
// reports to the caller as advice.
package gateserver
