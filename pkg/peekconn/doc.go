// Package peekconn provides a net.Conn wrapper that can inspect the
// first bytes of a connection without consuming them.
//
// The gateway classifies every accepted connection by its opening
// bytes before committing to a handling path. Peeked bytes stay in the
// wrapper's buffer and are replayed to whichever consumer (TLS engine,
// redirect responder, or HTTP server) reads the connection afterwards,
// so classification is non-destructive.
//
// Usage:
//
//	pc := peekconn.New(raw)
//	b, err := pc.Peek(1)
//	// decide on b[0], then hand pc to the chosen path
//
// A Conn is not safe for concurrent readers; the gateway owns each
// connection on a single goroutine until it is handed off.
package peekconn
