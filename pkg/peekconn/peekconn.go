// Package peekconn provides a peekable net.Conn wrapper.
package peekconn

import (
	"bufio"
	"net"
)

// Conn wraps a net.Conn with a buffered reader so that leading bytes
// can be examined before they are consumed. Reads drain the buffer
// first and then continue from the underlying connection; writes,
// deadlines, and Close pass straight through.
type Conn struct {
	net.Conn
	br *bufio.Reader
}

// New wraps a connection for peeking.
func New(c net.Conn) *Conn {
	return &Conn{Conn: c, br: bufio.NewReader(c)}
}

// Read reads buffered bytes first, then the underlying connection.
func (c *Conn) Read(p []byte) (int, error) {
	return c.br.Read(p)
}

// Peek returns the next n bytes without advancing the reader. It
// blocks until at least n bytes are available, the underlying
// connection errors, or a read deadline expires.
func (c *Conn) Peek(n int) ([]byte, error) {
	return c.br.Peek(n)
}

// Buffered returns the number of bytes already available in the
// buffer. It never blocks.
func (c *Conn) Buffered() int {
	return c.br.Buffered()
}

// Reader exposes the buffered reader for consumers that parse the
// stream directly, such as reading an HTTP request head.
func (c *Conn) Reader() *bufio.Reader {
	return c.br
}
