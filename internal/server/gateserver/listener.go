package gateserver

import (
	"net"
	"sync"
)

// gateAddr is the synthetic address the internal HTTP server observes.
type gateAddr struct{}

func (gateAddr) Network() string { return "gate" }
func (gateAddr) String() string  { return "gateway" }

// chanListener adapts classified connections to net.Listener so the
// internal http.Server can serve them. Connections are handed over with
// push; Accept unblocks in arrival order.
type chanListener struct {
	ch     chan net.Conn
	closed chan struct{}
	once   sync.Once
}

func newChanListener() *chanListener {
	return &chanListener{
		ch:     make(chan net.Conn),
		closed: make(chan struct{}),
	}
}

// Accept implements net.Listener.
func (l *chanListener) Accept() (net.Conn, error) {
	select {
	case c := <-l.ch:
		return c, nil
	case <-l.closed:
		return nil, net.ErrClosed
	}
}

// Close implements net.Listener. Idempotent.
func (l *chanListener) Close() error {
	l.once.Do(func() { close(l.closed) })
	return nil
}

// Addr implements net.Listener.
func (l *chanListener) Addr() net.Addr { return gateAddr{} }

// push hands a connection to the HTTP server. It reports false once the
// listener is closed, in which case the caller still owns the connection.
func (l *chanListener) push(c net.Conn) bool {
	select {
	case l.ch <- c:
		return true
	case <-l.closed:
		return false
	}
}
