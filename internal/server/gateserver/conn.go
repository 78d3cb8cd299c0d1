// Package gateserver implements the ConsoleGate connection core.
package gateserver

import (
	"bufio"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/consolegate/consolegate-go/internal/core/domain"
	"github.com/consolegate/consolegate-go/pkg/peekconn"
)

// Conn is one tracked client connection moving through the gateway
// lifecycle. It implements net.Conn; reads replay any bytes the sniffer
// peeked. Close is safe on every path and from any goroutine: the first
// call releases the socket and notifies the tracker, the rest are no-ops.
type Conn struct {
	pc   *peekconn.Conn
	id   string
	role domain.ListenerRole

	acceptedAt time.Time

	mu          sync.Mutex
	state       domain.ConnState
	proto       domain.Protocol
	peerSubject string

	closed  atomic.Bool
	onClose func(*Conn)
}

func newConn(raw net.Conn, role domain.ListenerRole, onClose func(*Conn)) *Conn {
	id, err := domain.GenerateConnID()
	if err != nil {
		id = domain.ConnIDPrefix + "unknown"
	}
	return &Conn{
		pc:         peekconn.New(raw),
		id:         id,
		role:       role,
		acceptedAt: time.Now(),
		state:      domain.StateAccepted,
		proto:      domain.ProtocolUnknown,
		onClose:    onClose,
	}
}

// ID returns the connection identifier (cgc-{ulid}).
func (c *Conn) ID() string { return c.id }

// Role returns the role of the listener that accepted the connection.
func (c *Conn) Role() domain.ListenerRole { return c.role }

// transition advances the lifecycle stage. Illegal moves are ignored,
// which keeps late state writes from racing a concurrent Close.
func (c *Conn) transition(to domain.ConnState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !domain.ValidTransition(c.state, to) {
		return false
	}
	c.state = to
	return true
}

// State returns the lifecycle stage at call time.
func (c *Conn) State() domain.ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Conn) setProtocol(p domain.Protocol) {
	c.mu.Lock()
	c.proto = p
	c.mu.Unlock()
}

func (c *Conn) setPeerSubject(s string) {
	c.mu.Lock()
	c.peerSubject = s
	c.mu.Unlock()
}

// Info returns an immutable snapshot for the management surface.
func (c *Conn) Info() domain.ConnInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.ConnInfo{
		ID:          c.id,
		RemoteAddr:  c.pc.RemoteAddr().String(),
		Listener:    c.role,
		Protocol:    c.proto,
		State:       c.state,
		PeerSubject: c.peerSubject,
		AcceptedAt:  c.acceptedAt.UnixMilli(),
	}
}

// Close releases the socket exactly once and notifies the tracker.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.transition(domain.StateClosing)
	err := c.pc.Close()
	c.transition(domain.StateClosed)
	if c.onClose != nil {
		c.onClose(c)
	}
	return err
}

// net.Conn passthroughs. Read drains the peek buffer first.

func (c *Conn) Read(p []byte) (int, error)  { return c.pc.Read(p) }
func (c *Conn) Write(p []byte) (int, error) { return c.pc.Write(p) }
func (c *Conn) LocalAddr() net.Addr         { return c.pc.LocalAddr() }
func (c *Conn) RemoteAddr() net.Addr        { return c.pc.RemoteAddr() }

func (c *Conn) SetDeadline(t time.Time) error      { return c.pc.SetDeadline(t) }
func (c *Conn) SetReadDeadline(t time.Time) error  { return c.pc.SetReadDeadline(t) }
func (c *Conn) SetWriteDeadline(t time.Time) error { return c.pc.SetWriteDeadline(t) }

// Peek returns the next n bytes without consuming them.
func (c *Conn) Peek(n int) ([]byte, error) { return c.pc.Peek(n) }

// Buffered returns how many peeked bytes are already available.
func (c *Conn) Buffered() int { return c.pc.Buffered() }

// Reader exposes the replaying reader for head parsing.
func (c *Conn) Reader() *bufio.Reader { return c.pc.Reader() }
