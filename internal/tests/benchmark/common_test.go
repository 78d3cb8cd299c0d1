package benchmark

import (
	"fmt"
	"io"
	"net"
	"runtime"
	"testing"
	"time"

	"github.com/consolegate/consolegate-go/internal/core/domain"
	"github.com/consolegate/consolegate-go/pkg/cmap"
)

// ConnCounts defines the connection counts for benchmarking.
var ConnCounts = []int{5000, 10000, 15000, 20000, 50000, 100000, 200000, 500000}

// SmallConnCounts for quick benchmarks.
var SmallConnCounts = []int{1000, 5000, 10000}

// tlsHello is the head of a TLS 1.2 ClientHello record; the first byte
// is what classification keys on.
var tlsHello = []byte{
	0x16, 0x03, 0x01, 0x00, 0xc8, 0x01, 0x00, 0x00,
	0xc4, 0x03, 0x03, 0x1b, 0x52, 0xa6, 0x80, 0x11,
}

// httpHead is a plaintext request head as a browser would open with.
var httpHead = []byte("GET /console HTTP/1.1\r\nHost: console.example.com\r\nUser-Agent: BenchmarkTest/1.0\r\n\r\n")

// newConnID generates a new connection ID.
func newConnID() string {
	id, _ := domain.GenerateConnID()
	return id
}

// connSnapshot builds a tracked-connection snapshot for table benchmarks.
func connSnapshot(id string, i int) domain.ConnInfo {
	return domain.ConnInfo{
		ID:         id,
		RemoteAddr: fmt.Sprintf("@%06d", i),
		Listener:   domain.Roles()[i%3],
		Protocol:   domain.ProtocolTLS,
		State:      domain.StateEstablished,
		AcceptedAt: time.Now().UnixMilli(),
	}
}

// prefillTable prefills a tracking table with connection snapshots.
func prefillTable(m *cmap.Map[string, domain.ConnInfo], count int) []string {
	ids := make([]string, count)
	for i := 0; i < count; i++ {
		ids[i] = newConnID()
		m.Set(ids[i], connSnapshot(ids[i], i))
	}
	return ids
}

// memConn is an in-memory net.Conn serving a fixed payload, so peek and
// classification costs can be measured without socket overhead.
type memConn struct {
	payload []byte
	off     int
}

func (c *memConn) Read(p []byte) (int, error) {
	if c.off >= len(c.payload) {
		return 0, io.EOF
	}
	n := copy(p, c.payload[c.off:])
	c.off += n
	return n, nil
}

func (c *memConn) Write(p []byte) (int, error)      { return len(p), nil }
func (c *memConn) Close() error                     { return nil }
func (c *memConn) LocalAddr() net.Addr              { return memAddr{} }
func (c *memConn) RemoteAddr() net.Addr             { return memAddr{} }
func (c *memConn) SetDeadline(time.Time) error      { return nil }
func (c *memConn) SetReadDeadline(time.Time) error  { return nil }
func (c *memConn) SetWriteDeadline(time.Time) error { return nil }

type memAddr struct{}

func (memAddr) Network() string { return "unix" }
func (memAddr) String() string  { return "@bench" }

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// sizeLabel returns a human-readable size label.
func sizeLabel(size int) string {
	switch {
	case size >= 1024*1024:
		return fmt.Sprintf("%dMB", size/(1024*1024))
	case size >= 1024:
		return fmt.Sprintf("%dKB", size/1024)
	default:
		return fmt.Sprintf("%dB", size)
	}
}
