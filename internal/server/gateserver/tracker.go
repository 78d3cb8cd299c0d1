package gateserver

import (
	"log/slog"
	"net"
	"sort"
	"sync/atomic"

	"github.com/consolegate/consolegate-go/internal/core/domain"
	"github.com/consolegate/consolegate-go/internal/telemetry/metric"
	"github.com/consolegate/consolegate-go/pkg/cmap"
)

// eventBacklog bounds the lifecycle event queue. Events are wakeups,
// not state: the consumer re-reads the count whenever it wakes, so a
// dropped event at worst delays an idle decision by one grace period.
const eventBacklog = 128

// trackerEvent is one lifecycle notification consumed by Run and PollOnce.
type trackerEvent struct {
	connID string
	added  bool
}

// tracker maintains the live connection registry. The count is exact at
// all times; increments happen on accept, decrements when a connection's
// Close runs, whichever path triggered it.
type tracker struct {
	metrics *metric.Registry
	logger  *slog.Logger

	conns *cmap.Map[string, *Conn]
	count atomic.Int64
	total atomic.Uint64

	events chan trackerEvent
}

func newTracker(metrics *metric.Registry, logger *slog.Logger) *tracker {
	return &tracker{
		metrics: metrics,
		logger:  logger,
		conns:   cmap.New[string, *Conn](),
		events:  make(chan trackerEvent, eventBacklog),
	}
}

// add wraps a raw accepted connection, registers it, and bumps the count.
func (t *tracker) add(raw net.Conn, role domain.ListenerRole) *Conn {
	c := newConn(raw, role, t.remove)

	t.conns.Set(c.id, c)
	t.count.Add(1)
	t.total.Add(1)
	t.metrics.IncConnectionsOpen()
	t.metrics.RecordConnection(string(role))
	t.notify(trackerEvent{connID: c.id, added: true})

	t.logger.Debug("connection accepted",
		"conn_id", c.id,
		"listener", string(role),
		"remote", c.RemoteAddr().String())
	return c
}

// remove drops a closed connection from the registry. Runs exactly once
// per connection, from Conn.Close.
func (t *tracker) remove(c *Conn) {
	if _, ok := t.conns.Pop(c.id); !ok {
		return
	}

	t.count.Add(-1)
	t.metrics.DecConnectionsOpen()
	t.notify(trackerEvent{connID: c.id, added: false})

	t.logger.Debug("connection removed", "conn_id", c.id)
}

// notify never blocks; see eventBacklog.
func (t *tracker) notify(ev trackerEvent) {
	select {
	case t.events <- ev:
	default:
	}
}

// Count reports the number of live connections.
func (t *tracker) Count() int {
	return int(t.count.Load())
}

// Total reports how many connections have ever been accepted.
func (t *tracker) Total() uint64 {
	return t.total.Load()
}

// Snapshot lists live connections ordered by accept time.
func (t *tracker) Snapshot() []domain.ConnInfo {
	infos := make([]domain.ConnInfo, 0, t.conns.Count())
	t.conns.Range(func(_ string, c *Conn) bool {
		infos = append(infos, c.Info())
		return true
	})

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].AcceptedAt != infos[j].AcceptedAt {
			return infos[i].AcceptedAt < infos[j].AcceptedAt
		}
		return infos[i].ID < infos[j].ID
	})
	return infos
}

// closeUnestablished cuts loose every connection still in a pre-serving
// stage. Established connections drain through the HTTP server instead.
// Victims are collected first: Close re-enters the registry via remove,
// which must not run under a shard read lock.
func (t *tracker) closeUnestablished() {
	victims := make([]*Conn, 0, t.conns.Count())
	t.conns.Range(func(_ string, c *Conn) bool {
		if c.State() != domain.StateEstablished {
			victims = append(victims, c)
		}
		return true
	})

	for _, c := range victims {
		_ = c.Close()
	}
}
