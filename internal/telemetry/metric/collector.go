// Package metric provides Prometheus metrics for ConsoleGate.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Source supplies live gateway values sampled at scrape time.
type Source interface {
	// NumConnections reports the number of currently tracked connections.
	NumConnections() int
}

// Collector exposes live gateway state without keeping its own counters.
// Values come from the Source at scrape time, so they cannot drift from
// the tracker the way an incrementally maintained gauge could.
type Collector struct {
	src     Source
	started time.Time

	connDesc   *prometheus.Desc
	uptimeDesc *prometheus.Desc
}

// NewCollector creates a collector reading from src.
func NewCollector(src Source) *Collector {
	return &Collector{
		src:     src,
		started: time.Now(),
		connDesc: prometheus.NewDesc(
			namespace+"_tracked_connections",
			"Connections currently tracked by the gateway.",
			nil, nil,
		),
		uptimeDesc: prometheus.NewDesc(
			namespace+"_uptime_seconds",
			"Seconds since the gateway started.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.connDesc
	ch <- c.uptimeDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(
		c.connDesc, prometheus.GaugeValue, float64(c.src.NumConnections()))
	ch <- prometheus.MustNewConstMetric(
		c.uptimeDesc, prometheus.CounterValue, time.Since(c.started).Seconds())
}
