// Package metric provides Prometheus metrics for ConsoleGate.
package metric

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "consolegate"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Connection metrics
	ConnectionsOpen  prometheus.Gauge
	ConnectionsTotal *prometheus.CounterVec
	SniffsTotal      *prometheus.CounterVec
	HandshakesTotal  *prometheus.CounterVec
	RedirectsTotal   prometheus.Counter
	AcceptErrors     *prometheus.CounterVec

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Certificate metrics
	CertReloads *prometheus.CounterVec
	CertExpiry  prometheus.Gauge
}

// NewRegistry creates a registry with all gateway metrics registered,
// plus the standard Go runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		ConnectionsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_open",
			Help:      "Connections currently being handled.",
		}),
		ConnectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Connections accepted since start, by listener.",
		}, []string{"listener"}),
		SniffsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sniffs_total",
			Help:      "Protocol sniff results, by outcome.",
		}, []string{"outcome"}),
		HandshakesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tls_handshakes_total",
			Help:      "TLS handshake attempts, by result.",
		}, []string{"result"}),
		RedirectsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redirects_total",
			Help:      "Plain requests answered with a 301 to https.",
		}),
		AcceptErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accept_errors_total",
			Help:      "Accept failures, by listener.",
		}, []string{"listener"}),

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method and status.",
		}, []string{"method", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		CertReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "certificate_reloads_total",
			Help:      "Certificate reload attempts, by result.",
		}, []string{"result"}),
		CertExpiry: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "certificate_expiry_timestamp_seconds",
			Help:      "NotAfter of the active server certificate as a Unix timestamp.",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.ConnectionsOpen,
		r.ConnectionsTotal,
		r.SniffsTotal,
		r.HandshakesTotal,
		r.RedirectsTotal,
		r.AcceptErrors,
		r.RequestsTotal,
		r.RequestDuration,
		r.CertReloads,
		r.CertExpiry,
	)

	return r
}

// MustRegister attaches extra collectors to the registry.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.registry.MustRegister(cs...)
}

// Handler returns an HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ============================================================================
// Recorder methods
// ============================================================================

// IncConnectionsOpen marks one more connection in flight.
func (r *Registry) IncConnectionsOpen() { r.ConnectionsOpen.Inc() }

// DecConnectionsOpen marks one connection as finished.
func (r *Registry) DecConnectionsOpen() { r.ConnectionsOpen.Dec() }

// RecordConnection counts an accepted connection on the given listener.
func (r *Registry) RecordConnection(listener string) {
	r.ConnectionsTotal.WithLabelValues(listener).Inc()
}

// RecordSniff counts a protocol sniff outcome: "tls", "plain",
// "timeout" or "error".
func (r *Registry) RecordSniff(outcome string) {
	r.SniffsTotal.WithLabelValues(outcome).Inc()
}

// RecordHandshake counts a TLS handshake result: "ok", "failed",
// "cert_required" or "cert_rejected".
func (r *Registry) RecordHandshake(result string) {
	r.HandshakesTotal.WithLabelValues(result).Inc()
}

// IncRedirect counts a plain request answered with a 301.
func (r *Registry) IncRedirect() { r.RedirectsTotal.Inc() }

// RecordAcceptError counts an accept failure on the given listener.
func (r *Registry) RecordAcceptError(listener string) {
	r.AcceptErrors.WithLabelValues(listener).Inc()
}

// RecordRequest counts a served HTTP request.
func (r *Registry) RecordRequest(method, status string) {
	r.RequestsTotal.WithLabelValues(method, status).Inc()
}

// ObserveRequestDuration records a request latency sample.
func (r *Registry) ObserveRequestDuration(method string, seconds float64) {
	r.RequestDuration.WithLabelValues(method).Observe(seconds)
}

// RecordCertReload counts a certificate reload attempt: "ok" or "error".
func (r *Registry) RecordCertReload(result string) {
	r.CertReloads.WithLabelValues(result).Inc()
}

// SetCertExpiry records the active certificate's NotAfter.
func (r *Registry) SetCertExpiry(notAfter time.Time) {
	r.CertExpiry.Set(float64(notAfter.Unix()))
}

// ============================================================================
// Global registry
// ============================================================================

var (
	global     *Registry
	globalOnce sync.Once
)

// Global returns the process-wide registry, creating it on first use.
func Global() *Registry {
	globalOnce.Do(func() { global = NewRegistry() })
	return global
}

// Handler returns an HTTP handler serving the global registry.
func Handler() http.Handler {
	return Global().Handler()
}
