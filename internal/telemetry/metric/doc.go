// Package metric provides Prometheus metrics for ConsoleGate.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus registry and HTTP handler
//   - collector.go: Live-state collector sampled at scrape time
//
// Metrics include:
//
//   - Connection counters and the open-connection gauge
//   - Protocol sniff and TLS handshake outcomes
//   - Plain-to-TLS redirect and accept-error counters
//   - Request latency histograms
//   - Certificate reload and expiry gauges
//
// Metrics are exposed at /metrics on the management socket.
package metric
