// Package metric provides Prometheus metrics for ConsoleGate.
package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// stubSource implements Source with a fixed connection count.
type stubSource struct {
	conns int
}

func (s *stubSource) NumConnections() int { return s.conns }

func TestNewCollector(t *testing.T) {
	c := NewCollector(&stubSource{})
	if c == nil {
		t.Fatal("NewCollector returned nil")
	}
}

func TestCollector_Describe(t *testing.T) {
	c := NewCollector(&stubSource{})
	ch := make(chan *prometheus.Desc, 4)

	c.Describe(ch)
	close(ch)

	var n int
	for range ch {
		n++
	}
	if n != 2 {
		t.Errorf("Describe sent %d descriptors, want 2", n)
	}
}

func TestCollector_Scrape(t *testing.T) {
	src := &stubSource{conns: 7}

	r := NewRegistry()
	r.MustRegister(NewCollector(src))

	body := scrape(t, r)

	if !strings.Contains(body, "consolegate_tracked_connections 7") {
		t.Error("expected consolegate_tracked_connections 7")
	}
	if !strings.Contains(body, "consolegate_uptime_seconds") {
		t.Error("expected consolegate_uptime_seconds")
	}

	// The source is read at scrape time.
	src.conns = 3
	body = scrape(t, r)
	if !strings.Contains(body, "consolegate_tracked_connections 3") {
		t.Error("expected consolegate_tracked_connections 3 after source change")
	}
}

// scrape serves one /metrics request against r and returns the body.
func scrape(t *testing.T, r *Registry) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("scrape status = %d, want %d", rec.Code, http.StatusOK)
	}
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read scrape body: %v", err)
	}
	return string(body)
}
