package gateserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/consolegate/consolegate-go/internal/telemetry/metric"
)

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain chains multiple middlewares together.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// CSP keeps Content-Security-Policy connect sources in line with how
// the connection actually reached the gateway: https and wss origins
// when the serving connection is TLS-terminated, http and ws otherwise.
// A policy the handler set gets its connect-src schemes rewritten; HTML
// responses without a policy get one injected.
func CSP() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(&cspWriter{
				ResponseWriter: w,
				secure:         r.TLS != nil,
				host:           r.Host,
			}, r)
		})
	}
}

// cspWriter fixes up the policy when the response head is written,
// after the handler has had its say on headers.
type cspWriter struct {
	http.ResponseWriter
	secure      bool
	host        string
	wroteHeader bool
}

func (w *cspWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		h := w.Header()
		switch policy := h.Get("Content-Security-Policy"); {
		case policy != "":
			h.Set("Content-Security-Policy", reflectConnectSrc(policy, w.secure))
		case strings.HasPrefix(h.Get("Content-Type"), "text/html"):
			scheme, ws := "http", "ws"
			if w.secure {
				scheme, ws = "https", "wss"
			}
			h.Set("Content-Security-Policy", fmt.Sprintf(
				"connect-src 'self' %s://%s %s://%s; default-src 'self'",
				scheme, w.host, ws, w.host))
		}
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *cspWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// reflectConnectSrc rewrites the scheme of every source in a policy's
// connect-src directive to match the serving connection. Other
// directives stay untouched.
func reflectConnectSrc(policy string, secure bool) string {
	directives := strings.Split(policy, ";")
	for i, d := range directives {
		if !strings.HasPrefix(strings.TrimSpace(d), "connect-src") {
			continue
		}
		if secure {
			d = strings.ReplaceAll(d, "http://", "https://")
			d = strings.ReplaceAll(d, "ws://", "wss://")
		} else {
			d = strings.ReplaceAll(d, "https://", "http://")
			d = strings.ReplaceAll(d, "wss://", "ws://")
		}
		directives[i] = d
	}
	return strings.Join(directives, ";")
}

// Metrics records request counts and latencies.
func Metrics(reg *metric.Registry) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			reg.RecordRequest(r.Method, strconv.Itoa(wrapped.statusCode))
			reg.ObserveRequestDuration(r.Method, time.Since(start).Seconds())
		})
	}
}

// Recover turns handler panics into 500 responses so a single request
// cannot take the gateway down.
func Recover(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					logger.Error("panic recovered",
						"error", v,
						"path", r.URL.Path,
					)
					w.Header().Set("X-Error-Code", "CG-SYS-5000")
					http.Error(w, "internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
