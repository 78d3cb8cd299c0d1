// Package gateserver implements the ConsoleGate connection core.
package gateserver

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/consolegate/consolegate-go/internal/core/domain"
	"github.com/consolegate/consolegate-go/internal/infra/certbundle"
	"github.com/consolegate/consolegate-go/internal/infra/listenset"
	"github.com/consolegate/consolegate-go/internal/telemetry/metric"
)

// acceptRetryInterval throttles accept retries under fd or memory
// pressure so a hot error does not spin the loop.
const acceptRetryInterval = 100 * time.Millisecond

// Config holds the gateway core configuration.
type Config struct {
	// ClientCertMode selects the TLS client certificate policy.
	ClientCertMode domain.ClientCertMode
	// ClientCAs verifies client certificates in require mode.
	ClientCAs *x509.CertPool
	// SniffTimeout bounds the wait for a connection's first byte. It
	// also bounds the redirect responder's request-head read.
	SniffTimeout time.Duration
	// HandshakeTimeout bounds the TLS handshake.
	HandshakeTimeout time.Duration
	// WriteTimeout bounds the redirect response write.
	WriteTimeout time.Duration
	// IdleGrace is how long the connection count must stay at zero
	// before Run reports idle. Zero disables idle reporting.
	IdleGrace time.Duration
	// Metrics overrides the process-wide registry, for tests.
	Metrics *metric.Registry
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ClientCertMode:   domain.CertModeNone,
		SniffTimeout:     30 * time.Second,
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     30 * time.Second,
	}
}

// Server is the gateway core. It owns the listener set, classifies and
// terminates incoming connections, and tracks their lifecycle.
type Server struct {
	cfg     *Config
	set     *listenset.Set
	store   *certbundle.Store
	tlsConf *tls.Config
	logger  *slog.Logger
	metrics *metric.Registry

	tracker *tracker
	httpSrv *http.Server
	httpLn  *chanListener
	limiter *rate.Limiter

	running   atomic.Bool
	wg        sync.WaitGroup
	closed    chan struct{}
	closeOnce sync.Once
}

// New creates a gateway server over an already-bound listener set. A nil
// store means TLS is not configured: TLS-classified connections are
// refused and the redirect listener serves plainly. The handler serves
// established connections; nil falls back to a 404 handler.
func New(cfg *Config, set *listenset.Set, store *certbundle.Store, handler http.Handler, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = metric.Global()
	}

	s := &Server{
		cfg:     cfg,
		set:     set,
		store:   store,
		logger:  logger,
		metrics: metrics,
		tracker: newTracker(metrics, logger),
		httpLn:  newChanListener(),
		limiter: rate.NewLimiter(rate.Every(acceptRetryInterval), 1),
		closed:  make(chan struct{}),
	}

	if store != nil {
		s.tlsConf = store.ServerTLSConfig(cfg.ClientCertMode, cfg.ClientCAs)
	}

	s.httpSrv = &http.Server{
		Handler:           Chain(handler, Recover(logger), Metrics(metrics), CSP()),
		ReadHeaderTimeout: cfg.SniffTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelDebug),
	}

	return s
}

// TLSConfigured reports whether the gateway terminates TLS.
func (s *Server) TLSConfigured() bool { return s.tlsConf != nil }

// ClientCertMode returns the active client certificate policy.
func (s *Server) ClientCertMode() domain.ClientCertMode { return s.cfg.ClientCertMode }

// NumConnections reports the exact number of live connections.
func (s *Server) NumConnections() int { return s.tracker.Count() }

// TotalConnections reports how many connections have ever been accepted.
func (s *Server) TotalConnections() uint64 { return s.tracker.Total() }

// IdleGrace returns the idle-exit grace period, zero when disabled.
func (s *Server) IdleGrace() time.Duration { return s.cfg.IdleGrace }

// Connections lists live connections ordered by accept time.
func (s *Server) Connections() []domain.ConnInfo { return s.tracker.Snapshot() }

// Closed returns a channel that closes once Shutdown begins. Run and
// PollOnce report false from that point on.
func (s *Server) Closed() <-chan struct{} { return s.closed }

// Start launches the accept loops and the internal HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.set == nil {
		return domain.ErrListenerMissing.WithDetails("no listener set")
	}

	s.running.Store(true)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := s.httpSrv.Serve(s.httpLn)
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
			s.logger.Error("http serve error", "error", err)
		}
	}()

	for _, role := range domain.Roles() {
		ln := s.set.Listener(role)
		if ln == nil {
			continue
		}
		role, ln := role, ln
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.acceptLoop(ctx, role, ln)
		}()
	}

	s.logger.Info("gateway started",
		"tls", s.tlsConf != nil,
		"client_cert_mode", string(s.cfg.ClientCertMode),
		"idle_grace", s.cfg.IdleGrace,
	)
	return nil
}

// Shutdown stops accepting, vacates the socket files, and drains. Live
// connections still in sniff, handshake, or redirect are cut loose;
// established ones drain through the HTTP server within ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)
	s.closeOnce.Do(func() { close(s.closed) })

	var firstErr error
	if s.set != nil {
		if err := s.set.Close(); err != nil {
			firstErr = err
		}
	}

	s.tracker.closeUnestablished()

	if err := s.httpSrv.Shutdown(ctx); err != nil {
		_ = s.httpSrv.Close()
		if firstErr == nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			firstErr = err
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.logger.Info("gateway stopped")
	return firstErr
}

// Run pumps lifecycle events and timers for up to budget. It returns
// true as soon as the idle policy fires: the count stayed at zero for a
// full grace period. It returns false when the budget elapses or the
// server shuts down. Advisory only; the caller decides what idle means.
//
// Run and PollOnce consume the same event stream and belong to a single
// owner goroutine.
func (s *Server) Run(budget time.Duration) bool {
	budgetTimer := time.NewTimer(budget)
	defer budgetTimer.Stop()

	idle := time.NewTimer(time.Hour)
	idle.Stop()
	defer idle.Stop()
	armed := false

	arm := func() {
		if s.cfg.IdleGrace > 0 && !armed {
			idle.Reset(s.cfg.IdleGrace)
			armed = true
		}
	}
	disarm := func() {
		if armed {
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			armed = false
		}
	}

	if s.tracker.Count() == 0 {
		arm()
	}

	for {
		select {
		case <-budgetTimer.C:
			return false

		case <-s.closed:
			return false

		case <-s.tracker.events:
			// Every processed event restarts the grace period.
			disarm()
			if s.tracker.Count() == 0 {
				arm()
			}

		case <-idle.C:
			armed = false
			if s.tracker.Count() == 0 {
				return true
			}
		}
	}
}

// PollOnce applies exactly one pending lifecycle event, reporting true,
// or reports false after timeout with nothing processed.
func (s *Server) PollOnce(timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-s.tracker.events:
		return true
	case <-s.closed:
		return false
	case <-t.C:
		return false
	}
}

// acceptLoop owns one listener. Closed-listener errors end the loop;
// anything else is treated as per-attempt pressure, counted, throttled,
// and retried.
func (s *Server) acceptLoop(ctx context.Context, role domain.ListenerRole, ln net.Listener) {
	for {
		raw, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}

			s.metrics.RecordAcceptError(string(role))
			s.logger.Warn("accept failed",
				"listener", string(role),
				"error", domain.ErrAcceptPressure.WithCause(err),
			)
			if err := s.limiter.Wait(ctx); err != nil {
				return
			}
			continue
		}

		c := s.tracker.add(raw, role)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(c)
		}()
	}
}

// handleConn walks one connection through sniff and on to TLS
// termination, the redirect responder, or plain serving. Failure paths
// close the connection here; handoff paths transfer ownership to the
// HTTP server, which closes it when the connection ends. Either way the
// tracker sees exactly one removal.
func (s *Server) handleConn(c *Conn) {
	c.transition(domain.StateSniffing)

	proto, err := sniff(c, s.cfg.SniffTimeout)
	c.setProtocol(proto)
	if err != nil {
		s.metrics.RecordSniff(sniffMetricOutcome(err))
		s.logger.Debug("connection closed during sniff",
			"conn_id", c.ID(),
			"listener", string(c.Role()),
			"error", err,
		)
		_ = c.Close()
		return
	}
	s.metrics.RecordSniff(string(proto))

	switch {
	case proto == domain.ProtocolTLS && s.tlsConf == nil:
		s.logger.Warn("tls connection refused",
			"conn_id", c.ID(),
			"listener", string(c.Role()),
			"error", domain.ErrTLSNotConfigured,
		)
		_ = c.Close()

	case proto == domain.ProtocolTLS:
		tc, err := s.handshake(c)
		s.metrics.RecordHandshake(handshakeMetricResult(err))
		if err != nil {
			s.logger.Warn("tls handshake failed",
				"conn_id", c.ID(),
				"remote", c.RemoteAddr().String(),
				"error", err,
			)
			_ = c.Close()
			return
		}
		c.transition(domain.StateEstablished)
		s.serve(tc)

	case c.Role() == domain.RoleRedirect && s.tlsConf != nil:
		// Plain request on the redirect listener while TLS is
		// configured: answer 301 and close. Without TLS the listener
		// serves plainly via the default case.
		if err := s.respondRedirect(c); err != nil {
			s.logger.Debug("redirect not written",
				"conn_id", c.ID(),
				"error", err,
			)
		} else {
			s.metrics.IncRedirect()
		}
		_ = c.Close()

	default:
		c.transition(domain.StateEstablished)
		s.serve(c)
	}
}

// serve hands a ready connection to the internal HTTP server: the
// tracked connection itself for plain traffic, or its TLS wrapper for
// terminated sessions.
func (s *Server) serve(wire net.Conn) {
	if !s.httpLn.push(wire) {
		_ = wire.Close()
	}
}

// sniffMetricOutcome names a failed sniff for the counter.
func sniffMetricOutcome(err error) string {
	if domain.IsGateError(err, domain.ErrSniffTimeout.Code) {
		return "timeout"
	}
	return "error"
}
