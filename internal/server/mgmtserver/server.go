// Package mgmtserver provides the local management server.
package mgmtserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/consolegate/consolegate-go/internal/core/domain"
)

// Server serves the management API on a unix domain socket.
type Server struct {
	path       string
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a management server bound to the given socket path.
func New(socketPath string, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		path: socketPath,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelDebug),
		},
		logger: logger,
	}
}

// Path returns the socket path.
func (s *Server) Path() string {
	return s.path
}

// ListenAndServe binds the socket and serves until Shutdown. A stale
// socket file left behind by an unclean exit is removed before binding.
func (s *Server) ListenAndServe() error {
	if err := s.removeStale(); err != nil {
		return err
	}

	ln, err := net.Listen("unix", s.path)
	if err != nil {
		return domain.ErrBindFailed.WithDetails(s.path).WithCause(err)
	}
	if err := os.Chmod(s.path, 0600); err != nil {
		_ = ln.Close()
		return domain.ErrBindFailed.WithDetails(s.path).WithCause(err)
	}

	s.logger.Info("management server listening", "socket", s.path)

	if err := s.httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server. The socket file is
// unlinked when the listener closes.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		_ = s.httpServer.Close()
	}
	s.logger.Info("management server stopped")
	return err
}

// removeStale clears a socket file from a previous run. A path holding
// anything other than a socket is a configuration error, not ours to
// delete.
func (s *Server) removeStale() error {
	fi, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return domain.ErrBindFailed.WithDetails(s.path).WithCause(err)
	}
	if fi.Mode()&os.ModeSocket == 0 {
		return domain.ErrConfigInvalid.WithDetails("management socket path exists and is not a socket: " + s.path)
	}
	return os.Remove(s.path)
}
