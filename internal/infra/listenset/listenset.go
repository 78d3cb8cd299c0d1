// Package listenset manages the gateway's pre-provisioned listener set.
package listenset

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/consolegate/consolegate-go/internal/core/domain"
)

// Socket directory entries. The names are part of the handoff contract
// with the activation supervisor and with local clients.
const (
	SockPlain    = "http.sock"
	SockRedirect = "http-redirect.sock"
	SockTLS      = "https.sock"
	ReadyMarker  = "ready"
)

// sockName maps a listener role to its socket file name.
func sockName(role domain.ListenerRole) string {
	switch role {
	case domain.RolePlain:
		return SockPlain
	case domain.RoleRedirect:
		return SockRedirect
	case domain.RoleTLS:
		return SockTLS
	}
	return ""
}

// Set owns the gateway's three listeners. It is constructed once at
// startup and closed exactly once at shutdown; Close is idempotent.
type Set struct {
	listeners map[domain.ListenerRole]net.Listener
	dir       string // non-empty when Bind created the sockets

	closeOnce sync.Once
	closeErr  error
}

// Bind creates the unix socket trio under dir and writes the ready
// marker. It is used when the gateway provisions its own sockets, and
// by tests standing in for the activation supervisor.
func Bind(dir string) (*Set, error) {
	s := &Set{
		listeners: make(map[domain.ListenerRole]net.Listener, 3),
		dir:       dir,
	}

	for _, role := range domain.Roles() {
		path := filepath.Join(dir, sockName(role))

		// A stale socket from a crashed predecessor blocks the bind.
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.Close()
			return nil, domain.ErrBindFailed.WithDetails(path).WithCause(err)
		}

		ln, err := net.Listen("unix", path)
		if err != nil {
			s.Close()
			return nil, domain.ErrBindFailed.WithDetails(path).WithCause(err)
		}
		s.listeners[role] = ln
	}

	if err := os.WriteFile(filepath.Join(dir, ReadyMarker), nil, 0o644); err != nil {
		s.Close()
		return nil, domain.ErrReadyMarker.WithDetails(dir).WithCause(err)
	}

	return s, nil
}

// FromListeners wraps already-bound listeners. All three roles are
// required; a nil listener is a fatal configuration error.
func FromListeners(plain, redirect, tls net.Listener) (*Set, error) {
	byRole := map[domain.ListenerRole]net.Listener{
		domain.RolePlain:    plain,
		domain.RoleRedirect: redirect,
		domain.RoleTLS:      tls,
	}

	for _, role := range domain.Roles() {
		if byRole[role] == nil {
			return nil, domain.ErrListenerMissing.WithDetails(string(role))
		}
	}

	return &Set{listeners: byRole}, nil
}

// Listener returns the listener for a role, or nil if the role is
// unknown.
func (s *Set) Listener(role domain.ListenerRole) net.Listener {
	return s.listeners[role]
}

// Addr returns the bound address for a role.
func (s *Set) Addr(role domain.ListenerRole) net.Addr {
	ln := s.listeners[role]
	if ln == nil {
		return nil
	}
	return ln.Addr()
}

// Dir returns the socket directory for directory-bound sets, empty
// otherwise.
func (s *Set) Dir() string {
	return s.dir
}

// Close closes every listener and, for directory-bound sets, removes
// the socket files and the ready marker. After Close, connection
// attempts to the vacated addresses are refused.
func (s *Set) Close() error {
	s.closeOnce.Do(func() {
		for _, ln := range s.listeners {
			if ln == nil {
				continue
			}
			if err := ln.Close(); err != nil && s.closeErr == nil && !errors.Is(err, net.ErrClosed) {
				s.closeErr = err
			}
		}

		if s.dir != "" {
			entries := []string{SockPlain, SockRedirect, SockTLS, ReadyMarker}
			for _, name := range entries {
				err := os.Remove(filepath.Join(s.dir, name))
				if err != nil && !errors.Is(err, os.ErrNotExist) && s.closeErr == nil {
					s.closeErr = err
				}
			}
		}
	})
	return s.closeErr
}
