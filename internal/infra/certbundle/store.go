// Package certbundle provides server certificate management.
package certbundle

import (
	"crypto/tls"
	"crypto/x509"
	"sync/atomic"

	"github.com/consolegate/consolegate-go/internal/core/domain"
)

// Store holds the active certificate bundle. Reloads swap in a complete
// new Bundle; in-flight handshakes keep the bundle they started with.
type Store struct {
	cur atomic.Pointer[Bundle]
}

// NewStore creates a store holding the given bundle.
func NewStore(b *Bundle) *Store {
	s := &Store{}
	s.cur.Store(b)
	return s
}

// Bundle returns the active bundle.
func (s *Store) Bundle() *Bundle {
	return s.cur.Load()
}

// Swap replaces the active bundle and returns the previous one.
func (s *Store) Swap(b *Bundle) *Bundle {
	return s.cur.Swap(b)
}

// GetCertificate implements tls.Config.GetCertificate, so handshakes
// always see the bundle that is active when they begin.
func (s *Store) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return s.cur.Load().Certificate(), nil
}

// ServerTLSConfig builds the TLS configuration for terminating client
// connections under the given client certificate policy. The clientCAs
// pool is only consulted in require mode.
func (s *Store) ServerTLSConfig(mode domain.ClientCertMode, clientCAs *x509.CertPool) *tls.Config {
	cfg := &tls.Config{
		GetCertificate: s.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}

	switch mode {
	case domain.CertModeRequest:
		cfg.ClientAuth = tls.RequestClientCert
	case domain.CertModeRequire:
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
		cfg.ClientCAs = clientCAs
	default:
		cfg.ClientAuth = tls.NoClientCert
	}

	return cfg
}
