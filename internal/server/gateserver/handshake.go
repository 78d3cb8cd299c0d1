package gateserver

import (
	"context"
	"crypto/tls"
	"errors"
	"strings"

	"github.com/consolegate/consolegate-go/internal/core/domain"
)

// handshake terminates TLS over a classified connection. On success the
// returned tls.Conn reads through the peek buffer and is ready to serve;
// on failure the caller closes the connection with no application bytes
// ever written to the peer.
func (s *Server) handshake(c *Conn) (*tls.Conn, error) {
	c.transition(domain.StateHandshaking)

	tc := tls.Server(c, s.tlsConf)

	ctx := context.Background()
	if s.cfg.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.HandshakeTimeout)
		defer cancel()
	}

	if err := tc.HandshakeContext(ctx); err != nil {
		return nil, classifyHandshakeError(err)
	}

	if peers := tc.ConnectionState().PeerCertificates; len(peers) > 0 {
		c.setPeerSubject(peers[0].Subject.CommonName)
	}
	return tc, nil
}

// classifyHandshakeError maps a handshake failure onto the gateway's
// error taxonomy. crypto/tls reports a missing required client
// certificate only as message text, so that one is matched by substring.
func classifyHandshakeError(err error) error {
	var verr *tls.CertificateVerificationError
	if errors.As(err, &verr) {
		return domain.ErrClientCertRejected.WithCause(err)
	}
	if strings.Contains(err.Error(), "didn't provide a certificate") {
		return domain.ErrClientCertRequired.WithCause(err)
	}
	return domain.ErrHandshakeFailed.WithCause(err)
}

// handshakeMetricResult names a handshake outcome for the counter.
func handshakeMetricResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsGateError(err, domain.ErrClientCertRequired.Code):
		return "cert_required"
	case domain.IsGateError(err, domain.ErrClientCertRejected.Code):
		return "cert_rejected"
	default:
		return "failed"
	}
}
