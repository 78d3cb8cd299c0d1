package gateserver

import (
	"errors"
	"io"
	"net"
	"time"

	"github.com/consolegate/consolegate-go/internal/core/domain"
)

// tlsRecordHandshake is the leading byte of every TLS handshake record.
const tlsRecordHandshake = 0x16

// sniff classifies a connection by its first byte, leaving everything
// buffered for replay. It blocks until a byte arrives, the peer goes
// away, or the ceiling expires. The classification is final.
func sniff(c *Conn, ceiling time.Duration) (domain.Protocol, error) {
	if ceiling > 0 {
		if err := c.SetReadDeadline(time.Now().Add(ceiling)); err != nil {
			return domain.ProtocolUnknown, domain.ErrClientGone.WithCause(err)
		}
	}

	first, err := c.Peek(1)
	if err != nil {
		var nerr net.Error
		switch {
		case errors.As(err, &nerr) && nerr.Timeout():
			return domain.ProtocolUnknown, domain.ErrSniffTimeout
		case errors.Is(err, io.EOF):
			return domain.ProtocolUnknown, domain.ErrClientGone
		default:
			return domain.ProtocolUnknown, domain.ErrClientGone.WithCause(err)
		}
	}

	if ceiling > 0 {
		if err := c.SetReadDeadline(time.Time{}); err != nil {
			return domain.ProtocolUnknown, domain.ErrClientGone.WithCause(err)
		}
	}

	if first[0] != tlsRecordHandshake {
		return domain.ProtocolPlain, nil
	}

	// Sanity-check the record version over bytes that already arrived.
	// Classification never waits for more than the first byte.
	if c.Buffered() >= 3 {
		hdr, _ := c.Peek(3)
		if hdr[1] != 0x03 || hdr[2] > 0x04 {
			return domain.ProtocolPlain, nil
		}
	}

	return domain.ProtocolTLS, nil
}
