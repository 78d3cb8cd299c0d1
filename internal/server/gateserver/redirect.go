package gateserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/consolegate/consolegate-go/internal/core/domain"
)

// respondRedirect reads one request head off the replayed plaintext
// stream and answers it with a 301 to the HTTPS origin, regardless of
// method, path, or body. The caller closes the connection afterwards.
func (s *Server) respondRedirect(c *Conn) error {
	c.transition(domain.StateRedirecting)

	if s.cfg.SniffTimeout > 0 {
		_ = c.SetReadDeadline(time.Now().Add(s.cfg.SniffTimeout))
	}
	req, err := http.ReadRequest(c.Reader())
	if err != nil {
		return domain.ErrRequestUnparsable.WithCause(err)
	}

	host := req.Host
	if host == "" {
		host = c.LocalAddr().String()
	}
	target := req.RequestURI
	if target == "" {
		target = "/"
	}

	if s.cfg.WriteTimeout > 0 {
		_ = c.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	}
	_, err = fmt.Fprintf(c,
		"HTTP/1.1 301 Moved Permanently\r\nLocation: https://%s%s\r\nContent-Length: 0\r\nConnection: close\r\n\r\n",
		host, target)
	if err != nil {
		return domain.ErrClientGone.WithCause(err)
	}
	return nil
}
