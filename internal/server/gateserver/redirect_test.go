package gateserver

import (
	"fmt"
	"io"
	"net"
	"strings"
	"testing"

	"github.com/consolegate/consolegate-go/internal/core/domain"
)

// ============================================================
// Redirect responses
// ============================================================

// redirectExchange feeds a raw request to respondRedirect over a pipe
// and returns everything written back plus the handler error.
func redirectExchange(t *testing.T, request string) (string, error) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() { client.Close() })

	s := &Server{cfg: DefaultConfig(), logger: discardLogger()}
	c := newConn(server, domain.RoleRedirect, nil)
	c.transition(domain.StateSniffing)

	respCh := make(chan string, 1)
	go func() {
		client.Write([]byte(request))
		b, _ := io.ReadAll(client)
		respCh <- string(b)
	}()

	err := s.respondRedirect(c)
	c.Close()
	return <-respCh, err
}

func TestRedirect_ExactResponse(t *testing.T) {
	resp, err := redirectExchange(t, "GET /some/path?q=1 HTTP/1.1\r\nHost: example.com\r\n\r\n")
	if err != nil {
		t.Fatalf("respondRedirect() error = %v", err)
	}

	want := "HTTP/1.1 301 Moved Permanently\r\n" +
		"Location: https://example.com/some/path?q=1\r\n" +
		"Content-Length: 0\r\n" +
		"Connection: close\r\n\r\n"
	if resp != want {
		t.Errorf("response = %q, want %q", resp, want)
	}
}

func TestRedirect_MethodIndependent(t *testing.T) {
	for _, method := range []string{"GET", "POST", "HEAD", "PUT"} {
		req := fmt.Sprintf("%s /login HTTP/1.1\r\nHost: console.example.com:9090\r\nContent-Length: 0\r\n\r\n", method)
		resp, err := redirectExchange(t, req)
		if err != nil {
			t.Fatalf("respondRedirect(%s) error = %v", method, err)
		}
		if !strings.Contains(resp, "Location: https://console.example.com:9090/login\r\n") {
			t.Errorf("%s response = %q, want the original host and path in Location", method, resp)
		}
		if !strings.HasPrefix(resp, "HTTP/1.1 301 ") {
			t.Errorf("%s response = %q, want a 301", method, resp)
		}
	}
}

// HTTP/1.0 requests may omit Host; the socket address fills in.
func TestRedirect_HostFallback(t *testing.T) {
	resp, err := redirectExchange(t, "GET /x HTTP/1.0\r\n\r\n")
	if err != nil {
		t.Fatalf("respondRedirect() error = %v", err)
	}
	if !strings.Contains(resp, "Location: https://") {
		t.Errorf("response = %q, want a Location header", resp)
	}
	if !strings.Contains(resp, "/x\r\n") {
		t.Errorf("response = %q, want the path preserved", resp)
	}
}

func TestRedirect_Unparsable(t *testing.T) {
	resp, err := redirectExchange(t, "\x01\x02 not http at all\r\n\r\n")
	if !domain.IsGateError(err, domain.ErrRequestUnparsable.Code) {
		t.Errorf("respondRedirect() error = %v, want code %s", err, domain.ErrRequestUnparsable.Code)
	}
	if resp != "" {
		t.Errorf("response = %q, want nothing written", resp)
	}
}
