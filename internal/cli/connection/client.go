// Package connection provides management socket access for consolegate-cli.
package connection

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// baseURL is a placeholder origin; the transport ignores the host and
// dials the management socket instead.
const baseURL = "http://consolegate"

// Client provides HTTP communication with a gateway management socket.
type Client struct {
	socketPath string
	client     *http.Client
}

// NewClient creates a client for the given management socket path.
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					var d net.Dialer
					return d.DialContext(ctx, "unix", socketPath)
				},
				DisableKeepAlives: true,
			},
		},
	}
}

// Get performs a GET request against the management API.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", "consolegate-cli/1.0")
	return c.client.Do(req)
}

// GetText performs a GET request and returns the response body as text.
// Used for the raw metrics exposition.
func (c *Client) GetText(ctx context.Context, path string) (string, error) {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(body), nil
}

// SocketPath returns the socket path the client dials.
func (c *Client) SocketPath() string {
	return c.socketPath
}

// ParseResponse parses a JSON response body into the target struct.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		var errResp struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("[%s] %s", errResp.Code, errResp.Message)
		}
		if msg := strings.TrimSpace(string(body)); msg != "" {
			return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}

	return nil
}
