// Package connection provides management socket access for consolegate-cli.
package connection

import (
	"context"
	"fmt"
)

// Manager tracks the management endpoint the CLI is talking to.
type Manager struct {
	current *Endpoint
}

// Endpoint identifies one gateway's management socket.
type Endpoint struct {
	Name   string
	Socket string
}

// NewManager creates a new endpoint manager.
func NewManager() *Manager {
	return &Manager{}
}

// Connect probes the endpoint's socket and sets it as current.
func (m *Manager) Connect(ctx context.Context, ep *Endpoint) error {
	if ep == nil || ep.Socket == "" {
		return fmt.Errorf("endpoint has no socket path")
	}

	client := NewClient(ep.Socket)
	resp, err := client.Get(ctx, "/health")
	if err != nil {
		return fmt.Errorf("probe %s: %w", ep.Socket, err)
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := ParseResponse(resp, &health); err != nil {
		return fmt.Errorf("probe %s: %w", ep.Socket, err)
	}
	if health.Status != "healthy" {
		return fmt.Errorf("gateway at %s reports %q", ep.Socket, health.Status)
	}

	m.current = ep
	return nil
}

// Disconnect clears the current endpoint.
func (m *Manager) Disconnect() {
	m.current = nil
}

// Current returns the current endpoint, nil when not connected.
func (m *Manager) Current() *Endpoint {
	return m.current
}

// IsConnected reports whether an endpoint has been probed successfully.
func (m *Manager) IsConnected() bool {
	return m.current != nil
}
