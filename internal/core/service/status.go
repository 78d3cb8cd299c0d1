// Package service provides domain services for ConsoleGate.
//
// StatusService assembles the snapshots served on the management socket.
package service

import (
	"os"
	"time"

	"github.com/consolegate/consolegate-go/internal/core/domain"
	"github.com/consolegate/consolegate-go/internal/infra/buildinfo"
	"github.com/consolegate/consolegate-go/internal/infra/certbundle"
)

// Core defines the gateway interface for status operations.
type Core interface {
	// TLSConfigured reports whether the gateway terminates TLS.
	TLSConfigured() bool

	// ClientCertMode returns the active client certificate policy.
	ClientCertMode() domain.ClientCertMode

	// IdleGrace returns the idle-exit grace period, zero when disabled.
	IdleGrace() time.Duration

	// NumConnections reports the exact number of live connections.
	NumConnections() int

	// TotalConnections reports how many connections have ever been accepted.
	TotalConnections() uint64

	// Connections lists live connections ordered by accept time.
	Connections() []domain.ConnInfo
}

// StatusService serves gateway status and connection snapshots.
type StatusService struct {
	core    Core
	store   *certbundle.Store // nil when TLS is not configured
	build   buildinfo.Info
	started time.Time
}

// NewStatusService creates a new StatusService. A nil store means TLS is
// not configured and the status carries no certificate section.
func NewStatusService(core Core, store *certbundle.Store) *StatusService {
	return &StatusService{
		core:    core,
		store:   store,
		build:   buildinfo.Get(),
		started: time.Now(),
	}
}

// ============================================================================
// Status Operation
// ============================================================================

// StatusResponse is the gateway status snapshot.
type StatusResponse struct {
	Version          string `json:"version"`
	Commit           string `json:"commit"`
	GoVersion        string `json:"go_version"`
	PID              int    `json:"pid"`
	StartedAt        int64  `json:"started_at"` // Unix MS
	UptimeSeconds    int64  `json:"uptime_seconds"`
	TLS              bool   `json:"tls"`
	ClientCertMode   string `json:"client_cert_mode"`
	IdleGraceSeconds int64  `json:"idle_grace_seconds"` // 0 = idle exit disabled
	ConnectionsOpen  int    `json:"connections_open"`
	ConnectionsTotal uint64 `json:"connections_total"`

	Certificate *CertificateStatus `json:"certificate,omitempty"`
}

// CertificateStatus describes the certificate currently being served.
// Hot reloads swap the bundle, so this is read fresh on every call.
type CertificateStatus struct {
	File        string   `json:"file"`
	Subject     string   `json:"subject"`
	Issuer      string   `json:"issuer"`
	DNSNames    []string `json:"dns_names,omitempty"`
	NotBefore   int64    `json:"not_before"` // Unix MS
	NotAfter    int64    `json:"not_after"`  // Unix MS
	Fingerprint string   `json:"fingerprint"`
	LoadedAt    int64    `json:"loaded_at"` // Unix MS
}

// Status assembles the current gateway status.
func (s *StatusService) Status() *StatusResponse {
	now := time.Now()

	resp := &StatusResponse{
		Version:          s.build.Version,
		Commit:           s.build.Commit,
		GoVersion:        s.build.GoVersion,
		PID:              os.Getpid(),
		StartedAt:        s.started.UnixMilli(),
		UptimeSeconds:    int64(now.Sub(s.started) / time.Second),
		TLS:              s.core.TLSConfigured(),
		ClientCertMode:   string(s.core.ClientCertMode()),
		IdleGraceSeconds: int64(s.core.IdleGrace() / time.Second),
		ConnectionsOpen:  s.core.NumConnections(),
		ConnectionsTotal: s.core.TotalConnections(),
	}

	if s.store != nil {
		resp.Certificate = summarize(s.store.Bundle())
	}
	return resp
}

// summarize builds the status view of a loaded bundle.
func summarize(b *certbundle.Bundle) *CertificateStatus {
	if b == nil {
		return nil
	}
	leaf := b.Leaf()
	return &CertificateStatus{
		File:        b.CertFile(),
		Subject:     leaf.Subject.String(),
		Issuer:      leaf.Issuer.String(),
		DNSNames:    leaf.DNSNames,
		NotBefore:   leaf.NotBefore.UnixMilli(),
		NotAfter:    b.Expiry().UnixMilli(),
		Fingerprint: b.Fingerprint(),
		LoadedAt:    b.LoadedAt().UnixMilli(),
	}
}

// ============================================================================
// Connections Operation
// ============================================================================

// ConnectionsResponse lists live connections at snapshot time.
type ConnectionsResponse struct {
	Count int               `json:"count"`
	Items []domain.ConnInfo `json:"items"`
}

// Connections snapshots the live connection set, ordered by accept time.
func (s *StatusService) Connections() *ConnectionsResponse {
	items := s.core.Connections()
	if items == nil {
		items = []domain.ConnInfo{}
	}
	return &ConnectionsResponse{
		Count: len(items),
		Items: items,
	}
}
