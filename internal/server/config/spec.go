// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for consolegate-server.
// It is immutable after loading; every component receives either the
// whole struct or the section it needs, by value.
type ServerConfig struct {
	Listen   ListenSection   `koanf:"listen"`
	Security SecuritySection `koanf:"security"`
	Gateway  GatewaySection  `koanf:"gateway"`
	Process  ProcessSection  `koanf:"process"`
	Mgmt     MgmtSection     `koanf:"mgmt"`
	Log      LogSection      `koanf:"log"`
}

// ListenSection configures where the listener set comes from.
type ListenSection struct {
	// Mode selects the listener source: "bind" creates the unix socket
	// trio under Dir, "inherit" adopts descriptors from an activation
	// supervisor, "tcp" binds the three TCP addresses below.
	Mode string `koanf:"mode"`

	// Dir is the runtime socket directory for bind mode.
	Dir string `koanf:"dir"`

	// Plain, Redirect, and TLS are the TCP addresses for tcp mode.
	Plain    string `koanf:"plain"`
	Redirect string `koanf:"redirect"`
	TLS      string `koanf:"tls"`
}

// SecuritySection configures TLS termination and the client
// certificate policy.
type SecuritySection struct {
	// CertFile is the server certificate chain, leaf first. It may
	// also contain the private key (combined file). Empty disables
	// TLS entirely.
	CertFile string `koanf:"cert_file"`

	// KeyFile is the private key; empty when CertFile is combined.
	KeyFile string `koanf:"key_file"`

	// ClientCAFile is the trust file for verifying client
	// certificates in require mode. Empty falls back to system roots.
	ClientCAFile string `koanf:"client_ca_file"`

	// ClientCertMode is the client certificate policy:
	// none, request, or require.
	ClientCertMode string `koanf:"client_cert_mode"`

	// Watch enables certificate hot reload.
	Watch bool `koanf:"watch"`
}

// GatewaySection configures connection handling.
type GatewaySection struct {
	// DocRoot is the directory the default request handler serves.
	// Empty serves a 404 for every path.
	DocRoot string `koanf:"docroot"`

	// SniffTimeout is the ceiling on waiting for a connection's first
	// byte before it is dropped.
	SniffTimeout time.Duration `koanf:"sniff_timeout"`

	// HandshakeTimeout bounds a single TLS handshake.
	HandshakeTimeout time.Duration `koanf:"handshake_timeout"`

	// WriteTimeout bounds response writes produced by the gateway
	// itself (redirects).
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// ProcessSection configures process lifetime.
type ProcessSection struct {
	// Idle is the idle-exit grace period in seconds. When greater
	// than zero the gateway signals idle exit after the live
	// connection count has been zero for this long. Zero disables
	// idle exit. Set via CONSOLEGATE_PROCESS_IDLE.
	Idle int `koanf:"idle"`
}

// MgmtSection configures the local management socket.
type MgmtSection struct {
	// Socket is the unix socket path for the management server.
	// Empty disables the management surface.
	Socket string `koanf:"socket"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
