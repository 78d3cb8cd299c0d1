// Package config defines the server configuration structure.
package config

import "strings"

// Normalize returns a copy of the config with string enumerations
// lowercased and zero-valued timeouts replaced by their defaults.
// Loading never mutates the input.
func Normalize(cfg *ServerConfig) *ServerConfig {
	n := *cfg

	n.Listen.Mode = strings.ToLower(strings.TrimSpace(n.Listen.Mode))
	n.Security.ClientCertMode = strings.ToLower(strings.TrimSpace(n.Security.ClientCertMode))
	n.Log.Level = strings.ToLower(strings.TrimSpace(n.Log.Level))
	n.Log.Format = strings.ToLower(strings.TrimSpace(n.Log.Format))

	if n.Listen.Mode == "" {
		n.Listen.Mode = DefaultListenMode
	}
	if n.Security.ClientCertMode == "" {
		n.Security.ClientCertMode = DefaultClientCertMode
	}
	if n.Gateway.SniffTimeout == 0 {
		n.Gateway.SniffTimeout = DefaultSniffTimeout
	}
	if n.Gateway.HandshakeTimeout == 0 {
		n.Gateway.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if n.Gateway.WriteTimeout == 0 {
		n.Gateway.WriteTimeout = DefaultWriteTimeout
	}

	return &n
}
