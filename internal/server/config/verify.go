// Package config defines the server configuration structure.
package config

import (
	"strings"

	"github.com/consolegate/consolegate-go/internal/core/domain"
)

// Verify validates the configuration. It returns a CG-CONF error for
// the first problem found; a server must not start on any of them.
func Verify(cfg *ServerConfig) error {
	if err := verifyListen(&cfg.Listen); err != nil {
		return err
	}
	if err := verifySecurity(&cfg.Security); err != nil {
		return err
	}
	if err := verifyGateway(&cfg.Gateway); err != nil {
		return err
	}
	if cfg.Process.Idle < 0 {
		return domain.ErrConfigInvalid.WithDetails("process.idle must not be negative")
	}
	return nil
}

func verifyListen(cfg *ListenSection) error {
	switch strings.ToLower(cfg.Mode) {
	case "bind":
		if cfg.Dir == "" {
			return domain.ErrConfigInvalid.WithDetails("listen.dir is required in bind mode")
		}
	case "inherit":
		// Descriptor presence is checked when the set is adopted.
	case "tcp":
		if cfg.Plain == "" || cfg.Redirect == "" || cfg.TLS == "" {
			return domain.ErrConfigInvalid.WithDetails("listen.plain, listen.redirect, and listen.tls are required in tcp mode")
		}
	default:
		return domain.ErrConfigInvalid.WithDetails("listen.mode must be bind, inherit, or tcp")
	}
	return nil
}

func verifySecurity(cfg *SecuritySection) error {
	if cfg.KeyFile != "" && cfg.CertFile == "" {
		return domain.ErrConfigInvalid.WithDetails("security.key_file is set without security.cert_file")
	}

	mode, err := domain.ParseClientCertMode(cfg.ClientCertMode)
	if err != nil {
		return err
	}
	if mode != domain.CertModeNone && cfg.CertFile == "" {
		return domain.ErrConfigInvalid.WithDetails("client certificate policy requires TLS to be configured")
	}
	return nil
}

func verifyGateway(cfg *GatewaySection) error {
	if cfg.SniffTimeout < 0 {
		return domain.ErrConfigInvalid.WithDetails("gateway.sniff_timeout must not be negative")
	}
	if cfg.HandshakeTimeout < 0 {
		return domain.ErrConfigInvalid.WithDetails("gateway.handshake_timeout must not be negative")
	}
	if cfg.WriteTimeout < 0 {
		return domain.ErrConfigInvalid.WithDetails("gateway.write_timeout must not be negative")
	}
	return nil
}
