// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultListenMode = "bind"
	DefaultSocketDir  = "/run/consolegate"

	DefaultClientCertMode = "none"

	DefaultDocRoot          = "/usr/share/consolegate/static"
	DefaultSniffTimeout     = 30 * time.Second
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 30 * time.Second

	// DefaultIdleGrace is the grace applied when idle exit is enabled
	// without an explicit duration. Idle exit itself defaults off.
	DefaultIdleGrace = 90

	DefaultMgmtSocket = "/run/consolegate/mgmt.sock"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Listen: ListenSection{
			Mode: DefaultListenMode,
			Dir:  DefaultSocketDir,
		},
		Security: SecuritySection{
			ClientCertMode: DefaultClientCertMode,
		},
		Gateway: GatewaySection{
			DocRoot:          DefaultDocRoot,
			SniffTimeout:     DefaultSniffTimeout,
			HandshakeTimeout: DefaultHandshakeTimeout,
			WriteTimeout:     DefaultWriteTimeout,
		},
		Process: ProcessSection{
			Idle: 0,
		},
		Mgmt: MgmtSection{
			Socket: DefaultMgmtSocket,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
