// Package config defines the CLI configuration structure.
package config

// CLIConfig is the configuration for consolegate-cli.
type CLIConfig struct {
	// DefaultSocket is the management socket used when no gateway is
	// selected.
	DefaultSocket string `yaml:"default_socket"`
	DefaultOutput string `yaml:"default_output"` // table, json, yaml

	// Gateways are named management sockets, for hosts running more
	// than one gateway.
	Gateways map[string]GatewayConfig `yaml:"gateways,omitempty"`

	// CurrentGateway selects the active entry in Gateways.
	CurrentGateway string `yaml:"current_gateway,omitempty"`
}

// GatewayConfig stores one saved gateway endpoint.
type GatewayConfig struct {
	Socket string `yaml:"socket"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		DefaultSocket: "/run/consolegate/mgmt.sock",
		DefaultOutput: "table",
		Gateways:      make(map[string]GatewayConfig),
	}
}

// ResolveSocket returns the socket of the current gateway, falling back
// to the default socket.
func (c *CLIConfig) ResolveSocket() string {
	if c.CurrentGateway != "" {
		if gw, ok := c.Gateways[c.CurrentGateway]; ok && gw.Socket != "" {
			return gw.Socket
		}
	}
	return c.DefaultSocket
}
