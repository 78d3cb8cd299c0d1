// Package config provides local configuration for the ConsoleGate CLI.
//
// This package defines CLI-specific configuration:
//
//   - spec.go: CLIConfig struct (~/.consolegate/cli.yaml)
//   - loader.go: YAML loading and saving
//
// Configuration includes:
//
//   - The default management socket
//   - Named gateway entries for hosts running several gateways
//   - Output format preferences
package config
