// Package config defines the consolegate-server configuration.
//
// The configuration is split into sections mapped by koanf tags:
//
//   - spec.go: section structs
//   - default.go: default constants and Default()
//   - verify.go: startup validation (CG-CONF errors, fatal)
//   - sanitize.go: normalization applied after loading
//
// Loading precedence is defaults < YAML file < CONSOLEGATE_*
// environment, handled by internal/infra/confloader. The loaded
// ServerConfig is immutable for the process lifetime.
package config
