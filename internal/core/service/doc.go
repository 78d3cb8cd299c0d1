// Package service provides domain services for ConsoleGate.
//
// Domain services orchestrate operations on domain models for the
// management surface. They define interfaces for their gateway
// dependencies, allowing for dependency injection and testability.
//
// This package contains:
//
//   - StatusService: gateway status, certificate and connection
//     snapshots served over the management socket
//
// Services are stateless and thread-safe; every snapshot is assembled
// from atomic reads on the running core.
package service
