// Package domain defines the core domain models for ConsoleGate.
//
// Domain models are pure value objects without any IO dependencies
// or framework coupling. This package contains:
//
//   - Connection identifiers, lifecycle states, and snapshots
//   - Listener roles and protocol classifications
//   - Client certificate policy modes
//   - Errors: gateway error definitions with structured codes
//
// Everything here is safe to share across goroutines: values are
// either immutable or copied on hand-off.
package domain
