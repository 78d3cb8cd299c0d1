// Package mgmtserver provides the local management server.
//
// It serves a small HTTP/JSON API over a unix domain socket, giving
// consolegate-cli local access to the running gateway without exposing
// anything on the network:
//
//   - GET /health       liveness probe
//   - GET /status       build info, TLS state, connection counts
//   - GET /connections  live connection snapshots
//   - GET /metrics      prometheus exposition
//
// Security:
//
//   - Only reachable through the unix domain socket
//   - File system permissions control access (the socket is 0600)
//   - No credentials required: local access only
package mgmtserver
