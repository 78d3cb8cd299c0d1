// Package connection provides management socket access for the
// ConsoleGate CLI.
//
// The gateway exposes its management API on a local Unix socket. This
// package wraps that transport:
//
//   - client.go: HTTP client dialing the socket for every request
//   - manager.go: Named endpoints and connectivity probing
//
// The socket is reachable only from the local host; requests carry no
// credentials.
package connection
