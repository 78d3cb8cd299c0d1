// Package domain defines the core domain models for ConsoleGate.
//
// Domain models are pure value objects without any IO dependencies
// or framework coupling.
package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// ConnIDPrefix is the prefix for connection IDs.
// Format: cgc-{ulid_lowercase}, 30 characters total.
const ConnIDPrefix = "cgc-"

// ListenerRole identifies which listener a connection arrived on.
type ListenerRole string

const (
	// RolePlain serves plaintext HTTP directly.
	RolePlain ListenerRole = "plain"

	// RoleRedirect answers plaintext requests with a redirect to HTTPS
	// while TLS is configured, and serves plainly otherwise.
	RoleRedirect ListenerRole = "redirect"

	// RoleTLS expects TLS but falls back per sniff result.
	RoleTLS ListenerRole = "tls"
)

// Roles lists all listener roles in provisioning order.
func Roles() []ListenerRole {
	return []ListenerRole{RolePlain, RoleRedirect, RoleTLS}
}

// ParseListenerRole parses a role name.
func ParseListenerRole(s string) (ListenerRole, error) {
	switch ListenerRole(strings.ToLower(s)) {
	case RolePlain:
		return RolePlain, nil
	case RoleRedirect:
		return RoleRedirect, nil
	case RoleTLS:
		return RoleTLS, nil
	}
	return "", ErrConfigInvalid.WithDetails("unknown listener role: " + s)
}

// Protocol is the classification assigned to a connection by the first
// bytes it sends. The classification is final for the connection's lifetime.
type Protocol string

const (
	// ProtocolUnknown means no first byte has been observed yet.
	ProtocolUnknown Protocol = "unknown"

	// ProtocolPlain means the first byte was not a TLS handshake record.
	ProtocolPlain Protocol = "plain"

	// ProtocolTLS means the first byte opened a TLS handshake record.
	ProtocolTLS Protocol = "tls"
)

// ClientCertMode selects the client certificate policy for TLS sessions.
type ClientCertMode string

const (
	// CertModeNone never requests a client certificate.
	CertModeNone ClientCertMode = "none"

	// CertModeRequest requests a certificate but accepts its absence and
	// does not verify a presented one.
	CertModeRequest ClientCertMode = "request"

	// CertModeRequire rejects the handshake unless a verifiable,
	// unexpired certificate is presented.
	CertModeRequire ClientCertMode = "require"
)

// ParseClientCertMode parses a client certificate mode name.
func ParseClientCertMode(s string) (ClientCertMode, error) {
	switch ClientCertMode(strings.ToLower(s)) {
	case CertModeNone, ClientCertMode(""):
		return CertModeNone, nil
	case CertModeRequest:
		return CertModeRequest, nil
	case CertModeRequire:
		return CertModeRequire, nil
	}
	return "", ErrConfigInvalid.WithDetails("unknown client certificate mode: " + s)
}

// ConnState is a connection's lifecycle stage. Transitions only move
// forward; terminal failure at any stage jumps to StateClosing.
type ConnState string

const (
	// StateAccepted: socket accepted, no bytes observed.
	StateAccepted ConnState = "accepted"

	// StateSniffing: waiting for the first byte.
	StateSniffing ConnState = "sniffing"

	// StateHandshaking: TLS handshake in progress.
	StateHandshaking ConnState = "handshaking"

	// StateRedirecting: plaintext request being answered with a redirect.
	StateRedirecting ConnState = "redirecting"

	// StateEstablished: application bytes are flowing.
	StateEstablished ConnState = "established"

	// StateClosing: teardown in progress.
	StateClosing ConnState = "closing"

	// StateClosed: fully released, about to leave the registry.
	StateClosed ConnState = "closed"
)

// Terminal reports whether no further forward transition exists.
func (s ConnState) Terminal() bool {
	return s == StateClosed
}

// ValidTransition reports whether moving from one lifecycle stage to
// another is legal. Every stage may fail into StateClosing.
func ValidTransition(from, to ConnState) bool {
	if to == StateClosing {
		return from != StateClosing && from != StateClosed
	}
	switch from {
	case StateAccepted:
		return to == StateSniffing
	case StateSniffing:
		return to == StateHandshaking || to == StateRedirecting || to == StateEstablished
	case StateHandshaking:
		return to == StateEstablished
	case StateRedirecting:
		return false
	case StateEstablished:
		return false
	case StateClosing:
		return to == StateClosed
	}
	return false
}

// GenerateConnID generates a new connection ID using ULID.
// Format: cgc-{ulid_lowercase}, 30 characters total.
func GenerateConnID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrInternalServer.WithCause(err)
	}
	return ConnIDPrefix + strings.ToLower(id.String()), nil
}

// IsValidConnID checks if a string is a valid connection ID format.
func IsValidConnID(id string) bool {
	id = strings.ToLower(id)
	if !strings.HasPrefix(id, ConnIDPrefix) {
		return false
	}

	// cgc- (4) + ULID (26) = 30 characters
	if len(id) != 30 {
		return false
	}

	ulidPart := strings.ToUpper(id[len(ConnIDPrefix):])
	_, err := ulid.Parse(ulidPart)
	return err == nil
}

// ConnInfo is an immutable snapshot of a tracked connection, as exposed
// on the management surface.
type ConnInfo struct {
	// ID is the unique connection identifier (cgc-{ulid}).
	ID string `json:"id"`

	// RemoteAddr is the peer address as reported by the socket.
	RemoteAddr string `json:"remote_addr"`

	// Listener is the role of the listener that accepted the connection.
	Listener ListenerRole `json:"listener"`

	// Protocol is the sniffed classification.
	Protocol Protocol `json:"protocol"`

	// State is the lifecycle stage at snapshot time.
	State ConnState `json:"state"`

	// PeerSubject is the subject CN of a verified client certificate,
	// empty when none was presented.
	PeerSubject string `json:"peer_subject,omitempty"`

	// AcceptedAt is the accept timestamp (Unix milliseconds).
	AcceptedAt int64 `json:"accepted_at"`
}

// AcceptedAtTime returns AcceptedAt as time.Time.
func (c ConnInfo) AcceptedAtTime() time.Time {
	return time.UnixMilli(c.AcceptedAt)
}

// Age returns how long the connection has been alive at the given instant.
func (c ConnInfo) Age(now time.Time) time.Duration {
	d := now.Sub(c.AcceptedAtTime())
	if d < 0 {
		return 0
	}
	return d
}
