// Package listenset manages the gateway's pre-provisioned listener set.
package listenset

import (
	"net"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/consolegate/consolegate-go/internal/core/domain"
)

// Inherited descriptors start after stdin/stdout/stderr.
const listenFdsStart = 3

// Inherited adopts listeners pre-bound by an activation supervisor.
//
// The supervisor passes descriptors starting at fd 3 and describes
// them through LISTEN_FDS and LISTEN_FDNAMES, with LISTEN_PID naming
// the intended recipient. Each name must identify a listener role,
// either directly ("plain", "redirect", "tls") or by socket file name
// ("http.sock", "http-redirect.sock", "https.sock"). All three roles
// must be present.
func Inherited() (*Set, error) {
	if pidStr := os.Getenv("LISTEN_PID"); pidStr != "" {
		pid, err := strconv.Atoi(pidStr)
		if err != nil || pid != os.Getpid() {
			return nil, domain.ErrListenerMissing.WithDetails("LISTEN_PID is for another process")
		}
	}

	n, err := strconv.Atoi(os.Getenv("LISTEN_FDS"))
	if err != nil || n <= 0 {
		return nil, domain.ErrListenerMissing.WithDetails("LISTEN_FDS not set")
	}

	names := strings.Split(os.Getenv("LISTEN_FDNAMES"), ":")

	s := &Set{listeners: make(map[domain.ListenerRole]net.Listener, 3)}
	for i := 0; i < n; i++ {
		fd := listenFdsStart + i

		name := ""
		if i < len(names) {
			name = names[i]
		}
		role, err := roleForName(name)
		if err != nil {
			s.Close()
			return nil, err
		}

		// The descriptor must not leak into child processes.
		syscall.CloseOnExec(fd)

		f := os.NewFile(uintptr(fd), name)
		ln, err := net.FileListener(f)
		f.Close()
		if err != nil {
			s.Close()
			return nil, domain.ErrListenerInvalid.WithDetails("fd " + strconv.Itoa(fd) + " (" + name + ")").WithCause(err)
		}
		s.listeners[role] = ln
	}

	for _, role := range domain.Roles() {
		if s.listeners[role] == nil {
			s.Close()
			return nil, domain.ErrListenerMissing.WithDetails(string(role))
		}
	}

	return s, nil
}

// roleForName resolves an inherited descriptor name to a listener role.
func roleForName(name string) (domain.ListenerRole, error) {
	switch name {
	case SockPlain:
		return domain.RolePlain, nil
	case SockRedirect:
		return domain.RoleRedirect, nil
	case SockTLS:
		return domain.RoleTLS, nil
	}
	role, err := domain.ParseListenerRole(name)
	if err != nil {
		return "", domain.ErrListenerInvalid.WithDetails("unrecognized descriptor name: " + name)
	}
	return role, nil
}
