package command

import (
	"encoding/json"
	"flag"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	cliconfig "github.com/consolegate/consolegate-go/internal/cli/config"
	"github.com/consolegate/consolegate-go/internal/cli/connection"
)

// mockGateway serves canned management API responses over a unix socket.
type mockGateway struct {
	socket   string
	server   *http.Server
	handlers map[string]http.HandlerFunc
}

// newMockGateway starts a mock management server.
func newMockGateway(t *testing.T) *mockGateway {
	t.Helper()

	// Unix socket paths are length-capped, so the socket lives under a
	// short system temp dir rather than t.TempDir.
	dir, err := os.MkdirTemp("", "cgcmd")
	if err != nil {
		t.Fatalf("MkdirTemp() error = %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	m := &mockGateway{
		socket:   filepath.Join(dir, "mgmt.sock"),
		handlers: make(map[string]http.HandlerFunc),
	}

	ln, err := net.Listen("unix", m.socket)
	if err != nil {
		t.Fatalf("Listen(unix) error = %v", err)
	}

	m.server = &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Find handler by path prefix match
			for pattern, handler := range m.handlers {
				if strings.HasPrefix(r.URL.Path, pattern) {
					handler(w, r)
					return
				}
			}
			http.NotFound(w, r)
		}),
	}
	go m.server.Serve(ln)
	t.Cleanup(func() { m.server.Close() })

	return m
}

// handle registers a handler for a path pattern.
func (m *mockGateway) handle(pattern string, handler http.HandlerFunc) {
	m.handlers[pattern] = handler
}

// jsonResponse writes a JSON response.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// errorResponse writes a structured error response.
func errorResponse(w http.ResponseWriter, status int, code, message string) {
	jsonResponse(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}

// testContext creates a CLI context pointed at the mock gateway.
func testContext(gw *mockGateway, args ...string) *cli.Context {
	app := &cli.App{
		Name:  "test",
		Flags: globalFlags(),
		Metadata: map[string]any{
			"cliConfig": cliconfig.Default(),
			"connMgr":   connection.NewManager(),
		},
	}

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range app.Flags {
		f.Apply(set)
	}

	fullArgs := []string{"--socket", gw.socket}
	fullArgs = append(fullArgs, args...)
	set.Parse(fullArgs)

	return cli.NewContext(app, set, nil)
}

// makeTestContext creates a CLI context with extra command-local flags.
// extraFlags maps flag name to its value; args are positional. A nil
// gateway is allowed for commands that never touch the socket.
func makeTestContext(gw *mockGateway, extraFlags map[string]any, args []string) *cli.Context {
	app := &cli.App{
		Name:  "test",
		Flags: globalFlags(),
		Metadata: map[string]any{
			"cliConfig": cliconfig.Default(),
			"connMgr":   connection.NewManager(),
		},
	}

	allFlags := append([]cli.Flag{}, globalFlags()...)
	existing := make(map[string]bool)
	for _, f := range allFlags {
		for _, name := range f.Names() {
			existing[name] = true
		}
	}
	for name, val := range extraFlags {
		if existing[name] {
			continue
		}
		switch val.(type) {
		case string:
			allFlags = append(allFlags, &cli.StringFlag{Name: name})
		case bool:
			allFlags = append(allFlags, &cli.BoolFlag{Name: name})
		}
	}

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range allFlags {
		f.Apply(set)
	}

	var cliArgs []string
	if gw != nil {
		cliArgs = append(cliArgs, "--socket", gw.socket)
	}
	for name, val := range extraFlags {
		switch v := val.(type) {
		case string:
			if v != "" {
				cliArgs = append(cliArgs, "--"+name, v)
			}
		case bool:
			if v {
				cliArgs = append(cliArgs, "--"+name)
			}
		}
	}
	cliArgs = append(cliArgs, args...)
	set.Parse(cliArgs)

	return cli.NewContext(app, set, nil)
}

// sampleStatusDoc is a plausible /status response body.
func sampleStatusDoc(tls bool) map[string]any {
	doc := map[string]any{
		"version":            "1.0.0",
		"commit":             "abc1234",
		"go_version":         "go1.24",
		"pid":                4242,
		"started_at":         1756070000000,
		"uptime_seconds":     5400,
		"tls":                tls,
		"client_cert_mode":   "none",
		"idle_grace_seconds": 90,
		"connections_open":   2,
		"connections_total":  150,
	}
	if tls {
		doc["client_cert_mode"] = "require"
		doc["certificate"] = map[string]any{
			"file":        "/etc/consolegate/ws.crt",
			"subject":     "CN=console.example.com",
			"issuer":      "CN=Example CA",
			"dns_names":   []string{"console.example.com"},
			"not_before":  1756000000000,
			"not_after":   1787600000000,
			"fingerprint": "0b32f6e2d1aa41c9",
			"loaded_at":   1756070000000,
		}
	}
	return doc
}

// sampleConnDoc is a plausible entry in the /connections listing.
func sampleConnDoc(id string) map[string]any {
	return map[string]any{
		"id":          id,
		"remote_addr": "@",
		"listener":    "tls",
		"protocol":    "tls",
		"state":       "active",
		"accepted_at": 1756070000000,
	}
}
