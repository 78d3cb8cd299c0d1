package connection

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// startSocketServer serves the handler on a fresh unix socket and
// returns the socket path. Sockets live under os.MkdirTemp because
// unix socket paths are length-capped and t.TempDir can exceed it.
func startSocketServer(t *testing.T, handler http.Handler) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "cgcli")
	if err != nil {
		t.Fatalf("MkdirTemp() error = %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "mgmt.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("Listen(unix) error = %v", err)
	}

	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	t.Cleanup(func() { srv.Close() })

	return path
}

func TestNewClient(t *testing.T) {
	client := NewClient("/run/consolegate/mgmt.sock")
	if client == nil {
		t.Fatal("NewClient returned nil")
	}
	if client.SocketPath() != "/run/consolegate/mgmt.sock" {
		t.Errorf("SocketPath() = %q, want %q", client.SocketPath(), "/run/consolegate/mgmt.sock")
	}
}

func TestClient_Get(t *testing.T) {
	path := startSocketServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %q, want GET", r.Method)
		}
		if r.URL.Path != "/status" {
			t.Errorf("path = %q, want /status", r.URL.Path)
		}
		if r.Header.Get("User-Agent") != "consolegate-cli/1.0" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"version":"dev"}`))
	}))

	client := NewClient(path)
	resp, err := client.Get(context.Background(), "/status")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Version != "dev" {
		t.Errorf("version = %q, want dev", body.Version)
	}
}

func TestClient_Get_SocketMissing(t *testing.T) {
	client := NewClient("/nonexistent/consolegate-test.sock")
	if _, err := client.Get(context.Background(), "/health"); err == nil {
		t.Error("Get() expected error for missing socket")
	}
}

func TestClient_GetText(t *testing.T) {
	const exposition = "# HELP consolegate_connections_open Connections currently being handled.\nconsolegate_connections_open 0\n"

	path := startSocketServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, exposition)
	}))

	client := NewClient(path)
	text, err := client.GetText(context.Background(), "/metrics")
	if err != nil {
		t.Fatalf("GetText() error = %v", err)
	}
	if text != exposition {
		t.Errorf("GetText() = %q, want %q", text, exposition)
	}
}

func TestClient_GetText_ErrorStatus(t *testing.T) {
	path := startSocketServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	client := NewClient(path)
	if _, err := client.GetText(context.Background(), "/metrics"); err == nil {
		t.Error("GetText() expected error for 500 response")
	}
}

func TestParseResponse(t *testing.T) {
	t.Run("decodes success body", func(t *testing.T) {
		resp := makeResponse(http.StatusOK, `{"count":2}`)

		var body struct {
			Count int `json:"count"`
		}
		if err := ParseResponse(resp, &body); err != nil {
			t.Fatalf("ParseResponse() error = %v", err)
		}
		if body.Count != 2 {
			t.Errorf("count = %d, want 2", body.Count)
		}
	})

	t.Run("nil target drains body", func(t *testing.T) {
		resp := makeResponse(http.StatusOK, `{"ignored":true}`)
		if err := ParseResponse(resp, nil); err != nil {
			t.Errorf("ParseResponse() error = %v", err)
		}
	})

	t.Run("structured error body", func(t *testing.T) {
		resp := makeResponse(http.StatusBadRequest, `{"code":"CG-CONF-1000","message":"invalid configuration"}`)

		err := ParseResponse(resp, nil)
		if err == nil {
			t.Fatal("ParseResponse() expected error")
		}
		if !strings.Contains(err.Error(), "CG-CONF-1000") {
			t.Errorf("error %q missing code", err)
		}
		if !strings.Contains(err.Error(), "invalid configuration") {
			t.Errorf("error %q missing message", err)
		}
	})

	t.Run("plain text error body", func(t *testing.T) {
		resp := makeResponse(http.StatusNotFound, "404 page not found")

		err := ParseResponse(resp, nil)
		if err == nil {
			t.Fatal("ParseResponse() expected error")
		}
		if !strings.Contains(err.Error(), "404") {
			t.Errorf("error %q missing status", err)
		}
		if !strings.Contains(err.Error(), "page not found") {
			t.Errorf("error %q missing body text", err)
		}
	})

	t.Run("empty error body", func(t *testing.T) {
		resp := makeResponse(http.StatusServiceUnavailable, "")

		err := ParseResponse(resp, nil)
		if err == nil {
			t.Fatal("ParseResponse() expected error")
		}
		if !strings.Contains(err.Error(), "503") {
			t.Errorf("error %q missing status", err)
		}
	})

	t.Run("malformed success body", func(t *testing.T) {
		resp := makeResponse(http.StatusOK, "{not json")

		var body map[string]any
		if err := ParseResponse(resp, &body); err == nil {
			t.Error("ParseResponse() expected error for malformed body")
		}
	})
}

// makeResponse builds an *http.Response with the given body.
func makeResponse(status int, body string) *http.Response {
	rec := httptest.NewRecorder()
	rec.WriteHeader(status)
	rec.WriteString(body)
	return rec.Result()
}
