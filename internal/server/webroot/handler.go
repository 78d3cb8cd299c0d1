// Package webroot serves the console's static document root.
//
// It is the request-handler collaborator behind the gateway core:
// connections that sniff as plaintext or complete a TLS handshake are
// served from here. Only safe methods are admitted and every path is
// resolved strictly inside the configured root.
package webroot

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// indexPage is served for requests to the root path.
const indexPage = "index.html"

// Handler serves files from a document root directory.
type Handler struct {
	root   string
	logger *slog.Logger
}

// New creates a document root handler. An empty root serves nothing:
// every request gets the not-found page.
func New(root string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{root: root, logger: logger}
}

// Root returns the configured document root directory.
func (h *Handler) Root() string {
	return h.root
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if containsDotDot(r.URL.Path) {
		http.Error(w, "invalid URL path", http.StatusBadRequest)
		return
	}

	p := path.Clean("/" + r.URL.Path)
	if p == "/" {
		p = "/" + indexPage
	}

	if h.root == "" {
		h.notFound(w, r)
		return
	}

	full := filepath.Join(h.root, filepath.FromSlash(p))
	fi, err := os.Stat(full)
	if err != nil || fi.IsDir() {
		h.notFound(w, r)
		return
	}

	f, err := os.Open(full)
	if err != nil {
		h.logger.Warn("document unreadable", "path", p, "error", err)
		h.notFound(w, r)
		return
	}
	defer f.Close()

	http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
}

// notFound writes an HTML error page. HTML keeps the response subject
// to the gateway's policy headers, like every served page.
func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if r.Method != http.MethodHead {
		w.Write([]byte("<html><head><title>404 Not Found</title></head>" +
			"<body><h1>404 Not Found</h1></body></html>\n"))
	}
}

// containsDotDot reports whether any path segment is "..".
func containsDotDot(p string) bool {
	if !strings.Contains(p, "..") {
		return false
	}
	for _, seg := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}
