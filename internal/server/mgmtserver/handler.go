package mgmtserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/consolegate/consolegate-go/internal/core/service"
)

// Handler routes management API requests.
type Handler struct {
	status  *service.StatusService
	metrics http.Handler
	logger  *slog.Logger
	mux     *http.ServeMux
}

// NewHandler creates the management API handler. metrics serves the
// prometheus exposition; nil disables the /metrics route.
func NewHandler(status *service.StatusService, metrics http.Handler, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		status:  status,
		metrics: metrics,
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// registerRoutes registers all management routes.
func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /status", h.handleStatus)
	h.mux.HandleFunc("GET /connections", h.handleConnections)
	if h.metrics != nil {
		h.mux.Handle("GET /metrics", h.metrics)
	}
}

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleStatus handles GET /status.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.status.Status())
}

// handleConnections handles GET /connections.
func (h *Handler) handleConnections(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.status.Connections())
}

// writeJSON writes a JSON response.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
