package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/yndnr/snapkv/internal/core/domain"
	"github.com/yndnr/snapkv/internal/core/service"
	"github.com/yndnr/snapkv/internal/telemetry/logger"
)

// Transport-level error codes.
const (
	CodeInvalidBody = "KV-ARG-4001"
	CodeMissingTime = "KV-ARG-4002"
	CodeInternal    = "KV-SYS-5000"
)

// maxBodyBytes bounds admin request bodies.
const maxBodyBytes = 64 * 1024

// Handler serves the snapkv HTTP endpoints.
type Handler struct {
	db    *service.Database
	mux   *http.ServeMux
	ready atomic.Bool
}

// New creates a Handler for db. It reports ready immediately.
func New(db *service.Database) *Handler {
	h := &Handler{
		db:  db,
		mux: http.NewServeMux(),
	}
	h.ready.Store(true)
	h.registerRoutes()
	return h
}

// SetReady toggles the /ready probe, e.g. while shutting down.
func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	h.mux.HandleFunc("GET /admin/backups", h.handleListBackups)
	h.mux.HandleFunc("POST /admin/backups", h.handleCreateBackup)
	h.mux.HandleFunc("POST /admin/restore", h.handleRestore)
	h.mux.HandleFunc("GET /admin/stats", h.handleStats)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	h.write(w, r, status, NewResponse(logger.RequestIDFromContext(r.Context()), data))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message, details string) {
	w.Header().Set("X-Error-Code", code)
	h.write(w, r, status, NewErrorResponse(logger.RequestIDFromContext(r.Context()), code, message, details))
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, body *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.L(r.Context()).Error("failed to encode response", "error", err)
	}
}

// decode reads a JSON body of at most maxBodyBytes, rejecting unknown fields.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.writeError(w, r, http.StatusBadRequest, CodeInvalidBody, "invalid request body", err.Error())
		return false
	}
	return true
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.DomainError
	if errors.As(err, &de) {
		h.writeError(w, r, errorCodeToHTTPStatus(de.Code), de.Code, de.Message, de.Details)
		return
	}

	logger.L(r.Context()).Error("internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, CodeInternal, "internal server error", "")
}

// errorCodeToHTTPStatus maps the numeric suffix of an error code to a status.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.Contains(code, "-ARG-"), strings.HasSuffix(code, "-4000"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
