// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/masumhasan/comAI/pkg/core/engine"
	"github.com/masumhasan/comAI/pkg/core/schema"
	"github.com/masumhasan/comAI/pkg/observability/logging"
)

// Handler implements the HTTP adapter
type Handler struct {
	engine *engine.Engine
	logger *logging.Logger
	mux    *http.ServeMux
}

// New creates a new HTTP handler
func New(eng *engine.Engine, logger *logging.Logger) *Handler {
	h := &Handler{
		engine: eng,
		logger: logger,
		mux:    http.NewServeMux(),
	}

	// Register routes
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /{$}", h.handleRoot)
	h.mux.HandleFunc("POST /{$}", h.handleAsk)

	// Versioned API
	h.mux.HandleFunc("POST /v1/ask", h.handleAsk)
	h.mux.HandleFunc("POST /v1/documents", h.handleAddDocuments)
	h.mux.HandleFunc("POST /v1/search", h.handleSearch)
	h.mux.HandleFunc("GET /v1/history", h.handleHistory)

	return h
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Request",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	h.mux.ServeHTTP(w, r)
}

// handleHealth handles health check requests
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleRoot keeps the historical hello response of the original service.
func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"Hello": "WORLD"})
}

// handleAsk handles question answering requests
func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req schema.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, schema.NewValidationError("failed to parse request body"))
		return
	}

	resp, err := h.engine.Ask(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// handleAddDocuments indexes texts into the corpus
func (h *Handler) handleAddDocuments(w http.ResponseWriter, r *http.Request) {
	var req schema.AddDocumentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, schema.NewValidationError("failed to parse request body"))
		return
	}

	resp, err := h.engine.AddDocuments(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// handleSearch runs a raw similarity search
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req schema.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, schema.NewValidationError("failed to parse request body"))
		return
	}

	resp, err := h.engine.Search(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// handleHistory lists recorded exchanges
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.writeError(w, schema.NewValidationError("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	exchanges, err := h.engine.History(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if exchanges == nil {
		exchanges = []*schema.Exchange{}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"exchanges": exchanges})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps typed engine errors to distinct response codes instead of
// collapsing every failure into one generic message.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var typed *schema.Error
	if !errors.As(err, &typed) {
		typed = schema.NewInternalError("unexpected error", err)
	}

	h.logger.Error("Request failed", "code", typed.Code, "error", err)

	h.writeJSON(w, typed.HTTPStatus(), map[string]any{
		"error": map[string]string{
			"type":    string(typed.Code),
			"message": typed.Message,
		},
	})
}
