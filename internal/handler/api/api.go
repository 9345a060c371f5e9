// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api exposes the engine state to the settings UI over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/skinpatch/internal/logging"
	"github.com/olegiv/skinpatch/internal/version"
	"github.com/olegiv/skinpatch/internal/window"
)

// maxWindowBody caps the size of an HTML document posted as a new window.
const maxWindowBody = 4 << 20

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	coordinator *window.Coordinator
	registry    *window.MemoryRegistry
	diag        *logging.Diagnostics
	build       version.Info
	startTime   time.Time
}

// NewHandler creates a new API handler.
func NewHandler(c *window.Coordinator, reg *window.MemoryRegistry, diag *logging.Diagnostics, build version.Info) *Handler {
	return &Handler{
		coordinator: c,
		registry:    reg,
		diag:        diag,
		build:       build,
		startTime:   time.Now(),
	}
}

// Routes returns the API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.Health)
	r.Get("/state", h.State)
	r.Put("/permissions", h.UpdatePermissions)
	r.Get("/diagnostics", h.Diagnostics)
	r.Route("/windows", func(r chi.Router) {
		r.Get("/", h.ListWindows)
		r.Post("/", h.OpenWindow)
		r.Get("/{handle}", h.GetWindow)
	})
	return r
}

// Response is the standard API response wrapper.
type Response struct {
	Data any `json:"data,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Response{Data: data})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message)
}

// WriteNotReady writes a 503 response used before the startup payload resolved.
func WriteNotReady(w http.ResponseWriter) {
	WriteError(w, http.StatusServiceUnavailable, "not_ready", "Theme state is not loaded yet")
}
