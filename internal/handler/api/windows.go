// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/skinpatch/internal/dom"
	"github.com/olegiv/skinpatch/internal/window"
)

// WindowResponse describes one host window.
type WindowResponse struct {
	Handle    string   `json:"handle"`
	Title     string   `json:"title"`
	ClassList []string `json:"classList"`
	Patched   bool     `json:"patched"`
}

func windowResponse(rec *window.Record) WindowResponse {
	classes := rec.ClassList
	if classes == nil {
		classes = []string{}
	}
	return WindowResponse{Handle: rec.Handle, Title: rec.Title, ClassList: classes, Patched: rec.Patched()}
}

// ListWindows returns every known window.
func (h *Handler) ListWindows(w http.ResponseWriter, _ *http.Request) {
	recs := h.registry.Windows()
	out := make([]WindowResponse, len(recs))
	for i, rec := range recs {
		out[i] = windowResponse(rec)
	}
	WriteSuccess(w, out)
}

// OpenWindow registers the posted HTML document as a new window. The title
// comes from the X-Window-Title header, else from the document's <title>.
// Patching happens asynchronously on the coordinator's event loop.
func (h *Handler) OpenWindow(w http.ResponseWriter, r *http.Request) {
	doc, err := dom.Parse(http.MaxBytesReader(w, r.Body, maxWindowBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "too_large", "Document too large")
			return
		}
		WriteBadRequest(w, "Invalid HTML document")
		return
	}

	var rec *window.Record
	if title := strings.TrimSpace(r.Header.Get("X-Window-Title")); title != "" {
		rec = h.registry.Open(title, window.Params{
			HTMLClass: strings.Join(doc.HTMLClass(), " "),
			BodyClass: strings.Join(doc.BodyClass(), " "),
		}, doc)
	} else {
		rec = h.registry.OpenDocument(doc)
	}
	WriteCreated(w, windowResponse(rec))
}

// GetWindow renders a window's current document.
func (h *Handler) GetWindow(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.registry.Get(chi.URLParam(r, "handle"))
	if !ok {
		WriteNotFound(w, "Window not found")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = rec.Document.Render(w)
}
