// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
)

// StateResponse is the process-wide theming state read by the settings UI.
type StateResponse struct {
	IsDefaultTheme         bool     `json:"isDefaultTheme"`
	ConditionSchemaVersion int      `json:"conditionSchemaVersion"`
	StylesAllowed          bool     `json:"stylesAllowed"`
	ScriptsAllowed         bool     `json:"scriptsAllowed"`
	Theme                  string   `json:"theme,omitempty"`
	Patches                int      `json:"patches"`
	EnabledPluginTags      []string `json:"enabledPluginTags"`
}

// State returns the active theme state.
func (h *Handler) State(w http.ResponseWriter, _ *http.Request) {
	s := h.coordinator.Session()
	if s == nil {
		WriteNotReady(w)
		return
	}
	snap := s.Snapshot()

	resp := StateResponse{
		IsDefaultTheme:         snap.IsDefaultTheme,
		ConditionSchemaVersion: int(snap.Schema),
		StylesAllowed:          snap.StylesAllowed,
		ScriptsAllowed:         snap.ScriptsAllowed,
		Patches:                len(snap.Patches),
		EnabledPluginTags:      snap.EnabledPluginTags,
	}
	if snap.Theme != nil {
		resp.Theme = snap.Theme.NativeID
	}
	WriteSuccess(w, resp)
}

// PermissionsRequest toggles style and script injection.
type PermissionsRequest struct {
	Styles  *bool `json:"styles"`
	Scripts *bool `json:"scripts"`
}

// UpdatePermissions applies the user's toggles. Windows already patched keep
// what they received; later windows follow the new permissions.
func (h *Handler) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	s := h.coordinator.Session()
	if s == nil {
		WriteNotReady(w)
		return
	}

	var req PermissionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}
	if req.Styles == nil && req.Scripts == nil {
		WriteBadRequest(w, "Nothing to update")
		return
	}

	snap := s.Snapshot()
	styles, scripts := snap.StylesAllowed, snap.ScriptsAllowed
	if req.Styles != nil {
		styles = *req.Styles
	}
	if req.Scripts != nil {
		scripts = *req.Scripts
	}
	s.SetPermissions(styles, scripts)
	h.State(w, r)
}

// Diagnostics returns recent warnings and errors.
func (h *Handler) Diagnostics(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, h.diag.Entries())
}
