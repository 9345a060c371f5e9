// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"runtime"
	"time"
)

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
	Version   string    `json:"version"`
	GitCommit string    `json:"git_commit,omitempty"`
	GoVersion string    `json:"go_version"`
	Windows   int       `json:"windows"`
}

// Health handles GET /health requests. It reports "starting" with a 503
// until the startup payload has been applied.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if h.coordinator.Session() == nil {
		status = "starting"
		code = http.StatusServiceUnavailable
	}

	ver := h.build.Version
	if ver == "" {
		ver = "dev"
	}

	WriteJSON(w, code, HealthStatus{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   ver,
		GitCommit: h.build.GitCommit,
		GoVersion: runtime.Version(),
		Windows:   len(h.registry.Windows()),
	})
}
