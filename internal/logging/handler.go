// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides the slog setup and a handler that keeps recent
// WARN and ERROR records so the settings UI can show theming problems.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Diagnostic categories.
const (
	CategoryMatcher  = "matcher"
	CategoryDispatch = "dispatch"
	CategoryLegacy   = "legacy"
	CategoryTheme    = "theme"
	CategoryPayload  = "payload"
	CategoryWindow   = "window"
	CategorySystem   = "system"
)

// Entry is one retained log record.
type Entry struct {
	Time     time.Time         `json:"time"`
	Level    string            `json:"level"`
	Category string            `json:"category"`
	Message  string            `json:"message"`
	Attrs    map[string]string `json:"attrs,omitempty"`
}

// Diagnostics is a fixed-size ring of recent entries. Safe for concurrent use.
type Diagnostics struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

// NewDiagnostics creates a ring holding at most size entries.
func NewDiagnostics(size int) *Diagnostics {
	if size <= 0 {
		size = 100
	}
	return &Diagnostics{entries: make([]Entry, size)}
}

func (d *Diagnostics) add(e Entry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[d.next] = e
	d.next = (d.next + 1) % len(d.entries)
	if d.next == 0 {
		d.full = true
	}
}

// Entries returns retained entries, oldest first.
func (d *Diagnostics) Entries() []Entry {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.full {
		return append([]Entry(nil), d.entries[:d.next]...)
	}
	out := make([]Entry, 0, len(d.entries))
	out = append(out, d.entries[d.next:]...)
	return append(out, d.entries[:d.next]...)
}

// DiagnosticsHandler is a slog.Handler that wraps another handler and also
// records WARN and ERROR level logs into a Diagnostics ring.
type DiagnosticsHandler struct {
	inner slog.Handler
	diag  *Diagnostics
	level slog.Level // Minimum level to retain (default: WARN)
	attrs []slog.Attr
}

// NewDiagnosticsHandler creates a handler retaining WARN and above.
func NewDiagnosticsHandler(inner slog.Handler, diag *Diagnostics) *DiagnosticsHandler {
	return &DiagnosticsHandler{inner: inner, diag: diag, level: slog.LevelWarn}
}

// Enabled implements slog.Handler.
func (h *DiagnosticsHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level) || level >= h.level
}

// Handle implements slog.Handler.
func (h *DiagnosticsHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.level {
		h.diag.add(h.entry(r))
	}
	if !h.inner.Enabled(ctx, r.Level) {
		return nil
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *DiagnosticsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &DiagnosticsHandler{
		inner: h.inner.WithAttrs(attrs),
		diag:  h.diag,
		level: h.level,
		attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...),
	}
}

// WithGroup implements slog.Handler.
func (h *DiagnosticsHandler) WithGroup(name string) slog.Handler {
	return &DiagnosticsHandler{
		inner: h.inner.WithGroup(name),
		diag:  h.diag,
		level: h.level,
		attrs: h.attrs,
	}
}

func (h *DiagnosticsHandler) entry(r slog.Record) Entry {
	e := Entry{Time: r.Time, Level: r.Level.String(), Message: r.Message}

	collect := func(a slog.Attr) bool {
		if a.Key == "category" {
			e.Category = a.Value.String()
			return true
		}
		if e.Attrs == nil {
			e.Attrs = make(map[string]string)
		}
		e.Attrs[a.Key] = a.Value.String()
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(collect)

	if e.Category == "" {
		e.Category = inferCategory(r.Message)
	}
	return e
}

// inferCategory guesses a category from the message.
func inferCategory(msg string) string {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "pattern"):
		return CategoryMatcher
	case strings.Contains(msg, "asset") || strings.Contains(msg, "dispatch"):
		return CategoryDispatch
	case strings.Contains(msg, "legacy") || strings.Contains(msg, "statement"):
		return CategoryLegacy
	case strings.Contains(msg, "payload"):
		return CategoryPayload
	case strings.Contains(msg, "window"):
		return CategoryWindow
	case strings.Contains(msg, "skin") || strings.Contains(msg, "theme") || strings.Contains(msg, "color"):
		return CategoryTheme
	default:
		return CategorySystem
	}
}

// ParseLevel converts a config string to a slog level. Unknown values map to INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger: text output in development, JSON
// otherwise, with WARN and above also retained in diag.
func NewLogger(w io.Writer, level string, development bool, diag *Diagnostics) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var inner slog.Handler
	if development {
		inner = slog.NewTextHandler(w, opts)
	} else {
		inner = slog.NewJSONHandler(w, opts)
	}
	return slog.New(NewDiagnosticsHandler(inner, diag))
}
