// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package window

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/olegiv/skinpatch/internal/patcher"
	"github.com/olegiv/skinpatch/internal/payload"
	"github.com/olegiv/skinpatch/internal/theme"
)

// Coordinator applies the active theme to every host window exactly once,
// sweeping for windows missed while the payload was still loading.
type Coordinator struct {
	registry Registry
	loader   *theme.Loader
	matcher  *patcher.Matcher
	logger   *slog.Logger

	mu      sync.RWMutex
	session *patcher.Session

	passMu sync.Mutex // one pass at a time
}

// NewCoordinator creates a coordinator over the registry.
func NewCoordinator(registry Registry, loader *theme.Loader, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		registry: registry,
		loader:   loader,
		matcher:  patcher.NewMatcher(),
		logger:   logger,
	}
}

// Session returns the active session, or nil before the payload resolved.
func (c *Coordinator) Session() *patcher.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Start subscribes to window creation, awaits the startup payload, sweeps
// every known window and then handles window-created events until ctx is
// done. Windows created while the payload loads are queued and swept.
func (c *Coordinator) Start(ctx context.Context, src payload.Source) error {
	events, unsubscribe := c.registry.Subscribe()
	defer unsubscribe()

	p, err := src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetching startup payload: %w", err)
	}
	c.Activate(payload.BuildSession(p, c.loader, c.logger))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case rec, ok := <-events:
			if !ok {
				return fmt.Errorf("window event stream closed")
			}
			c.logger.Debug("window created", "window", rec.Handle, "title", rec.Title)
			c.Sweep(rec)
		}
	}
}

// Activate installs the session and sweeps all known windows.
func (c *Coordinator) Activate(s *patcher.Session) int {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	return c.Sweep(nil)
}

// Sweep patches every window whose patched flag is unset, then always
// patches trigger (when non-nil) to cover gaps in sweep ordering. Returns
// the number of windows processed. Does nothing before a session is active.
func (c *Coordinator) Sweep(trigger *Record) int {
	s := c.Session()
	if s == nil {
		return 0
	}

	c.passMu.Lock()
	defer c.passMu.Unlock()

	// One snapshot per sweep: every window in it sees the same state.
	snap := s.Snapshot()
	processed := 0
	for _, rec := range c.registry.Windows() {
		if rec.Patched() {
			continue
		}
		c.patchWindow(snap, rec)
		processed++
	}
	if trigger != nil {
		c.patchWindow(snap, trigger)
		processed++
	}
	return processed
}

// patchWindow runs one theming pass. A failure is contained to this window.
func (c *Coordinator) patchWindow(snap patcher.Snapshot, rec *Record) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("window patch panicked", "window", rec.Handle, "title", rec.Title, "panic", r)
		}
	}()

	pc := patcher.NewContext(snap, c.matcher, c.logger)
	report := patcher.PatchDocument(pc, rec.target())
	if rec.markPatched() {
		c.logger.Debug("window patched", "window", rec.Handle, "title", rec.Title,
			"matched", report.MatchedPatches, "injected", report.Injected)
	}
}
