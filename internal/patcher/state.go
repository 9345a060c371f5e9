// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package patcher evaluates a skin against host windows: it matches patches,
// resolves schema v1 and v2 conditions and injects the selected assets.
package patcher

import (
	"slices"
	"sync"

	"github.com/olegiv/skinpatch/internal/theme"
)

// Snapshot is the active theme state at one point in time.
type Snapshot struct {
	Theme                 *theme.Theme
	Patches               []theme.Patch // effective patches, defaults merged
	Selections            theme.ConditionsStore
	IsDefaultTheme        bool
	Schema                theme.ConditionSchema
	StylesAllowed         bool
	ScriptsAllowed        bool
	AccentColorCSS        string
	LegacyGlobalColorsCSS string
	RootColorsCSS         string
	EnabledPluginTags     []string
}

// Session holds the active theme state for the lifetime of the process.
// It is created once from the startup payload; only permissions change later.
type Session struct {
	mu  sync.RWMutex
	cur Snapshot
}

// NewSession creates a session. A nil or failed theme selects the default
// theme. Effective patches and the condition schema are resolved here, once.
func NewSession(s Snapshot) *Session {
	if s.Theme == nil {
		s.IsDefaultTheme = true
	}
	if s.IsDefaultTheme {
		s.Theme = nil
		s.Patches = nil
		s.Schema = theme.SchemaV1
	} else {
		s.Patches = s.Theme.EffectivePatches()
		s.Schema = s.Theme.Schema()
	}
	if s.Selections == nil {
		s.Selections = theme.ConditionsStore{}
	}
	s.EnabledPluginTags = slices.Clone(s.EnabledPluginTags)
	return &Session{cur: s}
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// SetPermissions applies the user's style and script toggles.
func (s *Session) SetPermissions(styles, scripts bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.StylesAllowed = styles
	s.cur.ScriptsAllowed = scripts
}

// IsDefaultTheme reports whether no skin is active.
func (s *Session) IsDefaultTheme() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.IsDefaultTheme
}

// ConditionSchemaVersion returns 1 or 2.
func (s *Session) ConditionSchemaVersion() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int(s.cur.Schema)
}
