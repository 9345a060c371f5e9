// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package payload reads the startup payload produced by the configuration
// backend and turns it into the session's active theme state.
package payload

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/olegiv/skinpatch/internal/colors"
	"github.com/olegiv/skinpatch/internal/patcher"
	"github.com/olegiv/skinpatch/internal/theme"
)

// DefaultThemeID is the native id the backend sends when no skin is active.
const DefaultThemeID = "__default__"

// ThemeItem identifies the active skin. Data carries the manifest inline;
// when absent the manifest is read from the skins directory.
type ThemeItem struct {
	Native string          `json:"native"`
	Data   json.RawMessage `json:"data,omitempty"`
	Failed bool            `json:"failed,omitempty"`
}

// IsDefault reports whether the item is the no-skin sentinel.
func (t ThemeItem) IsDefault() bool {
	return t.Native == "" || t.Native == DefaultThemeID
}

// Settings are the user's global injection permissions.
type Settings struct {
	Scripts bool `json:"scripts"`
	Styles  bool `json:"styles"`
}

// Payload is fetched once at startup.
type Payload struct {
	ActiveTheme    ThemeItem                        `json:"activeTheme"`
	AccentColor    colors.AccentColor               `json:"accentColor"`
	Conditions     map[string]theme.ConditionsStore `json:"conditions"` // keyed by native id
	Settings       Settings                         `json:"settings"`
	EnabledPlugins []string                         `json:"enabledPlugins"`
	RootColors     []colors.Var                     `json:"rootColors,omitempty"`
}

// Source fetches the startup payload.
type Source interface {
	Fetch(ctx context.Context) (*Payload, error)
}

// Decode parses a payload document.
func Decode(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing payload: %w", err)
	}
	return &p, nil
}

// BuildSession resolves the payload into the session state. Any failure to
// obtain the skin selects the default theme; color failures only drop the
// affected block.
func BuildSession(p *Payload, loader *theme.Loader, logger *slog.Logger) *patcher.Session {
	snap := patcher.Snapshot{
		StylesAllowed:     p.Settings.Styles,
		ScriptsAllowed:    p.Settings.Scripts,
		EnabledPluginTags: pluginTags(p.EnabledPlugins),
	}

	th, err := resolveTheme(p.ActiveTheme, loader)
	if err != nil {
		logger.Warn("skin failed to load; using default theme", "theme", p.ActiveTheme.Native, "error", err)
	}
	if th == nil {
		snap.IsDefaultTheme = true
		return patcher.NewSession(snap)
	}
	snap.Theme = th
	snap.Selections = p.Conditions[th.NativeID]

	if strings.TrimSpace(p.AccentColor.Accent) != "" {
		if css, err := colors.AccentCSS(p.AccentColor); err != nil {
			logger.Warn("accent color rejected", "error", err)
		} else {
			snap.AccentColorCSS = css
		}
	}
	if css, err := colors.GlobalColorsCSS(th.GlobalColors); err != nil {
		logger.Warn("legacy global colors rejected", "theme", th.NativeID, "error", err)
	} else {
		snap.LegacyGlobalColorsCSS = css
	}
	if css, err := colors.RootColorsCSS(p.RootColors); err != nil {
		logger.Warn("root colors rejected", "theme", th.NativeID, "error", err)
	} else {
		snap.RootColorsCSS = css
	}

	s := patcher.NewSession(snap)
	logger.Info("theme session ready", "theme", th.NativeID,
		"schema", s.ConditionSchemaVersion(), "patches", len(s.Snapshot().Patches))
	return s
}

// resolveTheme returns nil without error for the default sentinel.
func resolveTheme(item ThemeItem, loader *theme.Loader) (*theme.Theme, error) {
	if item.IsDefault() {
		return nil, nil
	}
	if item.Failed {
		return nil, fmt.Errorf("backend marked skin %q as failed", item.Native)
	}
	if len(item.Data) > 0 && string(item.Data) != "null" {
		return loader.Parse(item.Native, item.Data)
	}
	return loader.Load(item.Native)
}

func pluginTags(plugins []string) []string {
	seen := make(map[string]struct{}, len(plugins))
	tags := make([]string, 0, len(plugins))
	for _, p := range plugins {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		tags = append(tags, p)
	}
	return tags
}
