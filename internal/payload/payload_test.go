// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package payload

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/skinpatch/internal/theme"
)

// testLogger returns a logger configured for tests (errors only).
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

const glassManifest = `{
	"name": "Glass",
	"Patches": [{"MatchRegexString": "^Steam$", "TargetCss": "glass.css"}],
	"Conditions": {"Blur": {"values": {"on": {"TargetCss": {"affects": ["^Steam$"], "src": "blur.css"}}}}},
	"GlobalsColors": [{"ColorName": "--main-bg", "HexColor": "#171d25"}]
}`

func testLoader() *theme.Loader {
	return theme.NewLoader(fstest.MapFS{
		"glass/skin.json":  {Data: []byte(glassManifest)},
		"broken/skin.json": {Data: []byte(`{`)},
	}, testLogger())
}

func TestDecode(t *testing.T) {
	p, err := Decode([]byte(`{
		"activeTheme": {"native": "glass"},
		"accentColor": {"accent": "#1a9fff", "light1": "#5cb8ff"},
		"conditions": {"glass": {"Blur": "on"}},
		"settings": {"scripts": true, "styles": true},
		"enabledPlugins": ["core", "extendium"],
		"rootColors": [{"name": "--fg", "value": "#fff"}]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "glass", p.ActiveTheme.Native)
	assert.False(t, p.ActiveTheme.IsDefault())
	assert.Equal(t, "#5cb8ff", p.AccentColor.Light1)
	assert.Equal(t, "on", p.Conditions["glass"]["Blur"])
	assert.True(t, p.Settings.Scripts)
	assert.Equal(t, []string{"core", "extendium"}, p.EnabledPlugins)
	assert.Equal(t, "--fg", p.RootColors[0].Name)

	_, err = Decode([]byte(`{"activeTheme":`))
	assert.Error(t, err)
}

func TestBuildSession_FromSkinsDirectory(t *testing.T) {
	p := &Payload{
		ActiveTheme:    ThemeItem{Native: "glass"},
		Conditions:     map[string]theme.ConditionsStore{"glass": {"Blur": "on"}, "other": {"X": "y"}},
		Settings:       Settings{Scripts: false, Styles: true},
		EnabledPlugins: []string{"core", " ", "core", "extendium"},
	}
	p.AccentColor.Accent = "#1a9fff"

	s := BuildSession(p, testLoader(), testLogger())
	snap := s.Snapshot()

	assert.False(t, snap.IsDefaultTheme)
	assert.Equal(t, "glass", snap.Theme.NativeID)
	assert.Equal(t, 2, s.ConditionSchemaVersion())
	assert.Equal(t, theme.ConditionsStore{"Blur": "on"}, snap.Selections)
	assert.True(t, snap.StylesAllowed)
	assert.False(t, snap.ScriptsAllowed)
	assert.Equal(t, []string{"core", "extendium"}, snap.EnabledPluginTags)
	assert.Contains(t, snap.AccentColorCSS, "--SystemAccentColor: #1a9fff;")
	assert.Contains(t, snap.LegacyGlobalColorsCSS, "--main-bg: #171d25;")
	assert.Empty(t, snap.RootColorsCSS)
}

func TestBuildSession_InlineManifest(t *testing.T) {
	p := &Payload{ActiveTheme: ThemeItem{
		Native: "inline",
		Data:   []byte(`{"UseDefaultPatches": true, "Patches": []}`),
	}}

	s := BuildSession(p, testLoader(), testLogger())
	assert.False(t, s.IsDefaultTheme())
	assert.Equal(t, 1, s.ConditionSchemaVersion())
	assert.Len(t, s.Snapshot().Patches, len(theme.DefaultPatches()))
}

func TestBuildSession_FallsBackToDefault(t *testing.T) {
	tests := []struct {
		name string
		item ThemeItem
	}{
		{name: "sentinel", item: ThemeItem{Native: DefaultThemeID}},
		{name: "empty", item: ThemeItem{}},
		{name: "marked failed", item: ThemeItem{Native: "glass", Failed: true}},
		{name: "parse failure", item: ThemeItem{Native: "broken"}},
		{name: "missing skin", item: ThemeItem{Native: "missing"}},
		{name: "bad inline data", item: ThemeItem{Native: "x", Data: []byte(`[1,2]`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Payload{ActiveTheme: tt.item, EnabledPlugins: []string{"core"}}
			s := BuildSession(p, testLoader(), testLogger())

			assert.True(t, s.IsDefaultTheme())
			assert.Nil(t, s.Snapshot().Theme)
			assert.Equal(t, []string{"core"}, s.Snapshot().EnabledPluginTags)
		})
	}
}

func TestBuildSession_BadColorsDropBlocksOnly(t *testing.T) {
	p := &Payload{
		ActiveTheme: ThemeItem{Native: "glass"},
		RootColors:  nil,
	}
	p.AccentColor.Accent = "nope"

	s := BuildSession(p, testLoader(), testLogger())
	assert.False(t, s.IsDefaultTheme())
	assert.Empty(t, s.Snapshot().AccentColorCSS)
	assert.NotEmpty(t, s.Snapshot().LegacyGlobalColorsCSS)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"activeTheme":{"native":"glass"},"settings":{"styles":true}}`), 0o600))

	p, err := FileSource{Path: path}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "glass", p.ActiveTheme.Native)
	assert.True(t, p.Settings.Styles)

	_, err = FileSource{Path: filepath.Join(dir, "missing.json")}.Fetch(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = FileSource{Path: path}.Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
