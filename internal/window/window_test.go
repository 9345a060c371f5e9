// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package window

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/skinpatch/internal/dom"
	"github.com/olegiv/skinpatch/internal/patcher"
	"github.com/olegiv/skinpatch/internal/payload"
	"github.com/olegiv/skinpatch/internal/theme"
)

// testLogger returns a logger configured for tests (errors only).
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testLoader() *theme.Loader {
	return theme.NewLoader(fstest.MapFS{
		"glass/skin.json": {Data: []byte(`{"Patches": [{"MatchRegexString": "^Steam$", "TargetCss": "libraryroot.custom.css"}]}`)},
	}, testLogger())
}

func glassSession(t *testing.T) *patcher.Session {
	t.Helper()
	th, err := testLoader().Load("glass")
	require.NoError(t, err)
	return patcher.NewSession(patcher.Snapshot{
		Theme:             th,
		StylesAllowed:     true,
		ScriptsAllowed:    true,
		EnabledPluginTags: []string{"core"},
	})
}

const glassHref = "skins/glass/libraryroot.custom.css"

func links(rec *Record) int {
	return rec.Document.CountElements("link", map[string]string{"href": glassHref})
}

// stubSource returns a fixed payload after an optional gate is released.
type stubSource struct {
	gate    chan struct{}
	payload *payload.Payload
	err     error
}

func (s stubSource) Fetch(ctx context.Context) (*payload.Payload, error) {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.payload, s.err
}

func TestNewRecord_ClassList(t *testing.T) {
	rec := NewRecord("h", "Friends List", Params{HTMLClass: "client_chat_frame  fullheight", BodyClass: "friendsui-container"}, dom.New())
	assert.Equal(t, []string{"client_chat_frame", "fullheight", "friendsui-container"}, rec.ClassList)
	assert.False(t, rec.Patched())
	assert.True(t, rec.markPatched())
	assert.False(t, rec.markPatched(), "flag is set only once")
	assert.True(t, rec.Patched())
}

func TestMemoryRegistry(t *testing.T) {
	reg := NewMemoryRegistry()
	events, unsubscribe := reg.Subscribe()

	doc, err := dom.ParseString(`<html class="a"><head><title>Steam</title></head><body class="b c"></body></html>`)
	require.NoError(t, err)
	rec := reg.OpenDocument(doc)

	assert.Equal(t, "Steam", rec.Title)
	assert.Equal(t, []string{"a", "b", "c"}, rec.ClassList)
	assert.NotEmpty(t, rec.Handle)

	got, ok := reg.Get(rec.Handle)
	require.True(t, ok)
	assert.Same(t, rec, got)
	assert.Len(t, reg.Windows(), 1)

	select {
	case ev := <-events:
		assert.Same(t, rec, ev)
	default:
		t.Fatal("expected window-created event")
	}

	unsubscribe()
	unsubscribe()
	_, open := <-events
	assert.False(t, open)

	reg.Open("Other", Params{}, dom.New()) // no subscribers left
	assert.Len(t, reg.Windows(), 2)
}

func TestCoordinator_SweepBeforeActivateIsNoop(t *testing.T) {
	reg := NewMemoryRegistry()
	rec := reg.Open("Steam", Params{}, dom.New())
	c := NewCoordinator(reg, testLoader(), testLogger())

	assert.Nil(t, c.Session())
	assert.Equal(t, 0, c.Sweep(rec))
	assert.False(t, rec.Patched())
}

func TestCoordinator_EndToEnd(t *testing.T) {
	reg := NewMemoryRegistry()
	steam := reg.Open("Steam", Params{}, dom.New())
	friends := reg.Open("Friends List", Params{BodyClass: "friendsui-container"}, dom.New())
	c := NewCoordinator(reg, testLoader(), testLogger())

	assert.Equal(t, 2, c.Activate(glassSession(t)))
	assert.True(t, steam.Patched())
	assert.True(t, friends.Patched(), "flag is set even when no patch matches")
	assert.Equal(t, 1, links(steam))
	assert.Equal(t, 0, links(friends))
	assert.True(t, friends.Document.HasRootClass("core"))

	// A second pass skips patched windows, and repeated work stays idempotent.
	assert.Equal(t, 0, c.Sweep(nil))
	assert.Equal(t, 1, c.Sweep(steam))
	assert.Equal(t, 1, links(steam))
}

func TestCoordinator_ZeroPatchThemeSetsFlag(t *testing.T) {
	reg := NewMemoryRegistry()
	rec := reg.Open("Steam", Params{}, dom.New())
	c := NewCoordinator(reg, testLoader(), testLogger())

	c.Activate(patcher.NewSession(patcher.Snapshot{Theme: &theme.Theme{NativeID: "empty"}}))
	assert.True(t, rec.Patched())
	assert.Equal(t, 0, c.Sweep(nil))
}

func TestCoordinator_DefaultTheme(t *testing.T) {
	reg := NewMemoryRegistry()
	rec := reg.Open("Steam", Params{}, dom.New())
	c := NewCoordinator(reg, testLoader(), testLogger())

	c.Activate(patcher.NewSession(patcher.Snapshot{
		IsDefaultTheme:    true,
		StylesAllowed:     true,
		EnabledPluginTags: []string{"core", "extendium"},
	}))

	assert.Equal(t, 0, rec.Document.CountByID(dom.InjectedID))
	assert.Equal(t, 0, rec.Document.CountByID(dom.RootColorsID))
	assert.Equal(t, 0, rec.Document.CountByID(dom.GlobalColorsID))
	assert.True(t, rec.Document.HasRootClass("core"))
	assert.True(t, rec.Document.HasRootClass("extendium"))
}

func TestCoordinator_StartHandlesWindowsCreatedDuringFetch(t *testing.T) {
	reg := NewMemoryRegistry()
	early := reg.Open("Steam", Params{}, dom.New())
	c := NewCoordinator(reg, testLoader(), testLogger())

	gate := make(chan struct{})
	src := stubSource{gate: gate, payload: &payload.Payload{
		ActiveTheme: payload.ThemeItem{Native: "glass"},
		Settings:    payload.Settings{Styles: true, Scripts: true},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx, src) }()

	// Give Start time to subscribe before the racing window appears.
	require.Eventually(t, func() bool {
		reg.mu.RLock()
		defer reg.mu.RUnlock()
		return len(reg.subs) == 1
	}, time.Second, 5*time.Millisecond)

	during := reg.Open("Steam", Params{}, dom.New())
	close(gate)

	require.Eventually(t, func() bool { return early.Patched() && during.Patched() }, time.Second, 5*time.Millisecond)
	late := reg.Open("Steam", Params{}, dom.New())
	require.Eventually(t, late.Patched, time.Second, 5*time.Millisecond)

	for _, rec := range []*Record{early, during, late} {
		assert.Equal(t, 1, links(rec))
	}
	assert.Equal(t, 1, c.Session().ConditionSchemaVersion())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestCoordinator_StartFetchError(t *testing.T) {
	c := NewCoordinator(NewMemoryRegistry(), testLoader(), testLogger())
	err := c.Start(context.Background(), stubSource{err: errors.New("backend down")})
	assert.ErrorContains(t, err, "backend down")
	assert.Nil(t, c.Session())
}

func TestSnapshotDir_RoundTrip(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(filepath.Join(in, "steam.html"),
		[]byte(`<html><head><title>Steam</title></head><body></body></html>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "friends.html"),
		[]byte(`<html><head><title>Friends List</title></head><body class="friendsui-container"></body></html>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("ignored"), 0o644))

	reg := NewMemoryRegistry()
	files, err := LoadSnapshotDir(reg, in)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "friends.html", files[0].Name)
	assert.Equal(t, []string{"friendsui-container"}, files[0].Record.ClassList)

	c := NewCoordinator(reg, testLoader(), testLogger())
	c.Activate(glassSession(t))
	require.NoError(t, WriteSnapshotDir(out, files))

	data, err := os.ReadFile(filepath.Join(out, "steam.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `<link id="millennium-injected" rel="stylesheet" href="skins/glass/libraryroot.custom.css"/>`)
	assert.Contains(t, string(data), `<html class="core">`)

	_, err = LoadSnapshotDir(reg, filepath.Join(in, "missing"))
	assert.Error(t, err)
}
