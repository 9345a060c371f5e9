// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allowAll() Injector {
	return Injector{StylesAllowed: true, ScriptsAllowed: true}
}

func TestParse_TitleAndClasses(t *testing.T) {
	doc, err := ParseString(`<html class="client_chat_frame fullheight"><head><title> Friends List </title></head><body class="DesktopUI"></body></html>`)
	require.NoError(t, err)

	assert.Equal(t, "Friends List", doc.Title())
	assert.Equal(t, []string{"client_chat_frame", "fullheight"}, doc.HTMLClass())
	assert.Equal(t, []string{"DesktopUI"}, doc.BodyClass())
}

func TestAddStylesheet_Dedup(t *testing.T) {
	doc := New()
	in := allowAll()

	assert.True(t, in.AddStylesheet(doc, "skins/a/libraryroot.custom.css"))
	assert.False(t, in.AddStylesheet(doc, "skins/a/libraryroot.custom.css"))
	assert.True(t, in.AddStylesheet(doc, "skins/a/other.css"))

	assert.Equal(t, 1, doc.CountElements("link", map[string]string{"href": "skins/a/libraryroot.custom.css"}))
	assert.Equal(t, 2, doc.CountElements("link", map[string]string{"id": InjectedID, "rel": "stylesheet"}))
}

func TestAddStylesheet_ExistingLinkFromHost(t *testing.T) {
	doc, err := ParseString(`<html><head><link rel="stylesheet" href="skins/a/x.css"></head><body></body></html>`)
	require.NoError(t, err)

	assert.False(t, allowAll().AddStylesheet(doc, "skins/a/x.css"))
	assert.Equal(t, 1, doc.CountElements("link", nil))
}

func TestAddStylesheet_Gated(t *testing.T) {
	doc := New()
	in := Injector{StylesAllowed: false, ScriptsAllowed: true}

	assert.False(t, in.AddStylesheet(doc, "skins/a/x.css"))
	assert.False(t, in.AddStyle(doc, RootColorsID, ":root{}"))
	assert.Equal(t, 0, doc.CountElements("link", nil))
	assert.Equal(t, 0, doc.CountElements("style", nil))
}

func TestAddScript_DedupAndGate(t *testing.T) {
	doc := New()

	assert.False(t, Injector{StylesAllowed: true}.AddScript(doc, "skins/a/x.js"))
	assert.Equal(t, 0, doc.CountElements("script", nil))

	in := allowAll()
	assert.True(t, in.AddScript(doc, "skins/a/x.js"))
	assert.False(t, in.AddScript(doc, "skins/a/x.js"))
	assert.Equal(t, 1, doc.CountElements("script", map[string]string{"src": "skins/a/x.js", "type": "module"}))
}

func TestAddScript_NonModuleScriptDoesNotCount(t *testing.T) {
	doc, err := ParseString(`<html><head><script src="skins/a/x.js"></script></head><body></body></html>`)
	require.NoError(t, err)

	assert.True(t, allowAll().AddScript(doc, "skins/a/x.js"))
	assert.Equal(t, 2, doc.CountElements("script", map[string]string{"src": "skins/a/x.js"}))
}

func TestAddStyle_DedupByID(t *testing.T) {
	doc := New()
	in := allowAll()

	assert.True(t, in.AddStyle(doc, AccentColorID, ":root { --a: red; }"))
	assert.False(t, in.AddStyle(doc, AccentColorID, ":root { --a: blue; }"))
	assert.Equal(t, 1, doc.CountByID(AccentColorID))
	assert.Contains(t, doc.String(), "--a: red;")
	assert.NotContains(t, doc.String(), "--a: blue;")
}

func TestAddRootClass(t *testing.T) {
	doc, err := ParseString(`<html class="existing"><head></head><body></body></html>`)
	require.NoError(t, err)

	doc.AddRootClass("plugin-a")
	doc.AddRootClass("plugin-a")
	doc.AddRootClass("  ")

	assert.Equal(t, []string{"existing", "plugin-a"}, doc.HTMLClass())
	assert.True(t, doc.HasRootClass("plugin-a"))
}

func TestHeadCreatedWhenMissing(t *testing.T) {
	doc, err := ParseString(`<div>fragment</div>`)
	require.NoError(t, err)

	assert.True(t, allowAll().AddStylesheet(doc, "skins/a/x.css"))
	assert.Contains(t, doc.String(), `<head><link id="millennium-injected" rel="stylesheet" href="skins/a/x.css"/>`)
}
