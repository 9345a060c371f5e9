// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package dom

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element ids written into host documents. Other components read them back,
// so they must not change.
const (
	InjectedID     = "millennium-injected"
	AccentColorID  = "SystemAccentColorInject"
	GlobalColorsID = "GlobalColors"
	RootColorsID   = "RootColors"
)

// Injector appends theme nodes to a document's head. Each operation is a
// no-op when its permission is off or when an equivalent node already exists.
type Injector struct {
	StylesAllowed  bool
	ScriptsAllowed bool
}

// AddStylesheet appends <link rel="stylesheet" href=href>. Deduplicated by href.
// Reports whether a node was appended.
func (in Injector) AddStylesheet(d *Document, href string) bool {
	if !in.StylesAllowed || href == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	exists := findFirst(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Link && hasAttrs(n, map[string]string{"href": href})
	})
	if exists != nil {
		return false
	}
	d.head().AppendChild(element(atom.Link, []html.Attribute{
		{Key: "id", Val: InjectedID},
		{Key: "rel", Val: "stylesheet"},
		{Key: "href", Val: href},
	}))
	return true
}

// AddScript appends <script type="module" src=src>. Deduplicated by src and type.
func (in Injector) AddScript(d *Document, src string) bool {
	if !in.ScriptsAllowed || src == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	exists := findFirst(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Script &&
			hasAttrs(n, map[string]string{"src": src, "type": "module"})
	})
	if exists != nil {
		return false
	}
	d.head().AppendChild(element(atom.Script, []html.Attribute{
		{Key: "id", Val: InjectedID},
		{Key: "type", Val: "module"},
		{Key: "src", Val: src},
	}))
	return true
}

// AddStyle appends an inline <style id=id> block. Deduplicated by id: a block
// already present is left untouched.
func (in Injector) AddStyle(d *Document, id, css string) bool {
	if !in.StylesAllowed || id == "" || css == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	exists := findFirst(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Style && hasAttrs(n, map[string]string{"id": id})
	})
	if exists != nil {
		return false
	}
	style := element(atom.Style, []html.Attribute{{Key: "id", Val: id}})
	style.AppendChild(&html.Node{Type: html.TextNode, Data: css})
	d.head().AppendChild(style)
	return true
}

func element(a atom.Atom, attrs []html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}
