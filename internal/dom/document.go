// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package dom wraps a host window's HTML document and provides idempotent,
// permission-gated injection of stylesheet, inline style and script nodes.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML document belonging to one host window.
// All methods are safe for concurrent use.
type Document struct {
	mu   sync.Mutex
	root *html.Node // document node
}

// Parse parses an HTML document. Missing html, head and body elements are
// synthesized by the parser.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString parses an HTML document from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// New returns an empty document with html, head and body elements.
func New() *Document {
	doc, _ := ParseString("<!DOCTYPE html><html><head></head><body></body></html>")
	return doc
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

// String renders the document, returning an empty string on error.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Title returns the text of the first <title> element.
func (d *Document) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := findFirst(d.root, func(n *html.Node) bool { return n.DataAtom == atom.Title })
	if n == nil {
		return ""
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(sb.String())
}

// HTMLClass returns the class list of the <html> element.
func (d *Document) HTMLClass() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return classList(d.element(atom.Html))
}

// BodyClass returns the class list of the <body> element.
func (d *Document) BodyClass() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return classList(d.element(atom.Body))
}

// AddRootClass adds a class to the document element if not already present.
func (d *Document) AddRootClass(class string) {
	class = strings.TrimSpace(class)
	if class == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	el := d.element(atom.Html)
	if el == nil {
		return
	}
	existing := classList(el)
	for _, c := range existing {
		if c == class {
			return
		}
	}
	setAttr(el, "class", strings.Join(append(existing, class), " "))
}

// HasRootClass reports whether the document element carries the class.
func (d *Document) HasRootClass(class string) bool {
	for _, c := range d.HTMLClass() {
		if c == class {
			return true
		}
	}
	return false
}

// CountElements returns the number of elements with the given tag name whose
// attributes include every key/value pair in attrs.
func (d *Document) CountElements(tag string, attrs map[string]string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(findAll(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag && hasAttrs(n, attrs)
	}))
}

// CountByID returns the number of elements carrying the given id.
func (d *Document) CountByID(id string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(findAll(d.root, func(n *html.Node) bool {
		v, ok := getAttr(n, "id")
		return n.Type == html.ElementNode && ok && v == id
	}))
}

// element returns the first element with the given atom. Caller holds mu.
func (d *Document) element(a atom.Atom) *html.Node {
	return findFirst(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == a
	})
}

// head returns the <head> element, creating it under <html> if missing. Caller holds mu.
func (d *Document) head() *html.Node {
	if h := d.element(atom.Head); h != nil {
		return h
	}
	htmlEl := d.element(atom.Html)
	if htmlEl == nil {
		htmlEl = &html.Node{Type: html.ElementNode, DataAtom: atom.Html, Data: "html"}
		d.root.AppendChild(htmlEl)
	}
	h := &html.Node{Type: html.ElementNode, DataAtom: atom.Head, Data: "head"}
	htmlEl.InsertBefore(h, htmlEl.FirstChild)
	return h
}

func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func classList(n *html.Node) []string {
	if n == nil {
		return nil
	}
	v, _ := getAttr(n, "class")
	return strings.Fields(v)
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func hasAttrs(n *html.Node, attrs map[string]string) bool {
	for k, want := range attrs {
		if got, ok := getAttr(n, k); !ok || got != want {
			return false
		}
	}
	return true
}
