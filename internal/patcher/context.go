// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package patcher

import (
	"log/slog"

	"github.com/olegiv/skinpatch/internal/dom"
)

// Window is the identity and document of one host window.
type Window struct {
	Handle    string
	Title     string
	ClassList []string
	Document  *dom.Document
}

// Context carries everything an evaluator needs for one pass over one
// window. It is built from a Snapshot and never shared between passes.
type Context struct {
	Snapshot
	Matcher    *Matcher
	Dispatcher Dispatcher
	Logger     *slog.Logger
}

// NewContext builds an evaluation context from the session state.
func NewContext(s Snapshot, m *Matcher, logger *slog.Logger) *Context {
	nativeID := ""
	if s.Theme != nil {
		nativeID = s.Theme.NativeID
	}
	return &Context{
		Snapshot: s,
		Matcher:  m,
		Dispatcher: Dispatcher{
			NativeID: nativeID,
			Injector: dom.Injector{StylesAllowed: s.StylesAllowed, ScriptsAllowed: s.ScriptsAllowed},
		},
		Logger: logger,
	}
}

// match runs the matcher and logs pattern errors. A broken pattern only
// loses its title test.
func (c *Context) match(pattern string, w Window) bool {
	ok, err := c.Matcher.Match(pattern, w.Title, w.ClassList)
	if err != nil {
		c.Logger.Warn("invalid window pattern", "theme", c.Dispatcher.NativeID,
			"window", w.Handle, "pattern", pattern, "error", err)
	}
	return ok
}

// dispatch injects one asset and logs failures. Returns 1 when a node was
// appended, else 0.
func (c *Context) dispatch(kind AssetKind, src string, w Window) int {
	appended, err := c.Dispatcher.Dispatch(kind, src, w.Document)
	if err != nil {
		c.Logger.Warn("asset dispatch failed", "theme", c.Dispatcher.NativeID,
			"window", w.Handle, "kind", kind.String(), "src", src, "error", err)
		return 0
	}
	if appended {
		c.Logger.Debug("asset injected", "window", w.Handle, "kind", kind.String(), "src", src)
		return 1
	}
	return 0
}
