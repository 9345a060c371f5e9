// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package patcher

import (
	"github.com/olegiv/skinpatch/internal/dom"
	"github.com/olegiv/skinpatch/internal/theme"
)

// Report summarizes one pass over a window.
type Report struct {
	MatchedPatches int
	Injected       int
}

// PatchDocument runs the full theming pass for one window:
//  1. tag the document element with every enabled plugin tag (always);
//  2. stop here for the default theme;
//  3. inject the accent color and legacy global color blocks;
//  4. evaluate schema v2 conditions;
//  5. inject matching patches, evaluating schema v1 statements of each match;
//  6. inject the root colors block.
//
// Every injection is idempotent, so repeating the pass is harmless.
func PatchDocument(c *Context, w Window) Report {
	var r Report

	for _, tag := range c.EnabledPluginTags {
		w.Document.AddRootClass(tag)
	}

	if c.IsDefaultTheme {
		return r
	}

	inj := c.Dispatcher.Injector
	r.Injected += countAppended(inj.AddStyle(w.Document, dom.AccentColorID, c.AccentColorCSS))
	r.Injected += countAppended(inj.AddStyle(w.Document, dom.GlobalColorsID, c.LegacyGlobalColorsCSS))

	if c.Schema == theme.SchemaV2 {
		r.Injected += EvaluateConditions(c, w)
	}

	for _, p := range c.Patches {
		if !c.match(p.MatchRegex, w) {
			continue
		}
		r.MatchedPatches++
		for _, src := range p.TargetCSS {
			r.Injected += c.dispatch(AssetCSS, src, w)
		}
		for _, src := range p.TargetJS {
			r.Injected += c.dispatch(AssetJS, src, w)
		}
		if c.Schema == theme.SchemaV1 && len(p.Statements) > 0 {
			r.Injected += EvaluateLegacy(c, p.Statements, w)
		}
	}

	r.Injected += countAppended(inj.AddStyle(w.Document, dom.RootColorsID, c.RootColorsCSS))
	return r
}

func countAppended(appended bool) int {
	if appended {
		return 1
	}
	return 0
}
