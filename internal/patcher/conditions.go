// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package patcher

import (
	"slices"

	"github.com/olegiv/skinpatch/internal/theme"
)

// EvaluateConditions applies schema v2 conditions to a window. For every
// declared condition with a valid selection, each asset of the selected value
// is dispatched once per pattern in its affects list that matches the window.
// Patch matching plays no part. Returns the number of nodes appended.
func EvaluateConditions(c *Context, w Window) int {
	if c.Theme == nil || c.Theme.Conditions == nil {
		return 0
	}

	names := make([]string, 0, len(c.Theme.Conditions))
	for name := range c.Theme.Conditions {
		names = append(names, name)
	}
	slices.Sort(names)

	injected := 0
	for _, name := range names {
		flow, ok := c.Theme.Selection(c.Selections, name)
		if !ok {
			continue
		}
		injected += c.applyAffected(AssetCSS, flow.TargetCSS, w)
		injected += c.applyAffected(AssetJS, flow.TargetJS, w)
	}
	return injected
}

func (c *Context) applyAffected(kind AssetKind, asset *theme.AffectedAsset, w Window) int {
	if asset == nil {
		return 0
	}
	injected := 0
	for _, pattern := range asset.Affects {
		if c.match(pattern, w) {
			injected += c.dispatch(kind, asset.Src, w)
		}
	}
	return injected
}
