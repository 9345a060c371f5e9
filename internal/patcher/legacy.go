// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package patcher

import "github.com/olegiv/skinpatch/internal/theme"

// EvaluateLegacy applies schema v1 statements attached to a patch that has
// already matched the window. Each statement reads its configuration value;
// a toggle applies True when Equals matches and False otherwise. A combo
// applies, for every branch, True or False by the same rule, so several
// branches may contribute. Returns the number of nodes appended.
func EvaluateLegacy(c *Context, statements []theme.LegacyStatement, w Window) int {
	if c.Theme == nil {
		return 0
	}
	injected := 0
	for _, st := range statements {
		stored, ok := c.Theme.ConfigValue(st.If)
		if !ok {
			c.Logger.Warn("legacy statement references unknown configuration key",
				"theme", c.Dispatcher.NativeID, "window", w.Handle, "if", st.If)
			continue
		}

		if st.IsCombo() {
			for _, branch := range st.Combo {
				injected += c.applyLegacyTarget(pick(branch.Equals, stored, branch.True, branch.False), w)
			}
			continue
		}
		injected += c.applyLegacyTarget(pick(st.Equals, stored, st.True, st.False), w)
	}
	return injected
}

func pick(equals, stored any, onTrue, onFalse *theme.LegacyTarget) *theme.LegacyTarget {
	if theme.ValuesEqual(equals, stored) {
		return onTrue
	}
	return onFalse
}

func (c *Context) applyLegacyTarget(t *theme.LegacyTarget, w Window) int {
	if t == nil {
		return 0
	}
	injected := 0
	if t.TargetCSS != "" {
		injected += c.dispatch(AssetCSS, t.TargetCSS, w)
	}
	if t.TargetJS != "" {
		injected += c.dispatch(AssetJS, t.TargetJS, w)
	}
	return injected
}
