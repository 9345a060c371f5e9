// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package colors

import "github.com/olegiv/skinpatch/internal/theme"

// GlobalColorsCSS renders a skin's legacy global colors. Returns an empty
// string when the skin declares none.
func GlobalColorsCSS(globals []theme.GlobalColor) (string, error) {
	if len(globals) == 0 {
		return "", nil
	}
	vars := make([]Var, len(globals))
	for i, g := range globals {
		vars[i] = Var{Name: g.Name, Value: g.Value}
	}
	return Block(vars)
}

// RootColorsCSS renders user root color overrides. Returns an empty string
// when there are none.
func RootColorsCSS(vars []Var) (string, error) {
	if len(vars) == 0 {
		return "", nil
	}
	return Block(vars)
}
