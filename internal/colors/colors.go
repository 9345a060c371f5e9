// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package colors builds the CSS custom-property blocks injected alongside a
// skin: the system accent color ramp, legacy global colors and root colors.
package colors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gorilla/css/scanner"
	"github.com/lucasb-eyer/go-colorful"
)

// AccentColor is the system accent color and its light/dark variants as hex
// strings. Empty variants are derived from Accent.
type AccentColor struct {
	Accent string `json:"accent"`
	Light1 string `json:"light1,omitempty"`
	Light2 string `json:"light2,omitempty"`
	Light3 string `json:"light3,omitempty"`
	Dark1  string `json:"dark1,omitempty"`
	Dark2  string `json:"dark2,omitempty"`
	Dark3  string `json:"dark3,omitempty"`
}

// Var is a single CSS custom property.
type Var struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ErrUnsafeValue is returned for declarations that could escape their block.
var ErrUnsafeValue = errors.New("unsafe css value")

// rampSteps are the blend ratios toward white (light) or black (dark) used
// when a variant is not supplied.
var rampSteps = [3]float64{0.2, 0.4, 0.6}

var varNameRegex = regexp.MustCompile(`^--[A-Za-z0-9_-]+$`)

var (
	white = colorful.Color{R: 1, G: 1, B: 1}
	black = colorful.Color{R: 0, G: 0, B: 0}
)

// Ramp returns the resolved accent ramp: base, Light1-3 and Dark1-3.
func (a AccentColor) Ramp() ([7]colorful.Color, error) {
	var ramp [7]colorful.Color

	base, err := colorful.Hex(normalizeHex(a.Accent))
	if err != nil {
		return ramp, fmt.Errorf("parsing accent color %q: %w", a.Accent, err)
	}
	ramp[0] = base

	variants := [6]string{a.Light1, a.Light2, a.Light3, a.Dark1, a.Dark2, a.Dark3}
	for i, hex := range variants {
		if hex != "" {
			c, err := colorful.Hex(normalizeHex(hex))
			if err != nil {
				return ramp, fmt.Errorf("parsing accent variant %q: %w", hex, err)
			}
			ramp[i+1] = c
			continue
		}
		target := white
		if i >= 3 {
			target = black
		}
		ramp[i+1] = base.BlendLab(target, rampSteps[i%3]).Clamped()
	}
	return ramp, nil
}

// AccentCSS returns the :root block declaring the accent ramp variables.
func AccentCSS(a AccentColor) (string, error) {
	ramp, err := a.Ramp()
	if err != nil {
		return "", err
	}

	names := [7]string{"", "Light1", "Light2", "Light3", "Dark1", "Dark2", "Dark3"}
	vars := make([]Var, 0, len(ramp)*2)
	for i, c := range ramp {
		name := "--SystemAccentColor" + names[i]
		r, g, b := c.RGB255()
		vars = append(vars,
			Var{Name: name, Value: c.Hex()},
			Var{Name: name + "-RGB", Value: fmt.Sprintf("%d, %d, %d", r, g, b)},
		)
	}
	return Block(vars)
}

// Block renders vars as a :root block. Every name must be a custom property
// and every value must tokenize without block or declaration delimiters.
func Block(vars []Var) (string, error) {
	var sb strings.Builder
	sb.WriteString(":root {\n")
	for _, v := range vars {
		if !varNameRegex.MatchString(v.Name) {
			return "", fmt.Errorf("%w: property name %q", ErrUnsafeValue, v.Name)
		}
		if err := checkValue(v.Value); err != nil {
			return "", fmt.Errorf("property %s: %w", v.Name, err)
		}
		sb.WriteString("  ")
		sb.WriteString(v.Name)
		sb.WriteString(": ")
		sb.WriteString(strings.TrimSpace(v.Value))
		sb.WriteString(";\n")
	}
	sb.WriteString("}")
	return sb.String(), nil
}

// checkValue tokenizes a declaration value and rejects anything that could
// terminate the declaration or the enclosing block.
func checkValue(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: empty value", ErrUnsafeValue)
	}
	if strings.Contains(value, "<") {
		return fmt.Errorf("%w: %q", ErrUnsafeValue, value)
	}
	s := scanner.New(value)
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			return nil
		case scanner.TokenError, scanner.TokenAtKeyword, scanner.TokenCDO, scanner.TokenCDC:
			return fmt.Errorf("%w: %q", ErrUnsafeValue, value)
		case scanner.TokenChar:
			if strings.ContainsAny(tok.Value, "{};>") {
				return fmt.Errorf("%w: %q", ErrUnsafeValue, value)
			}
		}
	}
}

func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if s != "" && !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	// #rrggbbaa: alpha is not part of the ramp
	if len(s) == 9 {
		s = s[:7]
	}
	return s
}
