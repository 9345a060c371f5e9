// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package theme models skins (skin.json), loads them from the skins
// directory and merges author patches with the built-in default table.
package theme

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Theme is a loaded skin. It is read-only once loaded.
type Theme struct {
	NativeID          string               `json:"-"`                       // skin folder name
	Name              string               `json:"name"`
	Author            string               `json:"author"`
	Version           string               `json:"version"`
	Description       string               `json:"description"`
	RootColorsPath    string               `json:"RootColors,omitempty"`
	Patches           []Patch              `json:"Patches"`
	UseDefaultPatches bool                 `json:"UseDefaultPatches"`
	Conditions        map[string]Condition `json:"Conditions,omitempty"`    // nil when the skin declares none
	Configuration     []ConfigItem         `json:"Configuration,omitempty"`
	GlobalColors      []GlobalColor        `json:"GlobalsColors,omitempty"`
}

// Patch is a selector-guarded rule injecting stylesheets and/or scripts.
type Patch struct {
	MatchRegex string     `json:"MatchRegexString"`
	TargetCSS  StringList `json:"TargetCss,omitempty"`
	TargetJS   StringList `json:"TargetJs,omitempty"`
	Statements Statements `json:"Statement,omitempty"`
}

// Condition is a user-configurable choice; each value maps to its own assets.
type Condition struct {
	Description string                 `json:"description,omitempty"`
	Default     string                 `json:"default,omitempty"`
	Values      map[string]ControlFlow `json:"values"`
}

// ControlFlow holds the assets selected by one condition value.
type ControlFlow struct {
	TargetCSS *AffectedAsset `json:"TargetCss,omitempty"`
	TargetJS  *AffectedAsset `json:"TargetJs,omitempty"`
}

// AffectedAsset is an asset plus the window patterns it applies to.
type AffectedAsset struct {
	Affects []string `json:"affects"`
	Src     string   `json:"src"`
}

// ConditionsStore maps condition names to the user's selected value names.
type ConditionsStore map[string]string

// Selection returns the control flow selected for a condition. A selection
// naming a value the condition does not declare is treated as absent.
func (t *Theme) Selection(store ConditionsStore, name string) (ControlFlow, bool) {
	cond, ok := t.Conditions[name]
	if !ok {
		return ControlFlow{}, false
	}
	selected, ok := store[name]
	if !ok {
		return ControlFlow{}, false
	}
	flow, ok := cond.Values[selected]
	return flow, ok
}

// ConfigItem is an entry of the legacy flat configuration list.
type ConfigItem struct {
	Name  string   `json:"Name"`
	Value any      `json:"Value"`
	Type  string   `json:"Type,omitempty"` // checkbox, combo
	Items []string `json:"Items,omitempty"`
}

// GlobalColor is a legacy color variable declared by a skin.
type GlobalColor struct {
	Name        string `json:"ColorName"`
	Value       string `json:"HexColor"`
	Description string `json:"Description,omitempty"`
}

// ConfigValue returns the stored value of a legacy configuration entry.
func (t *Theme) ConfigValue(name string) (any, bool) {
	for _, item := range t.Configuration {
		if item.Name == name {
			return item.Value, true
		}
	}
	return nil, false
}

// Schema returns the condition schema the skin uses.
func (t *Theme) Schema() ConditionSchema {
	if t.Conditions != nil {
		return SchemaV2
	}
	return SchemaV1
}

// EffectivePatches returns the skin's patches, merged with the default table
// when the skin opts in.
func (t *Theme) EffectivePatches() []Patch {
	if !t.UseDefaultPatches {
		return t.Patches
	}
	return MergePatches(t.Patches)
}

// ConditionSchema identifies the generation of condition declarations.
type ConditionSchema int

const (
	// SchemaV1 is the legacy Configuration + per-patch Statement format.
	SchemaV1 ConditionSchema = 1
	// SchemaV2 is the Conditions map, evaluated independently of patches.
	SchemaV2 ConditionSchema = 2
)

// StringList decodes from either a JSON string or an array of strings.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*s = StringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or array of strings: %w", err)
	}
	*s = many
	return nil
}
