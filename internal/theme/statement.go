// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package theme

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LegacyStatement is a schema v1 condition attached to a patch. It is either
// toggle shaped (Equals/True/False) or combo shaped (Combo).
type LegacyStatement struct {
	If     string        `json:"If"`
	Equals any           `json:"Equals,omitempty"`
	True   *LegacyTarget `json:"True,omitempty"`
	False  *LegacyTarget `json:"False,omitempty"`
	Combo  []ComboBranch `json:"Combo,omitempty"`
}

// IsCombo reports whether the statement is combo shaped.
func (s LegacyStatement) IsCombo() bool {
	return s.Combo != nil
}

// ComboBranch is one branch of a combo statement.
type ComboBranch struct {
	Equals any           `json:"Equals"`
	True   *LegacyTarget `json:"True,omitempty"`
	False  *LegacyTarget `json:"False,omitempty"`
}

// LegacyTarget names the assets applied by a statement outcome.
type LegacyTarget struct {
	TargetCSS string `json:"TargetCss,omitempty"`
	TargetJS  string `json:"TargetJs,omitempty"`
}

// Statements decodes from either a single statement object or an array.
type Statements []LegacyStatement

// UnmarshalJSON implements json.Unmarshaler.
func (s *Statements) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = nil
		return nil
	case len(data) > 0 && data[0] == '{':
		var one LegacyStatement
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*s = Statements{one}
		return nil
	}
	var many []LegacyStatement
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected statement object or array: %w", err)
	}
	*s = many
	return nil
}

// ValuesEqual compares two configuration values decoded from JSON. Only
// scalars compare equal; numbers compare by value.
func ValuesEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case json.Number:
		bv, ok := b.(json.Number)
		return ok && av == bv
	}
	return false
}

// duplicateComboValues returns the Equals values that appear on more than
// one branch of a combo statement.
func duplicateComboValues(s LegacyStatement) []any {
	var dups []any
	for i := range s.Combo {
		for j := 0; j < i; j++ {
			if ValuesEqual(s.Combo[i].Equals, s.Combo[j].Equals) {
				dups = append(dups, s.Combo[i].Equals)
				break
			}
		}
	}
	return dups
}
