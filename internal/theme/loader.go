// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
)

// ManifestName is the file name of a skin's manifest inside its folder.
const ManifestName = "skin.json"

// ErrInvalidNativeID is returned for skin ids that are not a single path element.
var ErrInvalidNativeID = errors.New("invalid skin id")

// Loader reads skins from a directory tree where each skin lives in its own
// folder named by its native id.
type Loader struct {
	fsys   fs.FS
	logger *slog.Logger
}

// NewLoader creates a loader over the skins directory.
func NewLoader(fsys fs.FS, logger *slog.Logger) *Loader {
	return &Loader{fsys: fsys, logger: logger}
}

// ListSkins returns the native ids of every folder that carries a manifest.
func (l *Loader) ListSkins() ([]string, error) {
	entries, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading skins directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := fs.Stat(l.fsys, path.Join(entry.Name(), ManifestName)); err != nil {
			continue
		}
		ids = append(ids, entry.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

// Load reads and parses the manifest of the given skin.
func (l *Loader) Load(nativeID string) (*Theme, error) {
	if nativeID == "" || nativeID == "." || path.Base(nativeID) != nativeID || !fs.ValidPath(nativeID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNativeID, nativeID)
	}

	data, err := fs.ReadFile(l.fsys, path.Join(nativeID, ManifestName))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ManifestName, err)
	}

	t, err := l.Parse(nativeID, data)
	if err != nil {
		return nil, err
	}
	l.logger.Info("loaded skin", "theme", nativeID, "version", t.Version,
		"patches", len(t.Patches), "schema", int(t.Schema()))
	return t, nil
}

// Parse decodes and validates a manifest.
func (l *Loader) Parse(nativeID string, data []byte) (*Theme, error) {
	var t Theme
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestName, err)
	}
	t.NativeID = nativeID

	for i, p := range t.Patches {
		if p.MatchRegex == "" {
			return nil, fmt.Errorf("parsing %s: patch %d: MatchRegexString is required", ManifestName, i)
		}
		for _, st := range p.Statements {
			if dups := duplicateComboValues(st); len(dups) > 0 {
				l.logger.Warn("combo statement repeats values; every matching branch applies",
					"theme", nativeID, "pattern", p.MatchRegex, "if", st.If, "values", dups)
			}
		}
	}
	return &t, nil
}
