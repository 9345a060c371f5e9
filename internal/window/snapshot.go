// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package window

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olegiv/skinpatch/internal/dom"
	"github.com/olegiv/skinpatch/internal/util"
)

// SnapshotFile ties a window opened from disk to its file name.
type SnapshotFile struct {
	Name   string
	Record *Record
}

// LoadSnapshotDir opens one window per *.html file in dir, in name order.
func LoadSnapshotDir(reg *MemoryRegistry, dir string) ([]SnapshotFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".html") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	files := make([]SnapshotFile, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		doc, err := dom.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		files = append(files, SnapshotFile{Name: name, Record: reg.OpenDocument(doc)})
	}
	return files, nil
}

// WriteSnapshotDir renders each window's document into outDir.
func WriteSnapshotDir(outDir string, files []SnapshotFile) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, f := range files {
		target, err := util.SafeJoinPath(outDir, f.Name)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		var buf bytes.Buffer
		if err := f.Record.Document.Render(&buf); err != nil {
			return fmt.Errorf("rendering %s: %w", f.Name, err)
		}
		if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", f.Name, err)
		}
	}
	return nil
}
