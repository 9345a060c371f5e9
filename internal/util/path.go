// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ValidatePathWithinBase ensures that a resolved path is within the expected
// base directory. It cleans both paths and checks that the resolved path
// starts with the base path. Returns an error if path traversal is detected.
func ValidatePathWithinBase(basePath, targetPath string) error {
	absBase, err := filepath.Abs(filepath.Clean(basePath))
	if err != nil {
		return fmt.Errorf("invalid base path: %w", err)
	}

	absTarget, err := filepath.Abs(filepath.Clean(targetPath))
	if err != nil {
		return fmt.Errorf("invalid target path: %w", err)
	}

	// Trailing separator so /out-malicious does not pass for base /out
	if absTarget != absBase && !strings.HasPrefix(absTarget, absBase+string(filepath.Separator)) {
		return fmt.Errorf("path traversal detected: path escapes base directory")
	}

	return nil
}

// SafeJoinPath joins path components and validates the result is within
// the base directory.
func SafeJoinPath(basePath string, components ...string) (string, error) {
	fullPath := filepath.Join(append([]string{basePath}, components...)...)

	if err := ValidatePathWithinBase(basePath, fullPath); err != nil {
		return "", err
	}

	return fullPath, nil
}

// ContainsPathTraversal reports whether a forward-slash path climbs out of
// its root after cleaning.
func ContainsPathTraversal(p string) bool {
	cleaned := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	return cleaned == ".." || strings.HasPrefix(cleaned, "../")
}

// JoinRelative joins a relative forward-slash path onto base. Absolute,
// empty and escaping paths are rejected.
func JoinRelative(base, rel string) (string, error) {
	rel = strings.ReplaceAll(strings.TrimSpace(rel), "\\", "/")
	if rel == "" {
		return "", fmt.Errorf("empty path")
	}
	if strings.HasPrefix(rel, "/") || strings.Contains(rel, "://") {
		return "", fmt.Errorf("path %q must be relative", rel)
	}
	if ContainsPathTraversal(rel) {
		return "", fmt.Errorf("path traversal detected: %q escapes %q", rel, base)
	}
	return path.Join(base, path.Clean(rel)), nil
}
