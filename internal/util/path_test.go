// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"path/filepath"
	"testing"
)

func TestValidatePathWithinBase(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name    string
		target  string
		wantErr bool
	}{
		{name: "base itself", target: base},
		{name: "file in base", target: filepath.Join(base, "index.html")},
		{name: "nested file", target: filepath.Join(base, "a", "b.html")},
		{name: "parent", target: filepath.Join(base, ".."), wantErr: true},
		{name: "sibling prefix", target: base + "-malicious", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePathWithinBase(base, tt.target)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePathWithinBase(%q) error = %v, wantErr %v", tt.target, err, tt.wantErr)
			}
		})
	}
}

func TestSafeJoinPath(t *testing.T) {
	base := t.TempDir()

	got, err := SafeJoinPath(base, "steam.html")
	if err != nil {
		t.Fatalf("SafeJoinPath: %v", err)
	}
	if got != filepath.Join(base, "steam.html") {
		t.Errorf("SafeJoinPath = %q", got)
	}

	if _, err := SafeJoinPath(base, "..", "escape.html"); err == nil {
		t.Error("expected traversal error")
	}
}

func TestContainsPathTraversal(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"libraryroot.custom.css", false},
		{"css/main.css", false},
		{"css/../main.css", false},
		{"../main.css", true},
		{"css/../../main.css", true},
		{"..", true},
		{`..\main.css`, true},
		{"..main.css", false},
	}

	for _, tt := range tests {
		if got := ContainsPathTraversal(tt.path); got != tt.want {
			t.Errorf("ContainsPathTraversal(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestJoinRelative(t *testing.T) {
	tests := []struct {
		name    string
		rel     string
		want    string
		wantErr bool
	}{
		{name: "plain", rel: "libraryroot.custom.css", want: "skins/glass/libraryroot.custom.css"},
		{name: "nested", rel: "src/js/main.js", want: "skins/glass/src/js/main.js"},
		{name: "dot segments", rel: "./css/../a.css", want: "skins/glass/a.css"},
		{name: "backslashes", rel: `css\a.css`, want: "skins/glass/css/a.css"},
		{name: "empty", rel: "  ", wantErr: true},
		{name: "absolute", rel: "/etc/passwd", wantErr: true},
		{name: "url", rel: "https://example.com/a.css", wantErr: true},
		{name: "escape", rel: "../other/a.css", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JoinRelative("skins/glass", tt.rel)
			if (err != nil) != tt.wantErr {
				t.Fatalf("JoinRelative(%q) error = %v, wantErr %v", tt.rel, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("JoinRelative(%q) = %q, want %q", tt.rel, got, tt.want)
			}
		})
	}
}
