// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package theme

// Canonical asset bundles referenced by the default patch table.
const (
	LibraryCSS    = "libraryroot.custom.css"
	LibraryJS     = "libraryroot.custom.js"
	BigPictureCSS = "bigpicture.custom.css"
	BigPictureJS  = "bigpicture.custom.js"
)

// defaultPatches covers the known host window categories. Title patterns are
// regular expressions; class patterns are matched as substrings.
var defaultPatches = []Patch{
	{MatchRegex: "^Steam$", TargetCSS: StringList{LibraryCSS}, TargetJS: StringList{LibraryJS}},
	{MatchRegex: "^OverlayBrowser_Browser$", TargetCSS: StringList{LibraryCSS}, TargetJS: StringList{LibraryJS}},
	{MatchRegex: "^SP Overlay:", TargetCSS: StringList{LibraryCSS}, TargetJS: StringList{LibraryJS}},
	{MatchRegex: "Menu$", TargetCSS: StringList{LibraryCSS}, TargetJS: StringList{LibraryJS}},
	{MatchRegex: "Supernav$", TargetCSS: StringList{LibraryCSS}, TargetJS: StringList{LibraryJS}},
	{MatchRegex: "^notificationtoasts_", TargetCSS: StringList{LibraryCSS}, TargetJS: StringList{LibraryJS}},
	{MatchRegex: "^SteamBrowser_Find$", TargetCSS: StringList{LibraryCSS}, TargetJS: StringList{LibraryJS}},
	{MatchRegex: "^OverlayTab\\d+_Find$", TargetCSS: StringList{LibraryCSS}, TargetJS: StringList{LibraryJS}},
	{MatchRegex: "^Steam Big Picture Mode$", TargetCSS: StringList{BigPictureCSS}, TargetJS: StringList{BigPictureJS}},
	{MatchRegex: "^QuickAccess_", TargetCSS: StringList{BigPictureCSS}, TargetJS: StringList{BigPictureJS}},
	{MatchRegex: "^MainMenu_", TargetCSS: StringList{BigPictureCSS}, TargetJS: StringList{BigPictureJS}},
	{MatchRegex: "friendsui-container", TargetCSS: StringList{LibraryCSS}, TargetJS: StringList{LibraryJS}},
	{MatchRegex: "ModalDialogPopup", TargetCSS: StringList{LibraryCSS}, TargetJS: StringList{LibraryJS}},
	{MatchRegex: "FullModalOverlay", TargetCSS: StringList{LibraryCSS}, TargetJS: StringList{LibraryJS}},
}

// DefaultPatches returns a copy of the built-in patch table.
func DefaultPatches() []Patch {
	out := make([]Patch, len(defaultPatches))
	copy(out, defaultPatches)
	return out
}

// MergePatches returns the default table minus every entry whose selector an
// author patch also declares, followed by the author patches. Author patches
// therefore inject after the defaults and win specificity ties.
func MergePatches(author []Patch) []Patch {
	overridden := make(map[string]struct{}, len(author))
	for _, p := range author {
		overridden[p.MatchRegex] = struct{}{}
	}

	merged := make([]Patch, 0, len(defaultPatches)+len(author))
	for _, d := range defaultPatches {
		if _, ok := overridden[d.MatchRegex]; ok {
			continue
		}
		merged = append(merged, d)
	}
	return append(merged, author...)
}
