// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package patcher

import (
	"fmt"
	"path"

	"github.com/olegiv/skinpatch/internal/dom"
	"github.com/olegiv/skinpatch/internal/util"
)

// SkinsRoot is the directory, relative to the host UI root, holding skins.
const SkinsRoot = "skins"

// AssetKind selects the injector operation for an asset.
type AssetKind int

const (
	AssetCSS AssetKind = iota + 1
	AssetJS
)

func (k AssetKind) String() string {
	switch k {
	case AssetCSS:
		return "css"
	case AssetJS:
		return "js"
	default:
		return fmt.Sprintf("AssetKind(%d)", int(k))
	}
}

// Dispatcher resolves skin-relative assets and hands them to the injector.
type Dispatcher struct {
	NativeID string
	Injector dom.Injector
}

// Resolve returns skins/<nativeId>/<src>.
func (d Dispatcher) Resolve(src string) (string, error) {
	return util.JoinRelative(path.Join(SkinsRoot, d.NativeID), src)
}

// Dispatch injects src into doc as the given kind. Each kind triggers exactly
// one injector call with its own asset. Reports whether a node was appended.
func (d Dispatcher) Dispatch(kind AssetKind, src string, doc *dom.Document) (bool, error) {
	resolved, err := d.Resolve(src)
	if err != nil {
		return false, fmt.Errorf("resolving %s asset: %w", kind, err)
	}

	switch kind {
	case AssetCSS:
		return d.Injector.AddStylesheet(doc, resolved), nil
	case AssetJS:
		return d.Injector.AddScript(doc, resolved), nil
	default:
		return false, fmt.Errorf("unknown asset kind %s for %q", kind, src)
	}
}
