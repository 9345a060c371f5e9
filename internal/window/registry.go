// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package window tracks host windows and drives the theming pass for each
// of them as they appear.
package window

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/olegiv/skinpatch/internal/dom"
	"github.com/olegiv/skinpatch/internal/patcher"
)

// eventBuffer is the per-subscriber window-created backlog. Events beyond it
// are dropped; the next sweep still picks those windows up.
const eventBuffer = 256

// Params are the class attributes the host reports for a window.
type Params struct {
	HTMLClass string `json:"html_class"`
	BodyClass string `json:"body_class"`
}

// Record is one host window. The patched flag is owned by the coordinator:
// it is set once and never cleared.
type Record struct {
	Handle    string
	Title     string
	ClassList []string
	Document  *dom.Document

	patched atomic.Bool
}

// NewRecord creates a record; the class list is the html classes followed by
// the body classes.
func NewRecord(handle, title string, params Params, doc *dom.Document) *Record {
	classes := append(strings.Fields(params.HTMLClass), strings.Fields(params.BodyClass)...)
	return &Record{Handle: handle, Title: title, ClassList: classes, Document: doc}
}

// Patched reports whether the theming pass has completed for this window.
func (r *Record) Patched() bool {
	return r.patched.Load()
}

func (r *Record) markPatched() bool {
	return r.patched.CompareAndSwap(false, true)
}

func (r *Record) target() patcher.Window {
	return patcher.Window{Handle: r.Handle, Title: r.Title, ClassList: r.ClassList, Document: r.Document}
}

// Registry enumerates open windows and announces new ones.
type Registry interface {
	Windows() []*Record
	Subscribe() (<-chan *Record, func())
}

// MemoryRegistry is an in-process Registry.
type MemoryRegistry struct {
	mu      sync.RWMutex
	windows []*Record
	byID    map[string]*Record
	subs    map[int]chan *Record
	nextSub int
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		byID: make(map[string]*Record),
		subs: make(map[int]chan *Record),
	}
}

// Open registers a window under a fresh handle and announces it.
func (m *MemoryRegistry) Open(title string, params Params, doc *dom.Document) *Record {
	rec := NewRecord(uuid.NewString(), title, params, doc)

	m.mu.Lock()
	m.windows = append(m.windows, rec)
	m.byID[rec.Handle] = rec
	for _, ch := range m.subs {
		select {
		case ch <- rec:
		default:
		}
	}
	m.mu.Unlock()

	return rec
}

// OpenDocument registers a window whose identity is read from the document:
// the <title> text and the html/body class attributes.
func (m *MemoryRegistry) OpenDocument(doc *dom.Document) *Record {
	return m.Open(doc.Title(), Params{
		HTMLClass: strings.Join(doc.HTMLClass(), " "),
		BodyClass: strings.Join(doc.BodyClass(), " "),
	}, doc)
}

// Windows implements Registry.
func (m *MemoryRegistry) Windows() []*Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*Record(nil), m.windows...)
}

// Get returns a window by handle.
func (m *MemoryRegistry) Get(handle string) (*Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.byID[handle]
	return rec, ok
}

// Subscribe implements Registry. The returned function unsubscribes and
// closes the channel.
func (m *MemoryRegistry) Subscribe() (<-chan *Record, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	ch := make(chan *Record, eventBuffer)
	m.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs, id)
			close(ch)
		})
	}
}
