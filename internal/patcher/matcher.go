// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package patcher

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Matcher decides whether a selector pattern matches a window. Compiled
// patterns are cached; it is safe for concurrent use.
type Matcher struct {
	mu    sync.Mutex
	cache map[string]compiledPattern
}

type compiledPattern struct {
	re  *regexp.Regexp
	err error
}

// NewMatcher creates a matcher with an empty pattern cache.
func NewMatcher() *Matcher {
	return &Matcher{cache: make(map[string]compiledPattern)}
}

// Match reports whether pattern matches the window. The title is tested with
// pattern as a regular expression; each class is tested for containing
// pattern as a literal substring. Either test matching is enough.
//
// A pattern that does not compile yields the class result together with the
// compile error.
func (m *Matcher) Match(pattern, title string, classList []string) (bool, error) {
	classMatch := false
	for _, class := range classList {
		if strings.Contains(class, pattern) {
			classMatch = true
			break
		}
	}

	re, err := m.compile(pattern)
	if err != nil {
		return classMatch, err
	}
	return classMatch || re.MatchString(title), nil
}

func (m *Matcher) compile(pattern string) (*regexp.Regexp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.cache[pattern]; ok {
		return c.re, c.err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		err = fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}
	m.cache[pattern] = compiledPattern{re: re, err: err}
	return re, err
}
