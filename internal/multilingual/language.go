// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ErrUnknownLanguage is returned when a language is not in the configured list.
var ErrUnknownLanguage = errors.New("unknown language")

// NormalizeLanguage returns the language part of a code with any region or
// locale suffix stripped, lower-cased. "en-us", "EN-US" and "en_US" all become "en".
func NormalizeLanguage(code string) string {
	code = strings.TrimSpace(code)
	if idx := strings.IndexAny(code, "-_"); idx >= 0 {
		code = code[:idx]
	}
	return strings.ToLower(code)
}

// Languages is the ordered list of configured languages plus the primary one.
type Languages struct {
	codes   []string
	primary string
}

// NewLanguages validates and normalizes the configured language codes.
// An empty primary defaults to the first code.
func NewLanguages(codes []string, primary string) (Languages, error) {
	if len(codes) == 0 {
		return Languages{}, errors.New("at least one language must be configured")
	}

	seen := make(map[string]bool, len(codes))
	normalized := make([]string, 0, len(codes))
	for _, code := range codes {
		n := NormalizeLanguage(code)
		if n == "" {
			return Languages{}, fmt.Errorf("empty language code in %v", codes)
		}
		if !isIdentifier(n) {
			return Languages{}, fmt.Errorf("invalid language code %q", code)
		}
		if _, err := language.Parse(n); err != nil {
			return Languages{}, fmt.Errorf("invalid language code %q: %w", code, err)
		}
		if seen[n] {
			return Languages{}, fmt.Errorf("duplicate language %q", n)
		}
		seen[n] = true
		normalized = append(normalized, n)
	}

	p := NormalizeLanguage(primary)
	if p == "" {
		p = normalized[0]
	}
	if !seen[p] {
		return Languages{}, fmt.Errorf("primary language %q: %w", primary, ErrUnknownLanguage)
	}

	return Languages{codes: normalized, primary: p}, nil
}

// MustLanguages is like NewLanguages but panics on error. Intended for tests
// and package-level setup.
func MustLanguages(codes []string, primary string) Languages {
	langs, err := NewLanguages(codes, primary)
	if err != nil {
		panic(err)
	}
	return langs
}

// Codes returns a copy of the configured codes in declaration order.
func (l Languages) Codes() []string {
	out := make([]string, len(l.codes))
	copy(out, l.codes)
	return out
}

// Primary returns the primary language code.
func (l Languages) Primary() string {
	return l.primary
}

// Len returns the number of configured languages.
func (l Languages) Len() int {
	return len(l.codes)
}

// Contains reports whether code (after normalization) is configured.
func (l Languages) Contains(code string) bool {
	n := NormalizeLanguage(code)
	for _, c := range l.codes {
		if c == n {
			return true
		}
	}
	return false
}

// Tags returns the configured languages as x/text tags, in order.
func (l Languages) Tags() []language.Tag {
	tags := make([]language.Tag, 0, len(l.codes))
	for _, c := range l.codes {
		tags = append(tags, language.Make(c))
	}
	return tags
}
