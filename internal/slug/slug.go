// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package slug turns titles in any script into ASCII URL slugs.
package slug

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

var (
	invalidChars    = regexp.MustCompile(`[^a-z0-9-]+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Make transliterates s to ASCII and reduces it to lowercase letters,
// digits and single hyphens. It returns "" when nothing is left.
func Make(s string) string {
	result := unidecode.Unidecode(norm.NFC.String(s))
	result = strings.ToLower(result)
	result = invalidChars.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// MakeMax is Make truncated to at most n bytes, cut at a hyphen when one
// is available.
func MakeMax(s string, n int) string {
	result := Make(s)
	if n <= 0 || len(result) <= n {
		return result
	}
	result = result[:n]
	if i := strings.LastIndexByte(result, '-'); i > 0 {
		result = result[:i]
	}
	return strings.Trim(result, "-")
}

// Valid reports whether s is already a well-formed slug.
func Valid(s string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' || strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}
