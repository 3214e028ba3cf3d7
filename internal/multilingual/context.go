// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import "context"

type contextKey string

const (
	ambientLanguageKey contextKey = "multilingual_language"
	forcedLanguageKey  contextKey = "multilingual_forced_language"
)

// WithLanguage returns a context carrying the ambient (request) language.
func WithLanguage(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, ambientLanguageKey, NormalizeLanguage(code))
}

// WithForcedLanguage returns a context whose reads and writes resolve against
// code regardless of the ambient language. The override only lives as long as
// the derived context is used.
func WithForcedLanguage(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, forcedLanguageKey, NormalizeLanguage(code))
}

// LanguageFromContext returns the ambient language, or "" if none is set.
func LanguageFromContext(ctx context.Context) string {
	code, _ := ctx.Value(ambientLanguageKey).(string)
	return code
}

// ForcedLanguageFromContext returns the forced language, or "" if none is set.
func ForcedLanguageFromContext(ctx context.Context) string {
	code, _ := ctx.Value(forcedLanguageKey).(string)
	return code
}

// ActiveLanguage resolves the language reads and writes apply to:
// forced language, then ambient language, then primary.
func (l Languages) ActiveLanguage(ctx context.Context) string {
	if code := ForcedLanguageFromContext(ctx); code != "" {
		return code
	}
	if code := LanguageFromContext(ctx); code != "" {
		return code
	}
	return l.primary
}
