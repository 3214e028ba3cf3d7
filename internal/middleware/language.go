// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/olegiv/ocms-multilingual/internal/multilingual"
)

// LanguageQueryKey is the query parameter selecting the form language.
const LanguageQueryKey = "language"

// LanguageCookieName is the cookie name for language preference.
const LanguageCookieName = "ocms_lang"

// Language detects the request language and stores it as the ambient
// language with multilingual.WithLanguage. Priority order:
//  1. ?language=XX when configured (also updates the cookie)
//  2. {lang} URL parameter from the chi router
//  3. language cookie
//  4. Accept-Language header
//  5. primary language
//
// Unconfigured values are ignored at every step.
func Language(langs multilingual.Languages) func(http.Handler) http.Handler {
	tags := langs.Tags()
	matcher := language.NewMatcher(tags)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := detectLanguage(w, r, langs, matcher, tags)
			ctx := multilingual.WithLanguage(r.Context(), code)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLanguage(w http.ResponseWriter, r *http.Request, langs multilingual.Languages, matcher language.Matcher, tags []language.Tag) string {
	if q := r.URL.Query().Get(LanguageQueryKey); q != "" {
		if code := multilingual.NormalizeLanguage(q); langs.Contains(code) {
			SetLanguageCookie(w, code)
			return code
		}
	}

	if p := chi.URLParam(r, "lang"); p != "" {
		if code := multilingual.NormalizeLanguage(p); langs.Contains(code) {
			return code
		}
	}

	if c, err := r.Cookie(LanguageCookieName); err == nil {
		if code := multilingual.NormalizeLanguage(c.Value); langs.Contains(code) {
			return code
		}
	}

	if accept := r.Header.Get("Accept-Language"); accept != "" {
		if code, ok := matchAcceptLanguage(accept, matcher, tags); ok {
			return code
		}
	}

	return langs.Primary()
}

// matchAcceptLanguage returns the configured language that best matches an
// Accept-Language header.
func matchAcceptLanguage(accept string, matcher language.Matcher, tags []language.Tag) (string, bool) {
	requested, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(requested) == 0 {
		return "", false
	}
	_, idx, conf := matcher.Match(requested...)
	if conf == language.No {
		return "", false
	}
	return multilingual.NormalizeLanguage(tags[idx].String()), true
}

// GetLanguage returns the ambient language of the request, or "" when the
// Language middleware did not run.
func GetLanguage(r *http.Request) string {
	return multilingual.LanguageFromContext(r.Context())
}

// SetLanguageCookie sets the language preference cookie.
func SetLanguageCookie(w http.ResponseWriter, code string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    code,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
