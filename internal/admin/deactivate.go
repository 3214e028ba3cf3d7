// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-multilingual/internal/i18n"
	"github.com/olegiv/ocms-multilingual/internal/middleware"
	"github.com/olegiv/ocms-multilingual/internal/multilingual"
)

// ConfirmView asks before a translation is deactivated.
type ConfirmView struct {
	Title        string `json:"title"`
	ObjectName   string `json:"object_name"`
	Object       string `json:"object"`
	Language     string `json:"language"`
	LanguageName string `json:"language_name"`
	Text         string `json:"text"`
	URL          string `json:"url"`
}

// loadTranslation resolves the record and the active translation named by
// the URL. It writes 404 for an unknown record, language or inactive
// translation and 403 without delete permission.
func (s *Site) loadTranslation(w http.ResponseWriter, r *http.Request) (*ModelAdmin, *multilingual.Record, string, bool) {
	m := modelFrom(r)
	rec, ok := s.requireRecord(w, r, m, chi.URLParam(r, "id"))
	if !ok {
		return nil, nil, "", false
	}
	lang := multilingual.NormalizeLanguage(chi.URLParam(r, "lang"))
	if !s.langs.Contains(lang) {
		s.notFound(w, r)
		return nil, nil, "", false
	}
	if _, ok := rec.Translation(lang, false); !ok {
		s.notFound(w, r)
		return nil, nil, "", false
	}
	if !middleware.GetPermissions(r).Delete {
		s.forbidden(w, r)
		return nil, nil, "", false
	}
	return m, rec, lang, true
}

func (s *Site) confirmDeactivate(w http.ResponseWriter, r *http.Request) {
	m, rec, lang, ok := s.loadTranslation(w, r)
	if !ok {
		return
	}
	name := s.objectName(r.Context(), m, rec, s.formLanguage(r))
	langName := i18n.LanguageName(lang)
	writeJSON(w, http.StatusOK, ConfirmView{
		Title:        s.t(r, "admin.confirm.title"),
		ObjectName:   s.t(r, "admin.confirm.object", m.schema.Name()),
		Object:       name,
		Language:     lang,
		LanguageName: langName,
		Text:         s.t(r, "admin.confirm.text", langName, strings.ToLower(m.schema.Name()), name),
		URL:          s.deactivateURL(m, rec.ID(), lang),
	})
}

func (s *Site) deactivate(w http.ResponseWriter, r *http.Request) {
	m, rec, lang, ok := s.loadTranslation(w, r)
	if !ok {
		return
	}
	name := s.objectName(r.Context(), m, rec, s.formLanguage(r))
	langName := i18n.LanguageName(lang)

	if _, err := rec.DeactivateTranslation(r.Context(), s.records, lang); err != nil {
		logAndInternalError(w, "failed to deactivate translation", "error", err, "model", m.key, "id", rec.ID(), "language", lang)
		return
	}
	s.logEvent(r.Context(), m, rec, lang, fmt.Sprintf("deactivated %s translation of %s", langName, name))
	s.flash(r, s.t(r, "msg.deactivated", strings.ToLower(m.schema.Name()), name, langName))

	if !middleware.GetPermissions(r).Change {
		http.Redirect(w, r, s.basePath+"/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, s.changeURL(m, rec.ID()), http.StatusSeeOther)
}
