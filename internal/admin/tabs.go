// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

import (
	"net/http"
	"net/url"
	"slices"

	"github.com/olegiv/ocms-multilingual/internal/i18n"
	"github.com/olegiv/ocms-multilingual/internal/middleware"
	"github.com/olegiv/ocms-multilingual/internal/multilingual"
)

// Tab statuses.
const (
	TabCurrent  = "current"
	TabActive   = "active"
	TabInactive = "inactive"
)

// LanguageTab links the change view of one language.
type LanguageTab struct {
	Name          string `json:"name"`
	Language      string `json:"language"`
	Status        string `json:"status"`
	URL           string `json:"url"`
	DeactivateURL string `json:"deactivate_url,omitempty"`
}

// languageTabs builds one tab per configured language. rec is nil on the add
// view. Tab URLs keep the query of GET requests with the language replaced.
func (s *Site) languageTabs(r *http.Request, m *ModelAdmin, rec *multilingual.Record, current string) []LanguageTab {
	var bound []string
	if rec != nil {
		bound = rec.BoundLanguages()
	}
	canDelete := middleware.GetPermissions(r).Delete

	tabs := make([]LanguageTab, 0, s.langs.Len())
	for _, lang := range s.langs.Codes() {
		data := url.Values{}
		if r.Method == http.MethodGet {
			for k, v := range r.URL.Query() {
				data[k] = slices.Clone(v)
			}
		}
		data.Set(middleware.LanguageQueryKey, lang)

		status := TabInactive
		switch {
		case lang == current:
			status = TabCurrent
		case slices.Contains(bound, lang):
			status = TabActive
		}

		tab := LanguageTab{
			Name:     i18n.LanguageName(lang),
			Language: lang,
			Status:   status,
			URL:      r.URL.Path + "?" + data.Encode(),
		}
		if rec != nil && canDelete && rec.TranslationExists(lang) {
			tab.DeactivateURL = s.deactivateURL(m, rec.ID(), lang)
		}
		tabs = append(tabs, tab)
	}
	return tabs
}
