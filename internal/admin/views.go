// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-multilingual/internal/i18n"
	"github.com/olegiv/ocms-multilingual/internal/middleware"
	"github.com/olegiv/ocms-multilingual/internal/model"
	"github.com/olegiv/ocms-multilingual/internal/multilingual"
	"github.com/olegiv/ocms-multilingual/internal/store"
)

// ModelSummary is one entry of the index view.
type ModelSummary struct {
	Name               string   `json:"name"`
	Key                string   `json:"key"`
	URL                string   `json:"url"`
	TranslatableFields []string `json:"translatable_fields"`
}

// IndexView is the admin home.
type IndexView struct {
	Title     string                 `json:"title"`
	Models    []ModelSummary         `json:"models"`
	Languages []model.LanguageInfo   `json:"languages"`
	Messages  []string               `json:"messages,omitempty"`
	Perms     middleware.Permissions `json:"permissions"`
}

// ListItem is one row of the list view.
type ListItem struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	URL       string         `json:"url"`
	Languages []string       `json:"languages"`
	Fields    map[string]any `json:"fields"`
}

// ListView lists or searches a model.
type ListView struct {
	Title    string     `json:"title"`
	Model    string     `json:"model"`
	Language string     `json:"language"`
	Query    string     `json:"q,omitempty"`
	Page     int        `json:"page"`
	Total    int64      `json:"total"`
	Results  []ListItem `json:"results"`
	Messages []string   `json:"messages,omitempty"`
}

// ChangeView is the add or change form of one record in one language.
type ChangeView struct {
	Title             string                 `json:"title"`
	Model             string                 `json:"model"`
	ID                string                 `json:"id,omitempty"`
	Language          string                 `json:"language"`
	TranslationActive bool                   `json:"translation_active"`
	Fields            map[string]any         `json:"fields"`
	LanguageTabs      []LanguageTab          `json:"language_tabs"`
	Messages          []string               `json:"messages,omitempty"`
	Perms             middleware.Permissions `json:"permissions"`
}

func (s *Site) index(w http.ResponseWriter, r *http.Request) {
	view := IndexView{
		Title:    s.t(r, "admin.title.index"),
		Messages: s.popFlash(r),
		Perms:    middleware.GetPermissions(r),
	}
	for _, m := range s.Models() {
		view.Models = append(view.Models, ModelSummary{
			Name:               m.schema.Name(),
			Key:                m.key,
			URL:                s.modelURL(m),
			TranslatableFields: m.schema.TranslatableFields(),
		})
	}
	for _, code := range s.langs.Codes() {
		view.Languages = append(view.Languages, i18n.Info(code, s.langs.Primary()))
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Site) list(w http.ResponseWriter, r *http.Request) {
	m := modelFrom(r)
	lang := s.formLanguage(r)
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	opts := store.ListOptions{Limit: perPage, Offset: (page - 1) * perPage}

	var (
		records []*multilingual.Record
		total   int64
		err     error
	)
	if q != "" && len(m.searchFields) > 0 {
		records, err = s.lister.SearchRecords(r.Context(), m.schema, m.searchFields, q, opts)
		if err == nil {
			total, err = s.lister.CountSearch(r.Context(), m.schema, m.searchFields, q)
		}
	} else {
		records, err = s.lister.ListRecords(r.Context(), m.schema, opts)
		if err == nil {
			total, err = s.lister.CountRecords(r.Context(), m.schema)
		}
	}
	if err != nil {
		logAndInternalError(w, "failed to list records", "error", err, "model", m.key)
		return
	}

	ctx := multilingual.WithForcedLanguage(r.Context(), lang)
	view := ListView{
		Title:    s.t(r, "admin.title.list", strings.ToLower(m.schema.Name())),
		Model:    m.schema.Name(),
		Language: lang,
		Query:    q,
		Page:     page,
		Total:    total,
		Results:  make([]ListItem, 0, len(records)),
		Messages: s.popFlash(r),
	}
	for _, rec := range records {
		fields := make(map[string]any)
		for _, f := range m.schema.Fields() {
			if f.Name == m.schema.ActiveField() {
				continue
			}
			fields[f.Name] = rec.GetWithFallback(ctx, f.Name)
		}
		view.Results = append(view.Results, ListItem{
			ID:        rec.ID(),
			Name:      s.objectName(r.Context(), m, rec, lang),
			URL:       s.changeURL(m, rec.ID()) + "?" + middleware.LanguageQueryKey + "=" + lang,
			Languages: rec.BoundLanguages(),
			Fields:    fields,
		})
	}
	writeJSON(w, http.StatusOK, view)
}

// changeTitle is "<Add|Change> <model> (<language name>)".
func (s *Site) changeTitle(r *http.Request, key string, m *ModelAdmin, lang string) string {
	return fmt.Sprintf("%s (%s)", s.t(r, key, strings.ToLower(m.schema.Name())), i18n.LanguageName(lang))
}

func (s *Site) addForm(w http.ResponseWriter, r *http.Request) {
	m := modelFrom(r)
	lang := s.formLanguage(r)
	fields := make(map[string]any)
	for _, f := range m.schema.Fields() {
		if f.Name != m.schema.ActiveField() {
			fields[f.Name] = nil
		}
	}
	writeJSON(w, http.StatusOK, ChangeView{
		Title:        s.changeTitle(r, "admin.title.add", m, lang),
		Model:        m.schema.Name(),
		Language:     lang,
		Fields:       fields,
		LanguageTabs: s.languageTabs(r, m, nil, lang),
		Messages:     s.popFlash(r),
		Perms:        middleware.GetPermissions(r),
	})
}

func (s *Site) change(w http.ResponseWriter, r *http.Request) {
	m := modelFrom(r)
	rec, ok := s.requireRecord(w, r, m, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	lang := s.formLanguage(r)
	writeJSON(w, http.StatusOK, s.changeView(r, m, rec, lang))
}

func (s *Site) changeView(r *http.Request, m *ModelAdmin, rec *multilingual.Record, lang string) ChangeView {
	ctx := multilingual.WithForcedLanguage(r.Context(), lang)
	fields := make(map[string]any)
	for _, f := range m.schema.Fields() {
		if f.Name != m.schema.ActiveField() {
			fields[f.Name] = rec.Get(ctx, f.Name)
		}
	}
	return ChangeView{
		Title:             s.changeTitle(r, "admin.title.change", m, lang),
		Model:             m.schema.Name(),
		ID:                rec.ID(),
		Language:          lang,
		TranslationActive: rec.TranslationExists(lang),
		Fields:            fields,
		LanguageTabs:      s.languageTabs(r, m, rec, lang),
		Messages:          s.popFlash(r),
		Perms:             middleware.GetPermissions(r),
	}
}

func (s *Site) create(w http.ResponseWriter, r *http.Request) {
	m := modelFrom(r)
	if !middleware.GetPermissions(r).Change {
		s.forbidden(w, r)
		return
	}
	values, ok := s.parseRequest(w, r, m)
	if !ok {
		return
	}

	m.prepopulate(values, nil)

	lang := s.formLanguage(r)
	ctx := multilingual.WithForcedLanguage(r.Context(), lang)
	rec, err := multilingual.NewRecord(ctx, m.schema, values)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := rec.Save(ctx, s.records); err != nil {
		logAndInternalError(w, "failed to create record", "error", err, "model", m.key)
		return
	}

	name := s.objectName(r.Context(), m, rec, lang)
	s.logEvent(r.Context(), m, rec, lang, fmt.Sprintf("added %s translation of %s", i18n.LanguageName(lang), name))
	s.flash(r, s.t(r, "msg.added", strings.ToLower(m.schema.Name()), name))
	http.Redirect(w, r, s.redirectURL(r, m, rec.ID()), http.StatusSeeOther)
}

func (s *Site) save(w http.ResponseWriter, r *http.Request) {
	m := modelFrom(r)
	if !middleware.GetPermissions(r).Change {
		s.forbidden(w, r)
		return
	}
	rec, ok := s.requireRecord(w, r, m, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	values, ok := s.parseRequest(w, r, m)
	if !ok {
		return
	}

	lang := s.formLanguage(r)
	ctx := multilingual.WithForcedLanguage(r.Context(), lang)
	m.prepopulate(values, func(field string) any { return rec.Get(ctx, field) })
	for field, v := range values {
		rec.Set(ctx, field, v)
	}
	if err := rec.Save(ctx, s.records); err != nil {
		logAndInternalError(w, "failed to save record", "error", err, "model", m.key, "id", rec.ID())
		return
	}

	name := s.objectName(r.Context(), m, rec, lang)
	s.logEvent(r.Context(), m, rec, lang, fmt.Sprintf("changed %s translation of %s", i18n.LanguageName(lang), name))
	s.flash(r, s.t(r, "msg.changed", strings.ToLower(m.schema.Name()), name))
	http.Redirect(w, r, s.redirectURL(r, m, rec.ID()), http.StatusSeeOther)
}

// redirectURL is the change view of id, keeping ?language= of the request.
func (s *Site) redirectURL(r *http.Request, m *ModelAdmin, id string) string {
	u := s.changeURL(m, id)
	if lang := r.URL.Query().Get(middleware.LanguageQueryKey); lang != "" {
		u += "?" + url.Values{middleware.LanguageQueryKey: {lang}}.Encode()
	}
	return u
}

func (s *Site) parseRequest(w http.ResponseWriter, r *http.Request, m *ModelAdmin) (map[string]any, bool) {
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, s.t(r, "error.invalid_form"))
		return nil, false
	}
	values, errs := parseForm(m.schema, r.PostForm, m.htmlFields)
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   s.t(r, "error.invalid_form"),
			"errors":  errs,
		})
		return nil, false
	}
	return values, true
}

// logEvent writes an admin action to the event log. Failures are logged only.
func (s *Site) logEvent(ctx context.Context, m *ModelAdmin, rec *multilingual.Record, lang, message string) {
	if s.events == nil {
		return
	}
	meta, _ := json.Marshal(map[string]string{
		"model":    m.schema.Name(),
		"id":       rec.ID(),
		"language": lang,
	})
	_, err := s.events.CreateEvent(ctx, store.CreateEventParams{
		Level:    model.EventLevelInfo,
		Category: model.EventCategoryTranslation,
		Message:  message,
		Metadata: string(meta),
	})
	if err != nil {
		slog.Error("failed to log admin event", "error", err, "model", m.key, "id", rec.ID())
	}
}
