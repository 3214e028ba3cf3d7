// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package admin serves the JSON admin surface for translatable models:
// model index, list and search, add and change views with per-language
// tabs, and the deactivate-translation confirmation flow.
package admin

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-multilingual/internal/i18n"
	"github.com/olegiv/ocms-multilingual/internal/middleware"
	"github.com/olegiv/ocms-multilingual/internal/multilingual"
	"github.com/olegiv/ocms-multilingual/internal/store"
)

// DefaultBasePath is where the admin site is mounted.
const DefaultBasePath = "/admin"

// SessionKeyFlash holds flash messages between a redirect and the next view.
const SessionKeyFlash = "flash"

const perPage = 25

// RecordStore loads and writes single records. cache.RecordStore and
// store.Store both satisfy it.
type RecordStore interface {
	multilingual.Updater
	multilingual.Saver
	GetRecord(ctx context.Context, schema *multilingual.Schema, id string) (*multilingual.Record, error)
}

// RecordLister lists and searches records.
type RecordLister interface {
	ListRecords(ctx context.Context, schema *multilingual.Schema, opts store.ListOptions) ([]*multilingual.Record, error)
	SearchRecords(ctx context.Context, schema *multilingual.Schema, fields []string, term string, opts store.ListOptions) ([]*multilingual.Record, error)
	CountRecords(ctx context.Context, schema *multilingual.Schema) (int64, error)
	CountSearch(ctx context.Context, schema *multilingual.Schema, fields []string, term string) (int64, error)
}

// EventLogger records admin actions in the event log.
type EventLogger interface {
	CreateEvent(ctx context.Context, arg store.CreateEventParams) (int64, error)
}

// Options configures a Site.
type Options struct {
	Records   RecordStore
	Lister    RecordLister
	Events    EventLogger // optional
	Catalog   *i18n.Catalog
	Sessions  *scs.SessionManager // optional; flash messages are dropped without it
	Languages multilingual.Languages
	BasePath  string
}

// ModelAdmin is a registered model.
type ModelAdmin struct {
	schema       *multilingual.Schema
	key          string
	searchFields []string
	displayField string
	prepopulated []prepopulated
	htmlFields   map[string]bool
}

type prepopulated struct {
	target, source string
}

// Option configures a model at registration.
type Option func(*ModelAdmin)

// SearchFields sets the fields searched by the list view across all
// language slots. The first text field is searched by default.
func SearchFields(fields ...string) Option {
	return func(m *ModelAdmin) {
		m.searchFields = fields
	}
}

// HTMLFields marks text fields that hold HTML. Their submitted values are
// sanitized; other text fields are stored verbatim.
func HTMLFields(fields ...string) Option {
	return func(m *ModelAdmin) {
		if m.htmlFields == nil {
			m.htmlFields = make(map[string]bool, len(fields))
		}
		for _, f := range fields {
			m.htmlFields[f] = true
		}
	}
}

// Prepopulate fills target with a slug of source when a form leaves target
// empty. Both must be text fields.
func Prepopulate(target, source string) Option {
	return func(m *ModelAdmin) {
		m.prepopulated = append(m.prepopulated, prepopulated{target: target, source: source})
	}
}

// Key returns the URL segment of the model.
func (m *ModelAdmin) Key() string { return m.key }

// Schema returns the model schema.
func (m *ModelAdmin) Schema() *multilingual.Schema { return m.schema }

// Site is the admin site.
type Site struct {
	records  RecordStore
	lister   RecordLister
	events   EventLogger
	catalog  *i18n.Catalog
	sessions *scs.SessionManager
	langs    multilingual.Languages
	basePath string

	models map[string]*ModelAdmin
	order  []string
}

// NewSite creates an admin site with no registered models.
func NewSite(opts Options) *Site {
	base := strings.TrimRight(opts.BasePath, "/")
	if base == "" {
		base = DefaultBasePath
	}
	return &Site{
		records:  opts.Records,
		lister:   opts.Lister,
		events:   opts.Events,
		catalog:  opts.Catalog,
		sessions: opts.Sessions,
		langs:    opts.Languages,
		basePath: base,
		models:   make(map[string]*ModelAdmin),
	}
}

// Register adds a model to the site.
func (s *Site) Register(schema *multilingual.Schema, opts ...Option) error {
	key := strings.ToLower(schema.Name())
	if _, dup := s.models[key]; dup {
		return fmt.Errorf("model %s already registered", schema.Name())
	}
	m := &ModelAdmin{schema: schema, key: key}
	for _, f := range schema.Fields() {
		if f.Type == multilingual.TypeText {
			m.displayField = f.Name
			break
		}
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.validate(); err != nil {
		return err
	}
	if len(m.searchFields) == 0 && m.displayField != "" {
		m.searchFields = []string{m.displayField}
	}
	s.models[key] = m
	s.order = append(s.order, key)
	return nil
}

func (m *ModelAdmin) validate() error {
	for _, name := range m.searchFields {
		if _, ok := m.schema.Field(name); !ok {
			return &multilingual.FieldNotFoundError{Model: m.schema.Name(), Field: name}
		}
	}
	for name := range m.htmlFields {
		f, ok := m.schema.Field(name)
		if !ok {
			return &multilingual.FieldNotFoundError{Model: m.schema.Name(), Field: name}
		}
		if f.Type != multilingual.TypeText {
			return fmt.Errorf("html field %s.%s must be text", m.schema.Name(), name)
		}
	}
	for _, p := range m.prepopulated {
		for _, name := range []string{p.target, p.source} {
			f, ok := m.schema.Field(name)
			if !ok {
				return &multilingual.FieldNotFoundError{Model: m.schema.Name(), Field: name}
			}
			if f.Type != multilingual.TypeText {
				return fmt.Errorf("prepopulated field %s.%s must be text", m.schema.Name(), name)
			}
		}
	}
	return nil
}

// Models returns the registered models in registration order.
func (s *Site) Models() []*ModelAdmin {
	out := make([]*ModelAdmin, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.models[key])
	}
	return out
}

// Routes returns the admin router. It expects middleware.LoadPermissions and
// middleware.Language to have run.
func (s *Site) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireView)

	r.Get("/", s.index)
	r.Route("/{model}", func(r chi.Router) {
		r.Use(s.loadModel)
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Get("/add", s.addForm)
		r.Get("/{id}", s.change)
		r.Post("/{id}", s.save)
		r.Get("/{id}/deactivate-translation/{lang}", s.confirmDeactivate)
		r.Post("/{id}/deactivate-translation/{lang}", s.deactivate)
	})
	return r
}

type modelKey struct{}

func (s *Site) loadModel(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m, ok := s.models[strings.ToLower(chi.URLParam(r, "model"))]
		if !ok {
			s.notFound(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), modelKey{}, m)))
	})
}

func modelFrom(r *http.Request) *ModelAdmin {
	m, _ := r.Context().Value(modelKey{}).(*ModelAdmin)
	return m
}

// formLanguage returns the language the views edit: ?language= when it names
// a configured language, otherwise the request's active language.
func (s *Site) formLanguage(r *http.Request) string {
	if q := r.URL.Query().Get(middleware.LanguageQueryKey); q != "" && s.langs.Contains(q) {
		return multilingual.NormalizeLanguage(q)
	}
	return s.langs.ActiveLanguage(r.Context())
}

// uiLanguage returns the language of admin messages. It follows
// Accept-Language only, so switching the form language with ?language= does
// not translate the admin itself.
func (s *Site) uiLanguage(r *http.Request) string {
	if s.catalog == nil {
		return s.langs.Primary()
	}
	return s.catalog.Match(r.Header.Get("Accept-Language"))
}

// t renders the catalog message key for the UI language of r.
func (s *Site) t(r *http.Request, key string, args ...any) string {
	tmpl := key
	if s.catalog != nil {
		tmpl = s.catalog.Lookup(s.uiLanguage(r), key)
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

func (s *Site) modelURL(m *ModelAdmin) string {
	return s.basePath + "/" + m.key + "/"
}

func (s *Site) changeURL(m *ModelAdmin, id string) string {
	return s.basePath + "/" + m.key + "/" + id
}

func (s *Site) deactivateURL(m *ModelAdmin, id, lang string) string {
	return s.changeURL(m, id) + "/deactivate-translation/" + lang
}

// objectName is the display string of a record: its first text field in
// lang, with fallback to other languages.
func (s *Site) objectName(ctx context.Context, m *ModelAdmin, rec *multilingual.Record, lang string) string {
	if m.displayField != "" {
		ctx = multilingual.WithForcedLanguage(ctx, lang)
		if v, ok := rec.GetWithFallback(ctx, m.displayField).(string); ok && v != "" {
			return v
		}
	}
	return fmt.Sprintf("%s object (%s)", m.schema.Name(), rec.ID())
}

func (s *Site) flash(r *http.Request, msg string) {
	if s.sessions == nil {
		return
	}
	s.sessions.Put(r.Context(), SessionKeyFlash, msg)
}

func (s *Site) popFlash(r *http.Request) []string {
	if s.sessions == nil {
		return nil
	}
	if msg := s.sessions.PopString(r.Context(), SessionKeyFlash); msg != "" {
		return []string{msg}
	}
	return nil
}
