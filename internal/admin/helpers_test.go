// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-multilingual/internal/cache"
	"github.com/olegiv/ocms-multilingual/internal/i18n"
	"github.com/olegiv/ocms-multilingual/internal/middleware"
	"github.com/olegiv/ocms-multilingual/internal/multilingual"
	"github.com/olegiv/ocms-multilingual/internal/store"
)

type testEnv struct {
	store   *store.Store
	schema  *multilingual.Schema
	handler http.Handler
	perms   middleware.Permissions
	header  http.Header
	cookies map[string]*http.Cookie
}

func testLanguages() multilingual.Languages {
	return multilingual.MustLanguages([]string{"en", "fr", "de"}, "en")
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "admin.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db, store.DialectSQLite); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	langs := testLanguages()
	schema := multilingual.MustSchema(multilingual.Definition{
		Name: "Article",
		Fields: []multilingual.Field{
			{Name: "title", Type: multilingual.TypeText},
			{Name: "body", Type: multilingual.TypeText},
			{Name: "views", Type: multilingual.TypeInteger},
			{Name: "published", Type: multilingual.TypeBool},
		},
		Translate: []string{"title", "body"},
	}, langs)

	st := store.New(db, store.DialectSQLite)
	if err := st.EnsureTable(context.Background(), schema); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}

	mc := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mc.Close() })

	catalog, err := i18n.Load("en")
	if err != nil {
		t.Fatalf("i18n.Load: %v", err)
	}

	sm := scs.New()
	site := NewSite(Options{
		Records:   cache.NewRecordStore(st, mc, time.Minute),
		Lister:    st,
		Events:    st,
		Catalog:   catalog,
		Sessions:  sm,
		Languages: langs,
	})
	if err := site.Register(schema, SearchFields("title"), HTMLFields("body")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	env := &testEnv{
		store:   st,
		schema:  schema,
		perms:   middleware.PermissionsFor("admin"),
		header:  http.Header{},
		cookies: make(map[string]*http.Cookie),
	}
	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithPermissions(req.Context(), env.perms)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Use(middleware.Language(langs))
	r.Mount(DefaultBasePath, site.Routes())
	env.handler = r
	return env
}

// do sends a request carrying env.header and the cookies of earlier
// responses.
func (e *testEnv) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range e.header {
		req.Header[k] = v
	}
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		e.cookies[c.Name] = c
	}
	return rec
}

// seed stores an article with an active English translation and an active
// French one.
func (e *testEnv) seed(t *testing.T) *multilingual.Record {
	t.Helper()
	ctx := multilingual.WithForcedLanguage(context.Background(), "en")
	rec, err := multilingual.NewRecord(ctx, e.schema, map[string]any{
		"title": "Hello", "body": "World", "views": int64(3),
	})
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	if err := rec.Save(ctx, e.store); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := rec.SaveTranslation(ctx, e.store, "fr", map[string]any{"title": "Bonjour", "body": "Monde"}); err != nil {
		t.Fatalf("SaveTranslation: %v", err)
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	return v
}
