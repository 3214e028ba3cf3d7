// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/olegiv/ocms-multilingual/internal/multilingual"
	"github.com/olegiv/ocms-multilingual/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := store.NewDB(filepath.Join(t.TempDir(), "content.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db, store.DialectSQLite); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return store.New(db, store.DialectSQLite)
}

func TestSchemas(t *testing.T) {
	langs := multilingual.MustLanguages([]string{"en", "fr"}, "en")
	schemas, err := Schemas(langs)
	if err != nil {
		t.Fatalf("Schemas: %v", err)
	}
	if len(schemas) != 2 {
		t.Fatalf("len(schemas) = %d, want 2", len(schemas))
	}
	article := schemas[0]
	if article.Name() != "Article" || article.Table() != "articles" {
		t.Errorf("article = %s/%s, want Article/articles", article.Name(), article.Table())
	}
	for _, f := range []string{"title", "summary", "body", multilingual.DefaultActiveField} {
		if !article.IsTranslatable(f) {
			t.Errorf("IsTranslatable(%q) = false, want true", f)
		}
	}
	if article.IsTranslatable("slug") {
		t.Error("IsTranslatable(slug) = true, want false")
	}
}

func TestSeedArticles(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)
	langs := multilingual.MustLanguages([]string{"en", "fr"}, "en")
	schema := multilingual.MustSchema(ArticleDefinition(), langs)
	if err := st.EnsureTable(ctx, schema); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}

	if err := SeedArticles(ctx, st, schema); err != nil {
		t.Fatalf("SeedArticles: %v", err)
	}
	n, err := st.CountRecords(ctx, schema)
	if err != nil {
		t.Fatalf("CountRecords: %v", err)
	}
	if n != int64(len(articleSamples)) {
		t.Errorf("CountRecords = %d, want %d", n, len(articleSamples))
	}

	// Second run is a no-op.
	if err := SeedArticles(ctx, st, schema); err != nil {
		t.Fatalf("SeedArticles again: %v", err)
	}
	n, _ = st.CountRecords(ctx, schema)
	if n != int64(len(articleSamples)) {
		t.Errorf("CountRecords after reseed = %d, want %d", n, len(articleSamples))
	}

	found, err := st.SearchRecords(ctx, schema, []string{"title"}, "Bienvenue", store.ListOptions{})
	if err != nil {
		t.Fatalf("SearchRecords: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("len(found) = %d, want 1", len(found))
	}
	got := found[0].BoundLanguages()
	if len(got) != 2 || got[0] != "en" || got[1] != "fr" {
		t.Errorf("BoundLanguages = %v, want [en fr]", got)
	}
}
