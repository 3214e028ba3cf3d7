// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olegiv/ocms-multilingual/internal/multilingual"
)

// Counter reports how many records of a schema are stored.
type Counter interface {
	CountRecords(ctx context.Context, schema *multilingual.Schema) (int64, error)
}

// SeedStore is what Seed needs to write demo records.
type SeedStore interface {
	Counter
	multilingual.Saver
	multilingual.Updater
}

type sample struct {
	values       map[string]any
	translations map[string]map[string]any
}

var articleSamples = []sample{
	{
		values: map[string]any{
			"title":     "Welcome",
			"summary":   "What this site is about",
			"body":      "This site publishes articles in several languages.",
			"slug":      "welcome",
			"published": true,
		},
		translations: map[string]map[string]any{
			"fr": {"title": "Bienvenue", "summary": "De quoi parle ce site", "body": "Ce site publie des articles en plusieurs langues."},
			"de": {"title": "Willkommen", "summary": "Worum es auf dieser Seite geht", "body": "Diese Seite veröffentlicht Artikel in mehreren Sprachen."},
		},
	},
	{
		values: map[string]any{
			"title":   "Release notes",
			"summary": "Changes in the latest version",
			"body":    "Translations can now be deactivated from the admin.",
			"slug":    "release-notes",
		},
		translations: map[string]map[string]any{
			"fr": {"title": "Notes de version"},
		},
	},
}

// SeedArticles stores demo articles when the table is empty. Translations
// for languages that are not configured are skipped.
func SeedArticles(ctx context.Context, st SeedStore, schema *multilingual.Schema) error {
	n, err := st.CountRecords(ctx, schema)
	if err != nil {
		return fmt.Errorf("counting articles: %w", err)
	}
	if n > 0 {
		slog.Info("articles already exist, skipping seed", "count", n)
		return nil
	}

	langs := schema.Languages()
	primaryCtx := multilingual.WithForcedLanguage(ctx, langs.Primary())
	for _, s := range articleSamples {
		r, err := multilingual.NewRecord(primaryCtx, schema, s.values)
		if err != nil {
			return fmt.Errorf("building article: %w", err)
		}
		if err := r.Save(primaryCtx, st); err != nil {
			return fmt.Errorf("seeding article: %w", err)
		}
		for lang, values := range s.translations {
			if !langs.Contains(lang) || lang == langs.Primary() {
				continue
			}
			if err := r.SaveTranslation(ctx, st, lang, values); err != nil {
				return fmt.Errorf("seeding %s translation: %w", lang, err)
			}
		}
		slog.Info("seeded article", "id", r.ID(), "languages", r.BoundLanguages())
	}
	return nil
}
