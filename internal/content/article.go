// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content declares the translatable models served by the admin site.
package content

import "github.com/olegiv/ocms-multilingual/internal/multilingual"

// ArticleDefinition describes a simple article with a translated title,
// body and summary.
func ArticleDefinition() multilingual.Definition {
	return multilingual.Definition{
		Name:  "Article",
		Table: "articles",
		Fields: []multilingual.Field{
			{Name: "title", Type: multilingual.TypeText},
			{Name: "summary", Type: multilingual.TypeText},
			{Name: "body", Type: multilingual.TypeText},
			{Name: "slug", Type: multilingual.TypeText},
			{Name: "views", Type: multilingual.TypeInteger},
			{Name: "published", Type: multilingual.TypeBool},
		},
		Translate: []string{"title", "summary", "body"},
	}
}

// CategoryDefinition describes an article category.
func CategoryDefinition() multilingual.Definition {
	return multilingual.Definition{
		Name:  "Category",
		Table: "categories",
		Fields: []multilingual.Field{
			{Name: "name", Type: multilingual.TypeText},
			{Name: "description", Type: multilingual.TypeText},
			{Name: "position", Type: multilingual.TypeInteger},
		},
		Translate: []string{"name", "description"},
	}
}

// Schemas expands every model for the configured languages.
func Schemas(langs multilingual.Languages) ([]*multilingual.Schema, error) {
	defs := []multilingual.Definition{ArticleDefinition(), CategoryDefinition()}
	schemas := make([]*multilingual.Schema, 0, len(defs))
	for _, def := range defs {
		s, err := multilingual.NewSchema(def, langs)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	return schemas, nil
}
