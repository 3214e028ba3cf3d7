// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import "context"

// Translation is a view of a record fixed to one language. It exposes the
// record's translatable fields and holds no state besides the record pointer.
type Translation struct {
	language string
	record   *Record
}

// Language returns the view's language.
func (t *Translation) Language() string { return t.language }

// Record returns the owning record.
func (t *Translation) Record() *Record { return t.record }

// Fields returns the exposed field names.
func (t *Translation) Fields() []string { return t.record.schema.TranslatableFields() }

// Get reads an exposed field in the view's language. The view's language
// overrides any language carried by ctx; other ctx values pass through.
func (t *Translation) Get(ctx context.Context, field string) (any, error) {
	if !t.record.schema.isTrans[field] {
		return nil, &FieldNotFoundError{Model: t.record.schema.name, Field: field}
	}
	ctx = WithForcedLanguage(ctx, t.language)
	return t.record.Get(ctx, field), nil
}

// Values returns every exposed field in the view's language.
func (t *Translation) Values() map[string]any {
	out := make(map[string]any, len(t.record.schema.translatable))
	for _, field := range t.record.schema.translatable {
		out[field] = t.record.values[PhysicalName(field, t.language)]
	}
	return out
}

// IsActive reports whether the translation has been activated.
func (t *Translation) IsActive() bool {
	return t.record.TranslationExists(t.language)
}

// Save activates the translation and stores values.
func (t *Translation) Save(ctx context.Context, u Updater, values map[string]any) error {
	return t.record.SaveTranslation(ctx, u, t.language, values)
}

// Translation returns the view for language. When includeInactive is false
// and the translation is not active, it returns nil, false.
func (r *Record) Translation(language string, includeInactive bool) (*Translation, bool) {
	if !includeInactive && !r.TranslationExists(language) {
		return nil, false
	}
	return &Translation{language: NormalizeLanguage(language), record: r}, true
}

// Translations returns one view per configured language in declaration
// order, skipping inactive languages unless includeInactive is set.
func (r *Record) Translations(includeInactive bool) []*Translation {
	var out []*Translation
	for _, lang := range r.schema.languages.codes {
		if t, ok := r.Translation(lang, includeInactive); ok {
			out = append(out, t)
		}
	}
	return out
}

// BoundLanguages returns the configured languages whose translation is
// active, in declaration order.
func (r *Record) BoundLanguages() []string {
	var out []string
	for _, lang := range r.schema.languages.codes {
		if r.TranslationExists(lang) {
			out = append(out, lang)
		}
	}
	return out
}
