// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"context"
	"fmt"
)

// Updater atomically writes slot values of one stored record.
type Updater interface {
	UpdateFields(ctx context.Context, schema *Schema, id string, values map[string]any) error
}

// Saver persists a whole record, inserting it when it does not exist yet.
type Saver interface {
	SaveRecord(ctx context.Context, r *Record) error
}

// TranslationExists reports whether the translation for language has been
// activated.
func (r *Record) TranslationExists(language string) bool {
	v, _ := r.values[PhysicalName(r.schema.activeField, language)].(bool)
	return v
}

// SaveTranslation activates language and stores values for it. The active
// flag is set even when values do not mention it. Values are written with a
// single UpdateFields call and copied into the record only once that
// succeeds.
func (r *Record) SaveTranslation(ctx context.Context, u Updater, language string, values map[string]any) error {
	data := make(map[string]any, len(values)+1)
	for k, v := range values {
		data[k] = v
	}
	data[r.schema.activeField] = true
	return r.UpdateTranslation(ctx, u, language, data)
}

// DeactivateTranslation clears the active flag of language. Field values are
// kept. It returns false without touching the store when the translation was
// not active.
func (r *Record) DeactivateTranslation(ctx context.Context, u Updater, language string) (bool, error) {
	if !r.TranslationExists(language) {
		return false, nil
	}
	err := r.UpdateTranslation(ctx, u, language, map[string]any{r.schema.activeField: false})
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateTranslation writes translatable field values for language through u
// and mirrors them into the record.
func (r *Record) UpdateTranslation(ctx context.Context, u Updater, language string, values map[string]any) error {
	if !r.schema.languages.Contains(language) {
		return fmt.Errorf("translation %q of %s: %w", language, r.schema.name, ErrUnknownLanguage)
	}

	slots := make(map[string]any, len(values))
	coerced := make(map[string]any, len(values))
	for field, v := range values {
		if !r.schema.isTrans[field] {
			return &FieldNotFoundError{Model: r.schema.name, Field: field}
		}
		f := r.schema.fieldIndex[field]
		cv, err := f.Type.Coerce(v)
		if err != nil {
			return fmt.Errorf("field %s: %w", field, err)
		}
		slots[PhysicalName(field, language)] = cv
		coerced[field] = cv
	}

	if err := u.UpdateFields(ctx, r.schema, r.id, slots); err != nil {
		return fmt.Errorf("updating %s translation of %s %s: %w", NormalizeLanguage(language), r.schema.name, r.id, err)
	}

	r.Translate(ctx, language, coerced)
	return nil
}

// Save marks the active language's translation as active and persists the
// whole record.
func (r *Record) Save(ctx context.Context, s Saver) error {
	lang := r.ActiveLanguage(ctx)
	r.values[PhysicalName(r.schema.activeField, lang)] = true
	if err := s.SaveRecord(ctx, r); err != nil {
		return fmt.Errorf("saving %s %s: %w", r.schema.name, r.id, err)
	}
	return nil
}
