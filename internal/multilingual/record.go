// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Record is one instance of a translatable model. Logical fields are read and
// written through Get and Set, which resolve the slot from the active
// language carried by the context. A Record is not safe for concurrent
// mutation.
type Record struct {
	schema *Schema
	id     string
	values map[string]any // slot name -> value
}

// NewRecord creates a record with a fresh ID. Values for translatable fields
// are stored in the slot of the language active in ctx; physical slot names
// (e.g. "title_fr") may be passed as well. Every activation flag starts false.
func NewRecord(ctx context.Context, schema *Schema, values map[string]any) (*Record, error) {
	r := &Record{
		schema: schema,
		id:     uuid.NewString(),
		values: make(map[string]any, len(schema.slots)),
	}
	r.initSlots()

	lang := schema.languages.ActiveLanguage(ctx)
	for key, v := range values {
		slot, ok := r.resolveKey(key, lang)
		if !ok {
			return nil, &FieldNotFoundError{Model: schema.name, Field: key}
		}
		cv, err := slot.Type.Coerce(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		r.values[slot.Name] = cv
	}
	return r, nil
}

// LoadRecord rebuilds a record from stored slot values. Unknown slot names are
// ignored.
func LoadRecord(schema *Schema, id string, values map[string]any) *Record {
	r := &Record{
		schema: schema,
		id:     id,
		values: make(map[string]any, len(schema.slots)),
	}
	r.initSlots()
	for name, v := range values {
		if _, ok := schema.slotIndex[name]; ok {
			r.values[name] = v
		}
	}
	return r
}

func (r *Record) initSlots() {
	for _, slot := range r.schema.slots {
		if slot.Field == r.schema.activeField {
			r.values[slot.Name] = false
			continue
		}
		r.values[slot.Name] = nil
	}
}

// resolveKey maps a logical field or a slot name to its slot.
func (r *Record) resolveKey(key, lang string) (Slot, bool) {
	if _, ok := r.schema.fieldIndex[key]; ok {
		slot, ok := r.schema.slotIndex[r.schema.SlotName(key, lang)]
		return slot, ok
	}
	slot, ok := r.schema.slotIndex[key]
	return slot, ok
}

// ID returns the record's opaque identity.
func (r *Record) ID() string { return r.id }

// Schema returns the record's schema.
func (r *Record) Schema() *Schema { return r.schema }

// ActiveLanguage returns the language reads and writes resolve against.
func (r *Record) ActiveLanguage(ctx context.Context) string {
	return r.schema.languages.ActiveLanguage(ctx)
}

// Get reads a logical field in the active language.
func (r *Record) Get(ctx context.Context, field string) any {
	return r.values[r.schema.SlotName(field, r.ActiveLanguage(ctx))]
}

// Set writes a logical field in the active language. The language is not
// validated here; writes for an unconfigured language land in a slot the
// store will refuse to persist.
func (r *Record) Set(ctx context.Context, field string, value any) {
	r.values[r.schema.SlotName(field, r.ActiveLanguage(ctx))] = value
}

// GetString is Get for text fields; non-strings yield "".
func (r *Record) GetString(ctx context.Context, field string) string {
	s, _ := r.Get(ctx, field).(string)
	return s
}

// Value reads a slot directly.
func (r *Record) Value(slot string) any {
	return r.values[slot]
}

// SetValue writes a slot directly.
func (r *Record) SetValue(slot string, value any) {
	r.values[slot] = value
}

// Values returns a copy of every slot value.
func (r *Record) Values() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Translate writes several logical fields in language without persisting.
func (r *Record) Translate(ctx context.Context, language string, values map[string]any) {
	ctx = WithForcedLanguage(ctx, language)
	for field, v := range values {
		r.Set(ctx, field, v)
	}
}
