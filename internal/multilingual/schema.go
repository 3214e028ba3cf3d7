// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultActiveField is the translatable bool field that records whether a
// language's translation has been activated.
const DefaultActiveField = "translation_is_active"

// Columns every model table carries besides its slots.
const (
	IDColumn        = "id"
	CreatedAtColumn = "created_at"
)

func isReserved(name string) bool {
	return name == IDColumn || name == CreatedAtColumn
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func isIdentifier(s string) bool {
	return identifierRe.MatchString(s)
}

// Field declares a model field.
type Field struct {
	Name string
	Type FieldType
}

// Definition describes a model before expansion.
type Definition struct {
	// Name is the model name used in messages, e.g. "Article".
	Name string
	// Table defaults to the lower-cased model name.
	Table string
	// Fields declared locally, in order.
	Fields []Field
	// Translate lists the fields that get one slot per language.
	Translate []string
	// ActiveField overrides the activation flag field name.
	ActiveField string
	// Parent, when set, contributes its fields, translatable fields and
	// active field name.
	Parent *Schema
}

// Slot is one physical storage location.
type Slot struct {
	Field    string    // logical field
	Language string    // "" for non-translatable fields
	Name     string    // slot name, e.g. title_fr
	Column   string    // storage column
	Type     FieldType // field type
}

// Schema is an expanded model: every translatable field has been
// materialized into one slot per configured language.
type Schema struct {
	name         string
	table        string
	languages    Languages
	fields       []Field
	fieldIndex   map[string]Field
	translatable []string
	isTrans      map[string]bool
	activeField  string
	slots        []Slot
	slotIndex    map[string]Slot
}

// NewSchema expands def against langs. Any misconfiguration is returned
// immediately rather than on first use.
func NewSchema(def Definition, langs Languages) (*Schema, error) {
	if langs.Len() == 0 {
		return nil, fmt.Errorf("schema %s: no languages configured", def.Name)
	}
	if def.Name == "" {
		return nil, fmt.Errorf("schema name is required")
	}

	s := &Schema{
		name:       def.Name,
		table:      def.Table,
		languages:  langs,
		fieldIndex: make(map[string]Field),
		isTrans:    make(map[string]bool),
		slotIndex:  make(map[string]Slot),
	}
	if s.table == "" {
		s.table = strings.ToLower(def.Name)
	}
	if !isIdentifier(s.table) {
		return nil, &FieldError{Model: def.Name, Field: s.table, Msg: "invalid table name"}
	}

	s.activeField = def.ActiveField
	if def.Parent != nil {
		for _, f := range def.Parent.fields {
			s.addField(f)
		}
		for _, name := range def.Parent.translatable {
			s.markTranslatable(name)
		}
		if s.activeField == "" {
			s.activeField = def.Parent.activeField
		}
	}
	if s.activeField == "" {
		s.activeField = DefaultActiveField
	}

	for _, f := range def.Fields {
		if !isIdentifier(f.Name) {
			return nil, &FieldError{Model: def.Name, Field: f.Name, Msg: "invalid field name"}
		}
		if isReserved(f.Name) {
			return nil, &FieldError{Model: def.Name, Field: f.Name, Msg: "field name is reserved"}
		}
		if _, dup := s.fieldIndex[f.Name]; dup {
			return nil, &FieldError{Model: def.Name, Field: f.Name, Msg: "field declared twice"}
		}
		s.addField(f)
	}

	for _, name := range def.Translate {
		if _, ok := s.fieldIndex[name]; !ok {
			return nil, &FieldError{
				Model: def.Name,
				Field: name,
				Msg:   fmt.Sprintf("`%s` cannot be translated because it is not a field on the model %s", name, def.Name),
			}
		}
		s.markTranslatable(name)
	}

	if f, ok := s.fieldIndex[s.activeField]; ok {
		if f.Type != TypeBool {
			return nil, &FieldError{Model: def.Name, Field: s.activeField, Msg: "active field must be a bool"}
		}
	} else {
		s.addField(Field{Name: s.activeField, Type: TypeBool})
	}
	s.markTranslatable(s.activeField)

	if err := s.expand(); err != nil {
		return nil, err
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(def Definition, langs Languages) *Schema {
	s, err := NewSchema(def, langs)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) addField(f Field) {
	s.fields = append(s.fields, f)
	s.fieldIndex[f.Name] = f
}

func (s *Schema) markTranslatable(name string) {
	if s.isTrans[name] {
		return
	}
	s.isTrans[name] = true
	s.translatable = append(s.translatable, name)
}

// expand materializes the slots, one per plain field and one per
// translatable field and language.
func (s *Schema) expand() error {
	columns := map[string]string{IDColumn: IDColumn, CreatedAtColumn: CreatedAtColumn}
	add := func(slot Slot) error {
		if owner, taken := columns[slot.Column]; taken {
			return &FieldError{Model: s.name, Field: slot.Name,
				Msg: fmt.Sprintf("column %q collides with %q", slot.Column, owner)}
		}
		if _, taken := s.slotIndex[slot.Name]; taken {
			return &FieldError{Model: s.name, Field: slot.Name, Msg: "slot name collides with another slot"}
		}
		columns[slot.Column] = slot.Name
		s.slots = append(s.slots, slot)
		s.slotIndex[slot.Name] = slot
		return nil
	}

	for _, f := range s.fields {
		if !s.isTrans[f.Name] {
			if err := add(Slot{Field: f.Name, Name: f.Name, Column: f.Name, Type: f.Type}); err != nil {
				return err
			}
			continue
		}
		for _, lang := range s.languages.codes {
			name := PhysicalName(f.Name, lang)
			column := name
			if lang == s.languages.primary {
				column = f.Name
			}
			if err := add(Slot{Field: f.Name, Language: lang, Name: name, Column: column, Type: f.Type}); err != nil {
				return err
			}
		}
	}
	return nil
}

// Name returns the model name.
func (s *Schema) Name() string { return s.name }

// Table returns the storage table name.
func (s *Schema) Table() string { return s.table }

// Languages returns the languages the schema was expanded for.
func (s *Schema) Languages() Languages { return s.languages }

// ActiveField returns the activation flag field name.
func (s *Schema) ActiveField() string { return s.activeField }

// Fields returns the declared fields including inherited ones.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up a declared field.
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.fieldIndex[name]
	return f, ok
}

// IsTranslatable reports whether name is a translatable field.
func (s *Schema) IsTranslatable(name string) bool {
	return s.isTrans[name]
}

// TranslatableFields returns the translatable field names, inherited first.
func (s *Schema) TranslatableFields() []string {
	out := make([]string, len(s.translatable))
	copy(out, s.translatable)
	return out
}

// Slots returns every physical slot in declaration order.
func (s *Schema) Slots() []Slot {
	out := make([]Slot, len(s.slots))
	copy(out, s.slots)
	return out
}

// Slot looks up a slot by name.
func (s *Schema) Slot(name string) (Slot, bool) {
	slot, ok := s.slotIndex[name]
	return slot, ok
}

// SlotName returns the slot backing field in language. Non-translatable
// fields ignore the language.
func (s *Schema) SlotName(field, language string) string {
	if !s.isTrans[field] {
		return field
	}
	return PhysicalName(field, language)
}

// ColumnName returns the storage column for a slot name. Primary language
// slots use the bare field name.
func (s *Schema) ColumnName(slot string) (string, bool) {
	sl, ok := s.slotIndex[slot]
	if !ok {
		return "", false
	}
	return sl.Column, true
}

// SearchColumns returns the columns to search for field: one per configured
// language for translatable fields, otherwise the field's own column.
func (s *Schema) SearchColumns(field string) ([]string, error) {
	if _, ok := s.fieldIndex[field]; !ok {
		return nil, &FieldNotFoundError{Model: s.name, Field: field}
	}
	if !s.isTrans[field] {
		return []string{field}, nil
	}
	cols := make([]string, 0, s.languages.Len())
	for _, lang := range s.languages.codes {
		cols = append(cols, s.slotIndex[PhysicalName(field, lang)].Column)
	}
	return cols, nil
}
