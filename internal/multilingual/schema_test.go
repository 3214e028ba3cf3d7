// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"errors"
	"strings"
	"testing"
)

func TestNewSchema_ExpandsSlots(t *testing.T) {
	s := testSchema(t)

	want := []struct {
		name   string
		column string
	}{
		{"title_en", "title"},
		{"title_fr", "title_fr"},
		{"title_de", "title_de"},
		{"body_en", "body"},
		{"body_fr", "body_fr"},
		{"body_de", "body_de"},
		{"slug", "slug"},
		{"views", "views"},
		{"translation_is_active_en", "translation_is_active"},
		{"translation_is_active_fr", "translation_is_active_fr"},
		{"translation_is_active_de", "translation_is_active_de"},
	}

	slots := s.Slots()
	if len(slots) != len(want) {
		t.Fatalf("len(Slots()) = %d, want %d: %+v", len(slots), len(want), slots)
	}
	for i, w := range want {
		if slots[i].Name != w.name || slots[i].Column != w.column {
			t.Errorf("slot %d = %s/%s, want %s/%s", i, slots[i].Name, slots[i].Column, w.name, w.column)
		}
	}
}

func TestNewSchema_ActiveFieldIsTranslatable(t *testing.T) {
	s := testSchema(t)
	if s.ActiveField() != DefaultActiveField {
		t.Errorf("ActiveField() = %q, want %q", s.ActiveField(), DefaultActiveField)
	}
	if !s.IsTranslatable(DefaultActiveField) {
		t.Error("active field should be translatable")
	}
	f, ok := s.Field(DefaultActiveField)
	if !ok || f.Type != TypeBool {
		t.Errorf("active field = %+v, %v; want bool field", f, ok)
	}
}

func TestNewSchema_UnknownTranslatedField(t *testing.T) {
	_, err := NewSchema(Definition{
		Name:      "Article",
		Fields:    []Field{{Name: "title"}},
		Translate: []string{"title", "summary"},
	}, testLanguages())

	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v, want *FieldError", err)
	}
	if fe.Field != "summary" {
		t.Errorf("FieldError.Field = %q, want summary", fe.Field)
	}
	if !strings.Contains(err.Error(), "not a field on the model Article") {
		t.Errorf("error message = %q", err.Error())
	}
}

func TestNewSchema_Invalid(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
	}{
		{"missing name", Definition{Fields: []Field{{Name: "title"}}}},
		{"bad field name", Definition{Name: "A", Fields: []Field{{Name: "title; drop"}}}},
		{"reserved id", Definition{Name: "A", Fields: []Field{{Name: "id"}}}},
		{"duplicate field", Definition{Name: "A", Fields: []Field{{Name: "title"}, {Name: "title"}}}},
		{"bad table", Definition{Name: "A", Table: "a-b", Fields: []Field{{Name: "title"}}}},
		{"non-bool active field", Definition{Name: "A", Fields: []Field{{Name: "on", Type: TypeText}}, ActiveField: "on"}},
		{"slot collides with plain field", Definition{
			Name:      "A",
			Fields:    []Field{{Name: "title"}, {Name: "title_fr"}},
			Translate: []string{"title"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSchema(tt.def, testLanguages()); err == nil {
				t.Error("NewSchema() = nil error, want error")
			}
		})
	}
}

func TestNewSchema_Inheritance(t *testing.T) {
	base := MustSchema(Definition{
		Name:        "Content",
		Fields:      []Field{{Name: "title"}, {Name: "published", Type: TypeBool}},
		Translate:   []string{"title"},
		ActiveField: "published",
	}, testLanguages())

	child, err := NewSchema(Definition{
		Name:      "Product",
		Fields:    []Field{{Name: "description"}, {Name: "price", Type: TypeReal}},
		Translate: []string{"description"},
		Parent:    base,
	}, testLanguages())
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}

	if child.ActiveField() != "published" {
		t.Errorf("ActiveField() = %q, want inherited published", child.ActiveField())
	}
	for _, f := range []string{"title", "published", "description"} {
		if !child.IsTranslatable(f) {
			t.Errorf("%s should be translatable", f)
		}
	}
	if child.IsTranslatable("price") {
		t.Error("price should not be translatable")
	}
	if _, ok := child.Slot("description_de"); !ok {
		t.Error("missing description_de slot")
	}
	if child.Table() != "product" {
		t.Errorf("Table() = %q, want product", child.Table())
	}
}

func TestSchemaSearchColumns(t *testing.T) {
	s := testSchema(t)

	cols, err := s.SearchColumns("title")
	if err != nil {
		t.Fatalf("SearchColumns: %v", err)
	}
	want := []string{"title", "title_fr", "title_de"}
	if strings.Join(cols, ",") != strings.Join(want, ",") {
		t.Errorf("SearchColumns(title) = %v, want %v", cols, want)
	}

	cols, err = s.SearchColumns("slug")
	if err != nil || len(cols) != 1 || cols[0] != "slug" {
		t.Errorf("SearchColumns(slug) = %v, %v", cols, err)
	}

	if _, err := s.SearchColumns("nope"); !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("SearchColumns(nope) error = %v, want ErrFieldNotFound", err)
	}
}

func TestSchemaColumnName(t *testing.T) {
	s := testSchema(t)
	tests := map[string]string{
		"title_en": "title",
		"title_de": "title_de",
		"slug":     "slug",
	}
	for slot, want := range tests {
		got, ok := s.ColumnName(slot)
		if !ok || got != want {
			t.Errorf("ColumnName(%q) = %q, %v; want %q", slot, got, ok, want)
		}
	}
	if _, ok := s.ColumnName("title_it"); ok {
		t.Error("ColumnName(title_it) should not exist")
	}
}
