// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"context"
	"errors"
	"testing"
)

// fakeStore records UpdateFields calls and can be told to fail.
type fakeStore struct {
	calls []map[string]any
	saved []*Record
	err   error
}

func (f *fakeStore) UpdateFields(_ context.Context, _ *Schema, _ string, values map[string]any) error {
	if f.err != nil {
		return f.err
	}
	cp := make(map[string]any, len(values))
	for k, v := range values {
		cp[k] = v
	}
	f.calls = append(f.calls, cp)
	return nil
}

func (f *fakeStore) SaveRecord(_ context.Context, r *Record) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, r)
	return nil
}

var errStoreDown = errors.New("store down")

func testLanguages() Languages {
	return MustLanguages([]string{"en", "fr", "de"}, "en")
}

func testSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSchema(Definition{
		Name: "Article",
		Fields: []Field{
			{Name: "title", Type: TypeText},
			{Name: "body", Type: TypeText},
			{Name: "slug", Type: TypeText},
			{Name: "views", Type: TypeInteger},
		},
		Translate: []string{"title", "body"},
	}, testLanguages())
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	return s
}

func newTestRecord(t *testing.T, ctx context.Context, values map[string]any) *Record {
	t.Helper()
	r, err := NewRecord(ctx, testSchema(t), values)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	return r
}
