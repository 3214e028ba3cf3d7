// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

import (
	"net/url"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/ocms-multilingual/internal/multilingual"
	"github.com/olegiv/ocms-multilingual/internal/slug"
)

// slugMaxLength bounds generated slugs.
const slugMaxLength = 50

var htmlSanitizer = bluemonday.UGCPolicy()

// parseForm converts submitted form values into field values. Fields missing
// from the form are left out, except bool fields which behave like
// checkboxes. The activation flag cannot be set through the form. Only
// fields in html are sanitized; other text is stored as submitted.
func parseForm(schema *multilingual.Schema, form url.Values, html map[string]bool) (map[string]any, map[string]string) {
	values := make(map[string]any)
	errs := make(map[string]string)
	for _, f := range schema.Fields() {
		if f.Name == schema.ActiveField() {
			continue
		}
		raw, present := form[f.Name]
		if !present && f.Type != multilingual.TypeBool {
			continue
		}
		s := ""
		if len(raw) > 0 {
			s = raw[0]
		}
		if html[f.Name] {
			s = htmlSanitizer.Sanitize(s)
		}
		v, err := f.Type.Parse(s)
		if err != nil {
			errs[f.Name] = err.Error()
			continue
		}
		values[f.Name] = v
	}
	return values, errs
}

// prepopulate fills empty prepopulated fields in values with a slug of their
// source. current returns the stored value of a field missing from values;
// it is nil for new records.
func (m *ModelAdmin) prepopulate(values map[string]any, current func(field string) any) {
	lookup := func(field string) (any, bool) {
		if v, ok := values[field]; ok {
			return v, true
		}
		if current != nil {
			return current(field), false
		}
		return nil, false
	}
	for _, p := range m.prepopulated {
		if v, _ := lookup(p.target); !multilingual.IsEmpty(v) {
			continue
		}
		src, _ := lookup(p.source)
		text, _ := src.(string)
		if s := slug.MakeMax(text, slugMaxLength); s != "" {
			values[p.target] = s
		}
	}
}
