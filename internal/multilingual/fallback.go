// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import "context"

// Resolution describes how a fallback read was satisfied.
type Resolution struct {
	Value             any
	RequestedLanguage string
	ResolvedLanguage  string // "" when no language had a value
	FallbackUsed      bool
}

// Resolve reads field in the active language and, when that value is empty,
// scans the other configured languages in declaration order. The first
// non-empty value wins. If nothing has a value the empty active value is
// returned.
func (r *Record) Resolve(ctx context.Context, field string) Resolution {
	active := r.ActiveLanguage(ctx)
	res := Resolution{
		Value:             r.values[r.schema.SlotName(field, active)],
		RequestedLanguage: active,
	}
	if !IsEmpty(res.Value) {
		res.ResolvedLanguage = active
		return res
	}
	if !r.schema.isTrans[field] {
		return res
	}

	for _, lang := range r.schema.languages.codes {
		if lang == active {
			continue
		}
		if v := r.values[PhysicalName(field, lang)]; !IsEmpty(v) {
			res.Value = v
			res.ResolvedLanguage = lang
			res.FallbackUsed = true
			return res
		}
	}
	return res
}

// GetWithFallback is Resolve returning only the value. It never fails.
func (r *Record) GetWithFallback(ctx context.Context, field string) any {
	return r.Resolve(ctx, field).Value
}
