// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package multilingual implements translatable model fields.
//
// A Schema expands every translatable field into one slot per configured
// language (title -> title_en, title_fr, ...). A Record exposes the logical
// field through Get and Set, which resolve the slot from the language
// carried by the context: a forced language set with WithForcedLanguage wins
// over the ambient one set with WithLanguage, and the primary language is
// used when neither is present.
//
// Each language also has an activation flag, itself a translatable bool
// field, so "is the French translation active" is stored exactly like any
// other French value.
package multilingual
