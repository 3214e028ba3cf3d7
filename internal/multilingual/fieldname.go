// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

// SlotSeparator joins a logical field name and a language code.
const SlotSeparator = "_"

// PhysicalName returns the slot name backing field for language.
// The language is normalized first; it is not validated.
func PhysicalName(field, language string) string {
	return field + SlotSeparator + NormalizeLanguage(language)
}
