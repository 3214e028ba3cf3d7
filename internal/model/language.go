// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Language text directions
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// LanguageInfo describes a configured language for presentation.
type LanguageInfo struct {
	Code       string `json:"code"`        // ISO 639-1: en, ru, de, fr
	Name       string `json:"name"`        // English, Russian, German, French
	NativeName string `json:"native_name"` // English, Русский, Deutsch, Français
	Direction  string `json:"direction"`   // ltr, rtl
	IsPrimary  bool   `json:"is_primary"`
}

// IsRTL returns true if the language is right-to-left.
func (l LanguageInfo) IsRTL() bool {
	return l.Direction == DirectionRTL
}

// rtlLanguages lists the right-to-left languages we know of.
var rtlLanguages = map[string]bool{
	"ar": true,
	"he": true,
	"fa": true,
	"ur": true,
	"yi": true,
	"ps": true,
}

// DirectionOf returns the text direction for a normalized language code.
func DirectionOf(code string) string {
	if rtlLanguages[code] {
		return DirectionRTL
	}
	return DirectionLTR
}
