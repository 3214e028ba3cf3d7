// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"context"
	"errors"
	"testing"
)

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"en-us", "en"},
		{"en-US", "en"},
		{"EN-US", "en"},
		{"pt_BR", "pt"},
		{"zh-Hant-TW", "zh"},
		{" fr ", "fr"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeLanguage(tt.in); got != tt.want {
				t.Errorf("NormalizeLanguage(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if got := NormalizeLanguage(NormalizeLanguage(tt.in)); got != tt.want {
				t.Errorf("NormalizeLanguage is not idempotent for %q: got %q", tt.in, got)
			}
		})
	}
}

func TestNewLanguages(t *testing.T) {
	tests := []struct {
		name        string
		codes       []string
		primary     string
		wantCodes   []string
		wantPrimary string
		wantErr     bool
	}{
		{name: "defaults primary to first", codes: []string{"en", "fr"}, wantCodes: []string{"en", "fr"}, wantPrimary: "en"},
		{name: "explicit primary", codes: []string{"en", "fr"}, primary: "fr", wantCodes: []string{"en", "fr"}, wantPrimary: "fr"},
		{name: "normalizes codes", codes: []string{"en-us", "FR"}, primary: "en-GB", wantCodes: []string{"en", "fr"}, wantPrimary: "en"},
		{name: "empty list", codes: nil, wantErr: true},
		{name: "duplicate after normalization", codes: []string{"en", "en-us"}, wantErr: true},
		{name: "primary not configured", codes: []string{"en", "fr"}, primary: "de", wantErr: true},
		{name: "empty code", codes: []string{"en", ""}, wantErr: true},
		{name: "invalid code", codes: []string{"en", "1x!"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			langs, err := NewLanguages(tt.codes, tt.primary)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewLanguages(%v, %q) = nil error, want error", tt.codes, tt.primary)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLanguages: %v", err)
			}
			got := langs.Codes()
			if len(got) != len(tt.wantCodes) {
				t.Fatalf("Codes() = %v, want %v", got, tt.wantCodes)
			}
			for i := range got {
				if got[i] != tt.wantCodes[i] {
					t.Errorf("Codes()[%d] = %q, want %q", i, got[i], tt.wantCodes[i])
				}
			}
			if langs.Primary() != tt.wantPrimary {
				t.Errorf("Primary() = %q, want %q", langs.Primary(), tt.wantPrimary)
			}
		})
	}
}

func TestNewLanguages_UnknownPrimaryError(t *testing.T) {
	_, err := NewLanguages([]string{"en"}, "fr")
	if !errors.Is(err, ErrUnknownLanguage) {
		t.Errorf("error = %v, want ErrUnknownLanguage", err)
	}
}

func TestLanguagesContains(t *testing.T) {
	langs := testLanguages()
	if !langs.Contains("fr-CA") {
		t.Error("Contains(fr-CA) = false, want true")
	}
	if langs.Contains("it") {
		t.Error("Contains(it) = true, want false")
	}
}

func TestActiveLanguage(t *testing.T) {
	langs := testLanguages()
	base := context.Background()

	if got := langs.ActiveLanguage(base); got != "en" {
		t.Errorf("no context language: got %q, want primary en", got)
	}

	ambient := WithLanguage(base, "fr-FR")
	if got := langs.ActiveLanguage(ambient); got != "fr" {
		t.Errorf("ambient: got %q, want fr", got)
	}

	forced := WithForcedLanguage(ambient, "de")
	if got := langs.ActiveLanguage(forced); got != "de" {
		t.Errorf("forced: got %q, want de", got)
	}

	// The parent context is unaffected by the override.
	if got := langs.ActiveLanguage(ambient); got != "fr" {
		t.Errorf("ambient after force: got %q, want fr", got)
	}
}

func TestPhysicalName(t *testing.T) {
	if got := PhysicalName("title", "fr"); got != "title_fr" {
		t.Errorf("PhysicalName(title, fr) = %q, want title_fr", got)
	}
	if PhysicalName("title", "en-us") != PhysicalName("title", "en") {
		t.Error("PhysicalName should ignore the region suffix")
	}
	// Unconfigured languages are accepted.
	if got := PhysicalName("title", "xx"); got != "title_xx" {
		t.Errorf("PhysicalName(title, xx) = %q, want title_xx", got)
	}
}
