// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n provides the admin UI message catalog and language display
// names.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/olegiv/ocms-multilingual/internal/model"
)

//go:embed locales
var localesFS embed.FS

// Message is a single translatable message.
type Message struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Translation string `json:"translation"`
}

// MessageFile is the structure of a locales/<lang>/messages.json file.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// Catalog holds admin UI messages for every embedded locale. It is read-only
// after Load and safe for concurrent use.
type Catalog struct {
	translations map[string]map[string]string // lang -> key -> translation
	languages    []string
	tags         []language.Tag
	matcher      language.Matcher
	defaultLang  string
}

// Load reads every embedded locale. defaultLang is used when a language or
// key is missing; it must be one of the embedded locales.
func Load(defaultLang string) (*Catalog, error) {
	return loadFS(localesFS, "locales", defaultLang)
}

func loadFS(fsys fs.FS, root, defaultLang string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("reading locales: %w", err)
	}

	c := &Catalog{
		translations: make(map[string]map[string]string),
		defaultLang:  defaultLang,
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := c.loadLanguage(fsys, path.Join(root, e.Name(), "messages.json"), e.Name()); err != nil {
			return nil, err
		}
	}
	if _, ok := c.translations[defaultLang]; !ok {
		return nil, fmt.Errorf("default UI language %q has no messages", defaultLang)
	}

	sort.Strings(c.languages)
	// The default goes first so the matcher falls back to it.
	tags := []language.Tag{language.Make(defaultLang)}
	for _, lang := range c.languages {
		if lang != defaultLang {
			tags = append(tags, language.Make(lang))
		}
	}
	c.tags = tags
	c.matcher = language.NewMatcher(tags)

	slog.Debug("i18n initialized", "languages", c.languages)
	return c, nil
}

func (c *Catalog) loadLanguage(fsys fs.FS, file, lang string) error {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	var mf MessageFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return fmt.Errorf("failed to parse %s: %w", file, err)
	}
	if mf.Language != lang {
		return fmt.Errorf("%s declares language %q", file, mf.Language)
	}

	m := make(map[string]string, len(mf.Messages))
	for _, msg := range mf.Messages {
		m[msg.ID] = msg.Translation
	}
	c.translations[lang] = m
	c.languages = append(c.languages, lang)
	return nil
}

// Lookup returns the message template for key in lang, falling back to the
// default language and then to the key itself.
func (c *Catalog) Lookup(lang, key string) string {
	if msg, ok := c.translations[lang][key]; ok {
		return msg
	}
	if msg, ok := c.translations[c.defaultLang][key]; ok {
		return msg
	}
	return key
}

// T translates key into lang. Arguments are applied to the template with
// fmt.Sprintf.
func (c *Catalog) T(lang, key string, args ...any) string {
	msg := c.Lookup(lang, key)
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Languages returns the embedded UI languages, sorted.
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.languages...)
}

// Has reports whether lang has embedded messages.
func (c *Catalog) Has(lang string) bool {
	_, ok := c.translations[lang]
	return ok
}

// Count returns the number of messages loaded for lang.
func (c *Catalog) Count(lang string) int {
	return len(c.translations[lang])
}

// Match picks the best UI language for an Accept-Language header or a plain
// language code.
func (c *Catalog) Match(acceptLang string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		return c.defaultLang
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return c.defaultLang
	}
	base, _ := c.tags[idx].Base()
	return base.String()
}

// LanguageName returns the English name of a language code ("fr" ->
// "French"). Unknown codes are returned unchanged.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

// NativeName returns the name of a language in that language ("fr" ->
// "français").
func NativeName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return code
}

// Info describes a configured language for presentation.
func Info(code, primary string) model.LanguageInfo {
	return model.LanguageInfo{
		Code:       code,
		Name:       LanguageName(code),
		NativeName: NativeName(code),
		Direction:  model.DirectionOf(code),
		IsPrimary:  code == primary,
	}
}
