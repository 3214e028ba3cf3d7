// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/olegiv/ocms-multilingual/internal/middleware"
	"github.com/olegiv/ocms-multilingual/internal/model"
	"github.com/olegiv/ocms-multilingual/internal/multilingual"
)

func TestRegister(t *testing.T) {
	site := NewSite(Options{Languages: testLanguages()})
	schema := multilingual.MustSchema(multilingual.Definition{
		Name:      "Category",
		Fields:    []multilingual.Field{{Name: "position", Type: multilingual.TypeInteger}, {Name: "name"}},
		Translate: []string{"name"},
	}, testLanguages())

	if err := site.Register(schema); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := site.Register(schema); err == nil {
		t.Error("expected error registering a model twice")
	}

	models := site.Models()
	if len(models) != 1 || models[0].Key() != "category" {
		t.Fatalf("Models() = %v", models)
	}
	if got := models[0].searchFields; len(got) != 1 || got[0] != "name" {
		t.Errorf("default search fields = %v, want [name]", got)
	}

	other := NewSite(Options{Languages: testLanguages()})
	if err := other.Register(schema, SearchFields("missing")); err == nil {
		t.Error("expected error for unknown search field")
	}
}

func TestIndex(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/admin/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	view := decode[IndexView](t, rec)
	if view.Title != "Site administration" {
		t.Errorf("Title = %q", view.Title)
	}
	if len(view.Models) != 1 || view.Models[0].URL != "/admin/article/" {
		t.Errorf("Models = %+v", view.Models)
	}
	if len(view.Languages) != 3 || !view.Languages[0].IsPrimary || view.Languages[1].Name != "French" {
		t.Errorf("Languages = %+v", view.Languages)
	}
}

func TestIndex_RequiresView(t *testing.T) {
	env := newTestEnv(t)
	env.perms = middleware.Permissions{}

	if rec := env.do(t, http.MethodGet, "/admin/", nil); rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestUnknownModelAndObject(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{"/admin/page/", "/admin/article/missing-id"} {
		if rec := env.do(t, http.MethodGet, target, nil); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", target, rec.Code)
		}
	}
}

func TestCreate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/admin/article/?language=fr", url.Values{
		"title": {"Tom & Jerry <3"},
		"body":  {"<p>Bonjour</p><script>alert(1)</script>"},
		"views": {"7"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body %s", rec.Code, rec.Body.String())
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/admin/article/") || !strings.HasSuffix(loc, "?language=fr") {
		t.Fatalf("Location = %q", loc)
	}
	id := strings.TrimSuffix(strings.TrimPrefix(loc, "/admin/article/"), "?language=fr")

	stored, err := env.store.GetRecord(context.Background(), env.schema, id)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if got := stored.Value("title_fr"); got != "Tom & Jerry <3" {
		t.Errorf("title_fr = %q, want the submitted text unchanged", got)
	}
	if got := stored.Value("body_fr"); got != "<p>Bonjour</p>" {
		t.Errorf("body_fr = %q, want sanitized html", got)
	}
	if got := stored.Value("title_en"); got != nil {
		t.Errorf("primary title = %v, want nil", got)
	}
	if got := stored.Value("views"); got != int64(7) {
		t.Errorf("views = %v, want 7", got)
	}
	if got := stored.BoundLanguages(); len(got) != 1 || got[0] != "fr" {
		t.Errorf("BoundLanguages = %v, want [fr]", got)
	}

	view := decode[ChangeView](t, env.do(t, http.MethodGet, loc, nil))
	if len(view.Messages) != 1 || !strings.Contains(view.Messages[0], "was added successfully") {
		t.Errorf("Messages = %v", view.Messages)
	}
}

func TestCreate_InvalidForm(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/admin/article/", url.Values{"views": {"many"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decode[map[string]any](t, rec)
	errs, _ := body["errors"].(map[string]any)
	if _, ok := errs["views"]; !ok {
		t.Errorf("errors = %v, want views", body["errors"])
	}
	if n, _ := env.store.CountRecords(context.Background(), env.schema); n != 0 {
		t.Errorf("CountRecords = %d, want 0", n)
	}
}

func TestChangeView(t *testing.T) {
	env := newTestEnv(t)
	obj := env.seed(t)

	rec := env.do(t, http.MethodGet, "/admin/article/"+obj.ID()+"?language=fr", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	view := decode[ChangeView](t, rec)

	if view.Title != "Change article (French)" {
		t.Errorf("Title = %q", view.Title)
	}
	if view.Language != "fr" || !view.TranslationActive {
		t.Errorf("Language = %q, TranslationActive = %v", view.Language, view.TranslationActive)
	}
	if view.Fields["title"] != "Bonjour" || view.Fields["views"] != float64(3) {
		t.Errorf("Fields = %v", view.Fields)
	}
	if _, ok := view.Fields[multilingual.DefaultActiveField]; ok {
		t.Error("activation flag exposed as a form field")
	}

	want := []LanguageTab{
		{Name: "English", Language: "en", Status: TabActive},
		{Name: "French", Language: "fr", Status: TabCurrent},
		{Name: "German", Language: "de", Status: TabInactive},
	}
	if len(view.LanguageTabs) != len(want) {
		t.Fatalf("LanguageTabs = %+v", view.LanguageTabs)
	}
	for i, w := range want {
		got := view.LanguageTabs[i]
		if got.Name != w.Name || got.Language != w.Language || got.Status != w.Status {
			t.Errorf("tab %d = %+v, want %+v", i, got, w)
		}
	}
	if got := view.LanguageTabs[2].DeactivateURL; got != "" {
		t.Errorf("inactive tab DeactivateURL = %q, want empty", got)
	}
	if got := view.LanguageTabs[1].DeactivateURL; got != "/admin/article/"+obj.ID()+"/deactivate-translation/fr" {
		t.Errorf("fr DeactivateURL = %q", got)
	}
}

func TestChangeView_EmptyTranslation(t *testing.T) {
	env := newTestEnv(t)
	obj := env.seed(t)

	view := decode[ChangeView](t, env.do(t, http.MethodGet, "/admin/article/"+obj.ID()+"?language=de", nil))
	if view.Title != "Change article (German)" || view.TranslationActive {
		t.Errorf("Title = %q, TranslationActive = %v", view.Title, view.TranslationActive)
	}
	if view.Fields["title"] != nil {
		t.Errorf("title = %v, want nil without fallback", view.Fields["title"])
	}
}

func TestChangeView_UILanguage(t *testing.T) {
	env := newTestEnv(t)
	obj := env.seed(t)
	env.header.Set("Accept-Language", "fr-FR,fr;q=0.9")

	view := decode[ChangeView](t, env.do(t, http.MethodGet, "/admin/article/"+obj.ID()+"?language=de", nil))
	if view.Title != "Modifier article (German)" {
		t.Errorf("Title = %q", view.Title)
	}
	if view.Language != "de" || view.Fields["title"] != nil {
		t.Errorf("form language = %q, title = %v", view.Language, view.Fields["title"])
	}
}

func TestAddForm(t *testing.T) {
	env := newTestEnv(t)

	view := decode[ChangeView](t, env.do(t, http.MethodGet, "/admin/article/add?language=de", nil))
	if view.Title != "Add article (German)" {
		t.Errorf("Title = %q", view.Title)
	}
	for _, tab := range view.LanguageTabs {
		if tab.DeactivateURL != "" {
			t.Errorf("tab %s has DeactivateURL on add view", tab.Language)
		}
		if tab.Language != "de" && tab.Status != TabInactive {
			t.Errorf("tab %s status = %q, want inactive", tab.Language, tab.Status)
		}
	}
}

func TestSave(t *testing.T) {
	env := newTestEnv(t)
	obj := env.seed(t)
	target := "/admin/article/" + obj.ID() + "?language=de"

	// Warm the record cache so the save must invalidate it.
	env.do(t, http.MethodGet, target, nil)

	rec := env.do(t, http.MethodPost, target, url.Values{
		"title":     {"Hallo"},
		"views":     {"10"},
		"published": {"on"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != target {
		t.Errorf("Location = %q, want %q", loc, target)
	}

	stored, err := env.store.GetRecord(context.Background(), env.schema, obj.ID())
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if stored.Value("title_de") != "Hallo" || stored.Value("title_en") != "Hello" || stored.Value("title_fr") != "Bonjour" {
		t.Errorf("titles = %v / %v / %v", stored.Value("title_en"), stored.Value("title_fr"), stored.Value("title_de"))
	}
	if stored.Value("views") != int64(10) || stored.Value("published") != true {
		t.Errorf("views = %v, published = %v", stored.Value("views"), stored.Value("published"))
	}
	if got := stored.BoundLanguages(); len(got) != 3 {
		t.Errorf("BoundLanguages = %v, want all three", got)
	}

	view := decode[ChangeView](t, env.do(t, http.MethodGet, target, nil))
	if view.Fields["title"] != "Hallo" || !view.TranslationActive {
		t.Errorf("change view after save = %+v", view)
	}
	if len(view.Messages) != 1 {
		t.Errorf("Messages = %v, want one flash", view.Messages)
	}

	events, err := env.store.ListEvents(context.Background(), model.EventCategoryTranslation, 10)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 || !strings.HasPrefix(events[0].Message, "changed German translation of") {
		t.Errorf("events = %+v", events)
	}
}

func TestSave_NoLanguageQuery(t *testing.T) {
	env := newTestEnv(t)
	obj := env.seed(t)

	rec := env.do(t, http.MethodPost, "/admin/article/"+obj.ID(), url.Values{"title": {"Hi"}})
	if loc := rec.Header().Get("Location"); loc != "/admin/article/"+obj.ID() {
		t.Errorf("Location = %q", loc)
	}
}

func TestSave_Forbidden(t *testing.T) {
	env := newTestEnv(t)
	obj := env.seed(t)
	env.perms = middleware.PermissionsFor("viewer")

	rec := env.do(t, http.MethodPost, "/admin/article/"+obj.ID(), url.Values{"title": {"Hi"}})
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	rec = env.do(t, http.MethodPost, "/admin/article/", url.Values{"title": {"Hi"}})
	if rec.Code != http.StatusForbidden {
		t.Errorf("create status = %d, want 403", rec.Code)
	}
}

func TestList(t *testing.T) {
	env := newTestEnv(t)
	obj := env.seed(t)

	view := decode[ListView](t, env.do(t, http.MethodGet, "/admin/article/?language=de", nil))
	if view.Total != 1 || len(view.Results) != 1 {
		t.Fatalf("Total = %d, Results = %d", view.Total, len(view.Results))
	}
	item := view.Results[0]
	if item.ID != obj.ID() || item.Name != "Hello" {
		t.Errorf("item = %+v", item)
	}
	// German is empty, so the list falls back to the first language with a value.
	if item.Fields["title"] != "Hello" {
		t.Errorf("title = %v, want fallback to English", item.Fields["title"])
	}
	if len(item.Languages) != 2 {
		t.Errorf("Languages = %v, want [en fr]", item.Languages)
	}
	if item.URL != "/admin/article/"+obj.ID()+"?language=de" {
		t.Errorf("URL = %q", item.URL)
	}
}

func TestList_SearchAcrossLanguages(t *testing.T) {
	env := newTestEnv(t)
	obj := env.seed(t)

	view := decode[ListView](t, env.do(t, http.MethodGet, "/admin/article/?q=bonj", nil))
	if len(view.Results) != 1 || view.Results[0].ID != obj.ID() {
		t.Fatalf("Results = %+v", view.Results)
	}
	if view.Results[0].Fields["title"] != "Hello" {
		t.Errorf("title = %v, want primary value", view.Results[0].Fields["title"])
	}

	view = decode[ListView](t, env.do(t, http.MethodGet, "/admin/article/?q=nothing", nil))
	if len(view.Results) != 0 {
		t.Errorf("Results = %+v, want none", view.Results)
	}
}

func TestList_SearchPaging(t *testing.T) {
	env := newTestEnv(t)
	ctx := multilingual.WithForcedLanguage(context.Background(), "en")
	for i := range 30 {
		rec, err := multilingual.NewRecord(ctx, env.schema, map[string]any{"title": fmt.Sprintf("match %d", i)})
		if err != nil {
			t.Fatalf("NewRecord: %v", err)
		}
		if err := rec.Save(ctx, env.store); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	env.seed(t)

	seen := make(map[string]bool)
	for page, want := range map[int]int{1: 25, 2: 5} {
		view := decode[ListView](t, env.do(t, http.MethodGet, fmt.Sprintf("/admin/article/?q=match&page=%d", page), nil))
		if view.Total != 30 {
			t.Errorf("page %d Total = %d, want 30", page, view.Total)
		}
		if len(view.Results) != want {
			t.Errorf("page %d Results = %d, want %d", page, len(view.Results), want)
		}
		for _, item := range view.Results {
			if seen[item.ID] {
				t.Errorf("record %s listed on two pages", item.ID)
			}
			seen[item.ID] = true
		}
	}
}
