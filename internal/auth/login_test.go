// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-multilingual/internal/middleware"
	"github.com/olegiv/ocms-multilingual/internal/model"
	"github.com/olegiv/ocms-multilingual/internal/store"
)

type recordedEvents struct{ events []store.CreateEventParams }

func (e *recordedEvents) CreateEvent(_ context.Context, arg store.CreateEventParams) (int64, error) {
	e.events = append(e.events, arg)
	return int64(len(e.events)), nil
}

func newLoginRouter(t *testing.T, hash string) (http.Handler, *recordedEvents) {
	t.Helper()
	sm := scs.New()
	events := &recordedEvents{}
	h := NewHandler(sm, hash, events)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/role", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sm.GetString(r.Context(), middleware.SessionKeyRole)))
	})
	return r, events
}

func post(h http.Handler, path, password string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	form := url.Values{"password": {password}}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func role(h http.Handler, cookies []*http.Cookie) string {
	req := httptest.NewRequest(http.MethodGet, "/role", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Body.String()
}

func TestLogin(t *testing.T) {
	hash, err := HashPassword("s3cret-admin")
	require.NoError(t, err)
	h, events := newLoginRouter(t, hash)

	rec := post(h, "/login", "wrong", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid password")
	require.Len(t, events.events, 1)
	assert.Equal(t, model.EventLevelWarning, events.events[0].Level)

	rec = post(h, "/login", "s3cret-admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"role":"admin"}`, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "admin", role(h, cookies))
	assert.Equal(t, "Admin logged in", events.events[1].Message)

	rec = post(h, "/logout", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, role(h, cookies))
}

func TestLogin_Disabled(t *testing.T) {
	h, events := newLoginRouter(t, "")

	rec := post(h, "/login", "anything", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, events.events)
}

func TestLogin_BrokenHash(t *testing.T) {
	h, _ := newLoginRouter(t, "not-a-hash")

	rec := post(h, "/login", "anything", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
