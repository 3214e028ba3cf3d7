// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ocms-multilingual/internal/config"
	"github.com/olegiv/ocms-multilingual/internal/middleware"
	"github.com/olegiv/ocms-multilingual/internal/model"
	"github.com/olegiv/ocms-multilingual/internal/store"
)

// EventLogger records login activity.
type EventLogger interface {
	CreateEvent(ctx context.Context, arg store.CreateEventParams) (int64, error)
}

// Handler serves the admin login and logout endpoints.
type Handler struct {
	sessions     *scs.SessionManager
	passwordHash string
	events       EventLogger
}

// NewHandler creates a Handler. With an empty passwordHash login is
// disabled and every attempt is rejected.
func NewHandler(sm *scs.SessionManager, passwordHash string, events EventLogger) *Handler {
	if passwordHash != "" && NeedsRehash(passwordHash) {
		slog.Warn("admin password hash uses outdated parameters; regenerate it with -hash-password")
	}
	return &Handler{sessions: sm, passwordHash: passwordHash, events: events}
}

// Login checks the "password" form value and grants the admin role.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.passwordHash == "" {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "login is disabled"})
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid form"})
		return
	}

	ok, err := CheckPassword(r.PostForm.Get("password"), h.passwordHash)
	if err != nil {
		slog.Error("admin password hash is unusable", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "internal server error"})
		return
	}
	if !ok {
		slog.Warn("failed admin login", "ip", middleware.ClientIP(r))
		h.logEvent(r.Context(), model.EventLevelWarning, "Failed admin login", r)
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "invalid password"})
		return
	}

	if err := h.sessions.RenewToken(r.Context()); err != nil {
		slog.Error("renewing session token", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "internal server error"})
		return
	}
	h.sessions.Put(r.Context(), middleware.SessionKeyRole, config.RoleAdmin)
	h.logEvent(r.Context(), model.EventLevelInfo, "Admin logged in", r)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "role": config.RoleAdmin})
}

// Logout destroys the session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		slog.Error("destroying session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) logEvent(ctx context.Context, level, msg string, r *http.Request) {
	if h.events == nil {
		return
	}
	metadata, _ := json.Marshal(map[string]string{"ip": middleware.ClientIP(r)})
	if _, err := h.events.CreateEvent(ctx, store.CreateEventParams{
		Level:    level,
		Category: model.EventCategorySystem,
		Message:  msg,
		Metadata: string(metadata),
	}); err != nil {
		slog.Warn("failed to log login event", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
