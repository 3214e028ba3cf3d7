// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ocms-multilingual/internal/config"
)

// SessionKeyRole is the session key holding the admin role.
const SessionKeyRole = "role"

// ContextKeyPermissions is the context key for the request's Permissions.
const ContextKeyPermissions ContextKey = "permissions"

// Permissions are the admin actions a role may perform.
type Permissions struct {
	Role   string `json:"role"`
	View   bool   `json:"view"`
	Change bool   `json:"change"`
	Delete bool   `json:"delete"`
}

// PermissionsFor maps a role to its permissions. Unknown roles get none.
// Deactivating a translation requires Delete.
func PermissionsFor(role string) Permissions {
	switch role {
	case config.RoleAdmin:
		return Permissions{Role: role, View: true, Change: true, Delete: true}
	case config.RoleEditor:
		return Permissions{Role: role, View: true, Change: true}
	case config.RoleViewer:
		return Permissions{Role: role, View: true}
	}
	return Permissions{Role: role}
}

// LoadPermissions reads the role from the session, falling back to
// defaultRole, and stores the resulting Permissions in the context. It must
// run inside sm.LoadAndSave.
func LoadPermissions(sm *scs.SessionManager, defaultRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := sm.GetString(r.Context(), SessionKeyRole)
			if role == "" {
				role = defaultRole
			}
			ctx := WithPermissions(r.Context(), PermissionsFor(role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireView rejects requests whose role may not view the admin.
func RequireView(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetPermissions(r).View {
			writeJSONError(w, http.StatusForbidden, "permission denied")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithPermissions returns a context carrying p.
func WithPermissions(ctx context.Context, p Permissions) context.Context {
	return context.WithValue(ctx, ContextKeyPermissions, p)
}

// GetPermissions returns the request's permissions; none when unset.
func GetPermissions(r *http.Request) Permissions {
	p, _ := r.Context().Value(ContextKeyPermissions).(Permissions)
	return p
}
