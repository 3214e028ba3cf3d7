// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the admin session manager.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ocms-multilingual/internal/store"
)

// Lifetime is how long an admin session lasts.
const Lifetime = 24 * time.Hour

// New creates a session manager backed by the sessions table of db.
func New(db *sql.DB, dialect store.Dialect, isDev bool) *scs.SessionManager {
	sm := scs.New()

	switch dialect {
	case store.DialectMySQL:
		sm.Store = NewMySQLStore(db, 5*time.Minute)
	default:
		sm.Store = sqlite3store.New(db)
	}

	sm.Lifetime = Lifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !isDev
	if !isDev {
		sm.Cookie.Name = "__Host-session"
	}

	return sm
}
