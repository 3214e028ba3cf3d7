// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"database/sql"
	"errors"
	"log/slog"
	"time"
)

// MySQLStore is an scs.Store over the MySQL sessions table created by the
// store migrations.
type MySQLStore struct {
	db          *sql.DB
	stopCleanup chan struct{}
}

// NewMySQLStore returns a store that deletes expired sessions every
// cleanupInterval. A zero interval disables cleanup.
func NewMySQLStore(db *sql.DB, cleanupInterval time.Duration) *MySQLStore {
	s := &MySQLStore{db: db}
	if cleanupInterval > 0 {
		s.stopCleanup = make(chan struct{})
		go s.startCleanup(cleanupInterval)
	}
	return s
}

// Find returns the data for a session token. Expired sessions are not found.
func (s *MySQLStore) Find(token string) ([]byte, bool, error) {
	var b []byte
	err := s.db.QueryRow("SELECT data FROM sessions WHERE token = ? AND UTC_TIMESTAMP(6) < expiry", token).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Commit adds or replaces a session.
func (s *MySQLStore) Commit(token string, b []byte, expiry time.Time) error {
	_, err := s.db.Exec(
		"INSERT INTO sessions (token, data, expiry) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE data = VALUES(data), expiry = VALUES(expiry)",
		token, b, expiry.UTC())
	return err
}

// Delete removes a session.
func (s *MySQLStore) Delete(token string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE token = ?", token)
	return err
}

// StopCleanup stops the background cleanup goroutine.
func (s *MySQLStore) StopCleanup() {
	if s.stopCleanup != nil {
		close(s.stopCleanup)
		s.stopCleanup = nil
	}
}

func (s *MySQLStore) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := s.db.Exec("DELETE FROM sessions WHERE expiry < UTC_TIMESTAMP(6)"); err != nil {
				slog.Warn("session cleanup failed", "error", err)
			}
		case <-s.stopCleanup:
			return
		}
	}
}
