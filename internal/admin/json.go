// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/ocms-multilingual/internal/multilingual"
	"github.com/olegiv/ocms-multilingual/internal/store"
)

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{
		"success": false,
		"error":   message,
	})
}

// logAndInternalError logs an error and writes a 500 JSON response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
}

func (s *Site) notFound(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, http.StatusNotFound, s.t(r, "error.not_found"))
}

func (s *Site) forbidden(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, http.StatusForbidden, s.t(r, "error.forbidden"))
}

// requireRecord loads a record, writing 404 or 500 on failure.
func (s *Site) requireRecord(w http.ResponseWriter, r *http.Request, m *ModelAdmin, id string) (*multilingual.Record, bool) {
	rec, err := s.records.GetRecord(r.Context(), m.schema, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.notFound(w, r)
		} else {
			logAndInternalError(w, "failed to get record", "error", err, "model", m.key, "id", id)
		}
		return nil, false
	}
	return rec, true
}
