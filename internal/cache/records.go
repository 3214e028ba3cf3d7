// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/ocms-multilingual/internal/multilingual"
)

// RecordBackend is the persistent store behind a RecordStore.
type RecordBackend interface {
	multilingual.Updater
	multilingual.Saver
	GetRecord(ctx context.Context, schema *multilingual.Schema, id string) (*multilingual.Record, error)
	DeleteRecord(ctx context.Context, schema *multilingual.Schema, id string) error
}

// RecordStore is a read-through cache for single records. Every write goes
// to the backend first and then drops the cached copy. Cache failures are
// logged and the backend result is used.
type RecordStore struct {
	backend RecordBackend
	entries *TypedCache[recordEntry]
}

// recordEntry is the cached form of a record: its slot values as decoded
// JSON, re-typed through the schema on load.
type recordEntry struct {
	ID     string         `json:"id"`
	Values map[string]any `json:"values"`
}

// NewRecordStore wraps backend with c.
func NewRecordStore(backend RecordBackend, c Cacher, ttl time.Duration) *RecordStore {
	return &RecordStore{
		backend: backend,
		entries: NewTypedCache[recordEntry](c, ttl),
	}
}

func recordKey(schema *multilingual.Schema, id string) string {
	return "record:" + schema.Table() + ":" + id
}

// GetRecord returns a record from the cache or loads it from the backend.
func (s *RecordStore) GetRecord(ctx context.Context, schema *multilingual.Schema, id string) (*multilingual.Record, error) {
	var loaded *multilingual.Record
	entry, err := s.entries.GetOrSet(ctx, recordKey(schema, id), func() (*recordEntry, error) {
		r, err := s.backend.GetRecord(ctx, schema, id)
		if err != nil {
			return nil, err
		}
		loaded = r
		return &recordEntry{ID: r.ID(), Values: r.Values()}, nil
	})
	if err != nil {
		return nil, err
	}
	if loaded != nil {
		return loaded, nil
	}

	r, err := rehydrate(schema, entry)
	if err == nil {
		return r, nil
	}
	slog.Warn("discarding cached record", "key", recordKey(schema, id), "error", err)
	s.invalidate(ctx, schema, id)
	return s.backend.GetRecord(ctx, schema, id)
}

// UpdateFields writes through to the backend and invalidates the record.
func (s *RecordStore) UpdateFields(ctx context.Context, schema *multilingual.Schema, id string, values map[string]any) error {
	if err := s.backend.UpdateFields(ctx, schema, id, values); err != nil {
		return err
	}
	s.invalidate(ctx, schema, id)
	return nil
}

// SaveRecord writes through to the backend and invalidates the record.
func (s *RecordStore) SaveRecord(ctx context.Context, r *multilingual.Record) error {
	if err := s.backend.SaveRecord(ctx, r); err != nil {
		return err
	}
	s.invalidate(ctx, r.Schema(), r.ID())
	return nil
}

// DeleteRecord deletes from the backend and invalidates the record.
func (s *RecordStore) DeleteRecord(ctx context.Context, schema *multilingual.Schema, id string) error {
	if err := s.backend.DeleteRecord(ctx, schema, id); err != nil {
		return err
	}
	s.invalidate(ctx, schema, id)
	return nil
}

func (s *RecordStore) invalidate(ctx context.Context, schema *multilingual.Schema, id string) {
	key := recordKey(schema, id)
	if err := s.entries.Delete(ctx, key); err != nil {
		slog.Warn("record cache invalidation failed", "key", key, "error", err)
	}
}

func rehydrate(schema *multilingual.Schema, e *recordEntry) (*multilingual.Record, error) {
	values := make(map[string]any, len(e.Values))
	for _, slot := range schema.Slots() {
		v, err := slot.Type.Coerce(e.Values[slot.Name])
		if err != nil {
			return nil, fmt.Errorf("slot %s: %w", slot.Name, err)
		}
		if v == nil && slot.Field == schema.ActiveField() {
			v = false
		}
		values[slot.Name] = v
	}
	return multilingual.LoadRecord(schema, e.ID, values), nil
}

var (
	_ multilingual.Updater = (*RecordStore)(nil)
	_ multilingual.Saver   = (*RecordStore)(nil)
)
