// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store persists translatable records and the event log in SQL
// databases (SQLite or MySQL).
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/olegiv/ocms-multilingual/internal/multilingual"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store reads and writes records of expanded schemas.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New creates a Store over an open database.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect returns the store's SQL dialect.
func (s *Store) Dialect() Dialect { return s.dialect }

// ListOptions controls pagination of List and Search.
type ListOptions struct {
	Limit  int
	Offset int
}

func (o ListOptions) limit() int {
	if o.Limit <= 0 {
		return 50
	}
	return o.Limit
}

// EnsureTable creates the table backing schema if it does not exist, with one
// column per slot.
func (s *Store) EnsureTable(ctx context.Context, schema *multilingual.Schema) error {
	q := s.dialect.quote
	defs := []string{
		q(multilingual.IDColumn) + " " + s.dialect.idType() + " PRIMARY KEY",
		q(multilingual.CreatedAtColumn) + " " + s.dialect.timeType() + " NOT NULL",
	}
	for _, slot := range schema.Slots() {
		defs = append(defs, q(slot.Column)+" "+s.dialect.columnType(slot.Type))
	}

	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)", q(schema.Table()), strings.Join(defs, ",\n  "))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("creating table %s: %w", schema.Table(), err)
	}
	return nil
}

// SaveRecord inserts r or, if it already exists, overwrites every slot.
// Slots not declared by the schema are rejected.
func (s *Store) SaveRecord(ctx context.Context, r *multilingual.Record) error {
	schema := r.Schema()
	values := r.Values()

	cols, args, err := s.columnsFor(schema, values)
	if err != nil {
		return err
	}

	q := s.dialect.quote
	insertCols := []string{q(multilingual.IDColumn), q(multilingual.CreatedAtColumn)}
	placeholders := []string{"?", "?"}
	for _, c := range cols {
		insertCols = append(insertCols, q(c))
		placeholders = append(placeholders, "?")
	}
	args = append([]any{r.ID(), time.Now().UTC()}, args...)

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", q(schema.Table()),
		strings.Join(insertCols, ", "), strings.Join(placeholders, ", "))
	if len(cols) > 0 {
		stmt += s.dialect.upsertSuffix(cols)
	}

	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("saving %s %s: %w", schema.Name(), r.ID(), err)
	}
	return nil
}

// UpdateFields writes the given slots of one record in a single statement.
func (s *Store) UpdateFields(ctx context.Context, schema *multilingual.Schema, id string, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	cols, args, err := s.columnsFor(schema, values)
	if err != nil {
		return err
	}

	q := s.dialect.quote
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = q(c) + " = ?"
	}
	args = append(args, id)
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", q(schema.Table()), strings.Join(sets, ", "), q(multilingual.IDColumn))

	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("updating %s %s: %w", schema.Name(), id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating %s %s: %w", schema.Name(), id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", schema.Name(), id, ErrNotFound)
	}
	return nil
}

// GetRecord loads one record.
func (s *Store) GetRecord(ctx context.Context, schema *multilingual.Schema, id string) (*multilingual.Record, error) {
	stmt := s.selectSQL(schema) + " WHERE " + s.dialect.quote(multilingual.IDColumn) + " = ?"
	row := s.db.QueryRowContext(ctx, stmt, id)

	r, err := scanRecord(schema, row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %s: %w", schema.Name(), id, ErrNotFound)
		}
		return nil, fmt.Errorf("loading %s %s: %w", schema.Name(), id, err)
	}
	return r, nil
}

// ListRecords returns records ordered by creation time, newest first.
func (s *Store) ListRecords(ctx context.Context, schema *multilingual.Schema, opts ListOptions) ([]*multilingual.Record, error) {
	stmt := s.selectSQL(schema) + s.orderAndLimit()
	return s.queryRecords(ctx, schema, stmt, opts.limit(), opts.Offset)
}

// SearchRecords returns records where any of fields contains term in any
// language.
func (s *Store) SearchRecords(ctx context.Context, schema *multilingual.Schema, fields []string, term string, opts ListOptions) ([]*multilingual.Record, error) {
	where, args, err := s.searchWhere(schema, fields, term)
	if err != nil {
		return nil, err
	}
	stmt := s.selectSQL(schema) + where + s.orderAndLimit()
	args = append(args, opts.limit(), opts.Offset)
	return s.queryRecords(ctx, schema, stmt, args...)
}

// CountSearch returns the number of records SearchRecords matches without
// paging.
func (s *Store) CountSearch(ctx context.Context, schema *multilingual.Schema, fields []string, term string) (int64, error) {
	where, args, err := s.searchWhere(schema, fields, term)
	if err != nil {
		return 0, err
	}
	var n int64
	stmt := "SELECT COUNT(*) FROM " + s.dialect.quote(schema.Table()) + where
	if err := s.db.QueryRowContext(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s matches: %w", schema.Name(), err)
	}
	return n, nil
}

// searchWhere ORs a LIKE condition over every language column of fields.
func (s *Store) searchWhere(schema *multilingual.Schema, fields []string, term string) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("searching %s: no fields", schema.Name())
	}
	pattern := "%" + escapeLike(term) + "%"
	var conds []string
	var args []any
	for _, field := range fields {
		cols, err := schema.SearchColumns(field)
		if err != nil {
			return "", nil, err
		}
		for _, c := range cols {
			conds = append(conds, s.dialect.quote(c)+" LIKE ? ESCAPE '!'")
			args = append(args, pattern)
		}
	}
	return " WHERE " + strings.Join(conds, " OR "), args, nil
}

// CountRecords returns the number of stored records.
func (s *Store) CountRecords(ctx context.Context, schema *multilingual.Schema) (int64, error) {
	var n int64
	stmt := "SELECT COUNT(*) FROM " + s.dialect.quote(schema.Table())
	if err := s.db.QueryRowContext(ctx, stmt).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", schema.Name(), err)
	}
	return n, nil
}

// DeleteRecord removes a record.
func (s *Store) DeleteRecord(ctx context.Context, schema *multilingual.Schema, id string) error {
	q := s.dialect.quote
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+q(schema.Table())+" WHERE "+q(multilingual.IDColumn)+" = ?", id)
	if err != nil {
		return fmt.Errorf("deleting %s %s: %w", schema.Name(), id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s %s: %w", schema.Name(), id, ErrNotFound)
	}
	return nil
}

// columnsFor maps slot values to columns in a stable order.
func (s *Store) columnsFor(schema *multilingual.Schema, values map[string]any) ([]string, []any, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := make([]string, 0, len(names))
	args := make([]any, 0, len(names))
	for _, name := range names {
		slot, ok := schema.Slot(name)
		if !ok {
			return nil, nil, &multilingual.FieldNotFoundError{Model: schema.Name(), Field: name}
		}
		v, err := slot.Type.Coerce(values[name])
		if err != nil {
			return nil, nil, fmt.Errorf("slot %s: %w", name, err)
		}
		if v == nil && slot.Type == multilingual.TypeBool {
			v = false
		}
		cols = append(cols, slot.Column)
		args = append(args, v)
	}
	return cols, args, nil
}

func (s *Store) selectSQL(schema *multilingual.Schema) string {
	q := s.dialect.quote
	cols := []string{q(multilingual.IDColumn)}
	for _, slot := range schema.Slots() {
		cols = append(cols, q(slot.Column))
	}
	return "SELECT " + strings.Join(cols, ", ") + " FROM " + q(schema.Table())
}

func (s *Store) orderAndLimit() string {
	q := s.dialect.quote
	return " ORDER BY " + q(multilingual.CreatedAtColumn) + " DESC, " + q(multilingual.IDColumn) + " LIMIT ? OFFSET ?"
}

func (s *Store) queryRecords(ctx context.Context, schema *multilingual.Schema, stmt string, args ...any) ([]*multilingual.Record, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", schema.Name(), err)
	}
	defer func() { _ = rows.Close() }()

	var records []*multilingual.Record
	for rows.Next() {
		r, err := scanRecord(schema, rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", schema.Name(), err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", schema.Name(), err)
	}
	return records, nil
}

// scanRecord scans id followed by every slot column, as produced by selectSQL.
func scanRecord(schema *multilingual.Schema, scan func(dest ...any) error) (*multilingual.Record, error) {
	slots := schema.Slots()
	var id string
	dest := make([]any, 0, len(slots)+1)
	dest = append(dest, &id)
	for _, slot := range slots {
		dest = append(dest, scanTarget(slot.Type))
	}

	if err := scan(dest...); err != nil {
		return nil, err
	}

	values := make(map[string]any, len(slots))
	for i, slot := range slots {
		values[slot.Name] = nullValue(dest[i+1])
	}
	return multilingual.LoadRecord(schema, id, values), nil
}

func scanTarget(t multilingual.FieldType) any {
	switch t {
	case multilingual.TypeInteger:
		return &sql.NullInt64{}
	case multilingual.TypeReal:
		return &sql.NullFloat64{}
	case multilingual.TypeBool:
		return &sql.NullBool{}
	default:
		return &sql.NullString{}
	}
}

func nullValue(dest any) any {
	switch v := dest.(type) {
	case *sql.NullInt64:
		if v.Valid {
			return v.Int64
		}
	case *sql.NullFloat64:
		if v.Valid {
			return v.Float64
		}
	case *sql.NullBool:
		return v.Valid && v.Bool
	case *sql.NullString:
		if v.Valid {
			return v.String
		}
	}
	return nil
}

// escapeLike escapes LIKE wildcards using '!' as the escape character.
func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}
