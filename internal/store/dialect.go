// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"strings"

	"github.com/olegiv/ocms-multilingual/internal/multilingual"
)

// Dialect selects SQL flavour differences between backends.
type Dialect string

// Supported dialects.
const (
	DialectSQLite Dialect = "sqlite"
	DialectMySQL  Dialect = "mysql"
)

func (d Dialect) gooseDialect() string {
	if d == DialectMySQL {
		return "mysql"
	}
	return "sqlite3"
}

// quote quotes an identifier. Identifiers come from a validated schema.
func (d Dialect) quote(ident string) string {
	if d == DialectMySQL {
		return "`" + ident + "`"
	}
	return `"` + ident + `"`
}

func (d Dialect) columnType(t multilingual.FieldType) string {
	switch t {
	case multilingual.TypeInteger:
		if d == DialectMySQL {
			return "BIGINT"
		}
		return "INTEGER"
	case multilingual.TypeReal:
		if d == DialectMySQL {
			return "DOUBLE"
		}
		return "REAL"
	case multilingual.TypeBool:
		if d == DialectMySQL {
			return "BOOLEAN NOT NULL DEFAULT FALSE"
		}
		return "INTEGER NOT NULL DEFAULT 0"
	default:
		return "TEXT"
	}
}

func (d Dialect) idType() string {
	if d == DialectMySQL {
		return "VARCHAR(36)"
	}
	return "TEXT"
}

func (d Dialect) timeType() string {
	if d == DialectMySQL {
		return "DATETIME(6)"
	}
	return "DATETIME"
}

// upsertSuffix returns the conflict clause updating cols.
func (d Dialect) upsertSuffix(cols []string) string {
	var sb strings.Builder
	if d == DialectMySQL {
		sb.WriteString(" ON DUPLICATE KEY UPDATE ")
		for i, c := range cols {
			if i > 0 {
				sb.WriteString(", ")
			}
			q := d.quote(c)
			sb.WriteString(q + " = VALUES(" + q + ")")
		}
		return sb.String()
	}

	sb.WriteString(" ON CONFLICT(" + d.quote(multilingual.IDColumn) + ") DO UPDATE SET ")
	for i, c := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		q := d.quote(c)
		sb.WriteString(q + " = excluded." + q)
	}
	return sb.String()
}
