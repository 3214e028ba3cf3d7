// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldType is the storage type of a field.
type FieldType int

// Supported field types.
const (
	TypeText FieldType = iota
	TypeInteger
	TypeReal
	TypeBool
)

func (t FieldType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeInteger:
		return "integer"
	case TypeReal:
		return "real"
	case TypeBool:
		return "bool"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// Parse converts a form value into a value of this type.
// An empty string yields nil for non-text types.
func (t FieldType) Parse(s string) (any, error) {
	switch t {
	case TypeText:
		return s, nil
	case TypeInteger:
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing integer %q: %w", s, err)
		}
		return n, nil
	case TypeReal:
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing real %q: %w", s, err)
		}
		return f, nil
	case TypeBool:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "1", "on", "true", "yes":
			return true, nil
		case "", "0", "off", "false", "no":
			return false, nil
		}
		return nil, fmt.Errorf("parsing bool %q", s)
	}
	return nil, fmt.Errorf("unsupported field type %s", t)
}

// Coerce converts a decoded value (e.g. from JSON) into the canonical Go type
// for this field type: string, int64, float64 or bool. nil stays nil.
func (t FieldType) Coerce(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case TypeText:
		switch x := v.(type) {
		case string:
			return x, nil
		case []byte:
			return string(x), nil
		}
	case TypeInteger:
		switch x := v.(type) {
		case int64:
			return x, nil
		case int:
			return int64(x), nil
		case int32:
			return int64(x), nil
		case float64:
			if x != math.Trunc(x) {
				return nil, fmt.Errorf("coercing %v to integer: not whole", x)
			}
			return int64(x), nil
		case json.Number:
			return x.Int64()
		}
	case TypeReal:
		switch x := v.(type) {
		case float64:
			return x, nil
		case float32:
			return float64(x), nil
		case int64:
			return float64(x), nil
		case int:
			return float64(x), nil
		case json.Number:
			return x.Float64()
		}
	case TypeBool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case int64:
			return x != 0, nil
		case float64:
			return x != 0, nil
		case json.Number:
			f, err := x.Float64()
			if err != nil {
				return nil, err
			}
			return f != 0, nil
		}
	}
	return nil, fmt.Errorf("coercing %T to %s", v, t)
}

// IsEmpty reports whether v counts as "no value" for fallback and activation
// purposes: nil, "", false and numeric zero are empty.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case int:
		return x == 0
	case int64:
		return x == 0
	case float64:
		return x == 0
	case []byte:
		return len(x) == 0
	}
	return false
}
