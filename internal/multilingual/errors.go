// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"errors"
	"fmt"
)

// ErrFieldNotFound is matched by FieldNotFoundError via errors.Is.
var ErrFieldNotFound = errors.New("field not found")

// FieldError reports a schema definition mistake. It is returned by NewSchema
// and is meant to stop the program at setup time.
type FieldError struct {
	Model string
	Field string
	Msg   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Model, e.Field, e.Msg)
}

// FieldNotFoundError is returned when a field name is not exposed by a model
// or translation view.
type FieldNotFoundError struct {
	Model string
	Field string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("%s has no field named %q", e.Model, e.Field)
}

// Is lets errors.Is(err, ErrFieldNotFound) match.
func (e *FieldNotFoundError) Is(target error) bool {
	return target == ErrFieldNotFound
}
