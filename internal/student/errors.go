// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

package student

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateRoll is returned when inserting or updating a record whose
// roll number is already taken by another record.
var ErrDuplicateRoll = errors.New("roll number already exists")
