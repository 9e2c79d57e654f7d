// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

// Package student provides the student record domain for rollbook.
package student

import (
	"context"
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// NewID generates a new student record ID.
func NewID() ulid.ULID {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}

// ParseID parses a student record ID string.
func ParseID(s string) (ulid.ULID, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return ulid.ULID{}, oops.Code("STUDENT_INVALID_ID").
			With("id", s).
			Wrap(err)
	}
	return id, nil
}

// Student is one student record. Roll is the unique human-facing key;
// ID is the stable storage key.
type Student struct {
	ID        ulid.ULID
	Name      string
	Roll      string
	DOB       string
	Contact   string
	Email     string
	Gender    string
	Class     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Input holds the caller-supplied fields of a student record.
type Input struct {
	Name    string
	Roll    string
	DOB     string
	Contact string
	Email   string
	Gender  string
	Class   string
	Address string
}

// NewStudent builds a validated student record with a fresh ID.
func NewStudent(in Input) (*Student, error) {
	now := time.Now().UTC()
	s := &Student{
		ID:        NewID(),
		Name:      strings.TrimSpace(in.Name),
		Roll:      strings.TrimSpace(in.Roll),
		DOB:       strings.TrimSpace(in.DOB),
		Contact:   strings.TrimSpace(in.Contact),
		Email:     strings.TrimSpace(in.Email),
		Gender:    strings.TrimSpace(in.Gender),
		Class:     strings.TrimSpace(in.Class),
		Address:   strings.TrimSpace(in.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the record's required fields.
func (s *Student) Validate() error {
	if s.Name == "" {
		return oops.Code("STUDENT_INVALID").
			With("field", "name").
			Errorf("name cannot be empty")
	}
	if s.Roll == "" {
		return oops.Code("STUDENT_INVALID").
			With("field", "roll").
			Errorf("roll cannot be empty")
	}
	return nil
}

// Apply overwrites the mutable fields from in and bumps UpdatedAt.
func (s *Student) Apply(in Input) {
	s.Name = strings.TrimSpace(in.Name)
	s.Roll = strings.TrimSpace(in.Roll)
	s.DOB = strings.TrimSpace(in.DOB)
	s.Contact = strings.TrimSpace(in.Contact)
	s.Email = strings.TrimSpace(in.Email)
	s.Gender = strings.TrimSpace(in.Gender)
	s.Class = strings.TrimSpace(in.Class)
	s.Address = strings.TrimSpace(in.Address)
	s.UpdatedAt = time.Now().UTC()
}

// Filter selects students by substring match on each populated field.
// Empty fields match everything.
type Filter struct {
	Name    string
	Roll    string
	DOB     string
	Contact string
	Email   string
	Gender  string
	Class   string
	Address string
}

// IsZero reports whether no filter field is set.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Repository manages student record persistence.
type Repository interface {
	// Insert stores a new record. Returns ErrDuplicateRoll if the roll is
	// already taken.
	Insert(ctx context.Context, s *Student) error

	// GetByID retrieves a record by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id ulid.ULID) (*Student, error)

	// List returns all records ordered by roll.
	List(ctx context.Context) ([]*Student, error)

	// Search returns records matching the filter, ordered by roll.
	Search(ctx context.Context, f Filter) ([]*Student, error)

	// Update overwrites an existing record. Returns ErrNotFound if absent
	// and ErrDuplicateRoll if the new roll collides with another record.
	Update(ctx context.Context, s *Student) error

	// Delete removes a record. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id ulid.ULID) error
}
