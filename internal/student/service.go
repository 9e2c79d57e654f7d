// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

package student

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service coordinates student record operations over a Repository.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a Service with a no-op logger.
// Returns an error if the repository is nil.
func NewService(repo Repository) (*Service, error) {
	if repo == nil {
		return nil, oops.Errorf("student repository is required")
	}
	return &Service{
		repo:   repo,
		logger: slog.New(slog.DiscardHandler),
	}, nil
}

// NewServiceWithLogger creates a Service with the provided logger.
// Returns an error if any required dependency is nil.
func NewServiceWithLogger(repo Repository, logger *slog.Logger) (*Service, error) {
	svc, err := NewService(repo)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	svc.logger = logger
	return svc, nil
}

// Create validates and stores a new student record.
func (s *Service) Create(ctx context.Context, in Input) (*Student, error) {
	record, err := NewStudent(in)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		if errors.Is(err, ErrDuplicateRoll) {
			return nil, err
		}
		return nil, oops.Code("STUDENT_CREATE_FAILED").
			With("roll", record.Roll).
			Wrap(err)
	}

	s.logger.Info("student record created", "id", record.ID.String(), "roll", record.Roll)
	return record, nil
}

// Get retrieves a record by ID.
func (s *Service) Get(ctx context.Context, id ulid.ULID) (*Student, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, oops.Code("STUDENT_GET_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return record, nil
}

// List returns all records ordered by roll.
func (s *Service) List(ctx context.Context) ([]*Student, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, oops.Code("STUDENT_LIST_FAILED").Wrap(err)
	}
	return records, nil
}

// Search returns records matching the filter. A zero filter lists
// everything.
func (s *Service) Search(ctx context.Context, f Filter) ([]*Student, error) {
	if f.IsZero() {
		return s.List(ctx)
	}
	records, err := s.repo.Search(ctx, f)
	if err != nil {
		return nil, oops.Code("STUDENT_SEARCH_FAILED").Wrap(err)
	}
	return records, nil
}

// Update applies in to the record with the given ID.
func (s *Service) Update(ctx context.Context, id ulid.ULID, in Input) (*Student, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Apply(in)
	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, record); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateRoll) {
			return nil, err
		}
		return nil, oops.Code("STUDENT_UPDATE_FAILED").
			With("id", id.String()).
			Wrap(err)
	}

	s.logger.Info("student record updated", "id", id.String(), "roll", record.Roll)
	return record, nil
}

// Delete removes the record with the given ID.
func (s *Service) Delete(ctx context.Context, id ulid.ULID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return oops.Code("STUDENT_DELETE_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	s.logger.Info("student record deleted", "id", id.String())
	return nil
}
