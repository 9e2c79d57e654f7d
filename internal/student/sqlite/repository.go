// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

// Package sqlite implements student.Repository on the embedded database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/rollbook/rollbook/internal/student"
)

const studentColumns = "id, name, roll, dob, contact, email, gender, class, address, created_at, updated_at"

// Repository is a sqlite-backed student.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a Repository over an open database handle.
func NewRepository(db *sql.DB) (*Repository, error) {
	if db == nil {
		return nil, oops.Errorf("database handle is required")
	}
	return &Repository{db: db}, nil
}

// Insert stores a new record.
func (r *Repository) Insert(ctx context.Context, s *student.Student) error {
	query := `INSERT INTO students (` + studentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID.String(), s.Name, s.Roll, s.DOB, s.Contact, s.Email, s.Gender, s.Class, s.Address,
		s.CreatedAt.Format(time.RFC3339Nano), s.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("STUDENT_DUPLICATE_ROLL").
				With("roll", s.Roll).
				Wrap(student.ErrDuplicateRoll)
		}
		return oops.Code("STUDENT_INSERT_FAILED").
			With("id", s.ID.String()).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a record by ID.
func (r *Repository) GetByID(ctx context.Context, id ulid.ULID) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id.String())

	s, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, oops.Code("STUDENT_NOT_FOUND").
				With("id", id.String()).
				Wrap(student.ErrNotFound)
		}
		return nil, oops.Code("STUDENT_GET_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return s, nil
}

// List returns all records ordered by roll.
func (r *Repository) List(ctx context.Context) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY roll`
	return r.queryStudents(ctx, query)
}

// Search returns records matching the filter, ordered by roll. Each
// populated filter field becomes a substring match; fields combine with
// AND, mirroring the per-column search of the record form.
func (r *Repository) Search(ctx context.Context, f student.Filter) ([]*student.Student, error) {
	conds := make([]string, 0, 8)
	args := make([]any, 0, 8)
	addCond := func(column, value string) {
		if value == "" {
			return
		}
		conds = append(conds, column+" LIKE ?")
		args = append(args, "%"+value+"%")
	}
	addCond("name", f.Name)
	addCond("roll", f.Roll)
	addCond("dob", f.DOB)
	addCond("contact", f.Contact)
	addCond("email", f.Email)
	addCond("gender", f.Gender)
	addCond("class", f.Class)
	addCond("address", f.Address)

	query := `SELECT ` + studentColumns + ` FROM students`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY roll"

	return r.queryStudents(ctx, query, args...)
}

// Update overwrites an existing record.
func (r *Repository) Update(ctx context.Context, s *student.Student) error {
	query := `UPDATE students
		SET name = ?, roll = ?, dob = ?, contact = ?, email = ?, gender = ?, class = ?, address = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Name, s.Roll, s.DOB, s.Contact, s.Email, s.Gender, s.Class, s.Address,
		s.UpdatedAt.Format(time.RFC3339Nano), s.ID.String())
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("STUDENT_DUPLICATE_ROLL").
				With("roll", s.Roll).
				Wrap(student.ErrDuplicateRoll)
		}
		return oops.Code("STUDENT_UPDATE_FAILED").
			With("id", s.ID.String()).
			Wrap(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return oops.Code("STUDENT_UPDATE_FAILED").
			With("operation", "rows affected").
			Wrap(err)
	}
	if affected == 0 {
		return oops.Code("STUDENT_NOT_FOUND").
			With("id", s.ID.String()).
			Wrap(student.ErrNotFound)
	}
	return nil
}

// Delete removes a record.
func (r *Repository) Delete(ctx context.Context, id ulid.ULID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id.String())
	if err != nil {
		return oops.Code("STUDENT_DELETE_FAILED").
			With("id", id.String()).
			Wrap(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return oops.Code("STUDENT_DELETE_FAILED").
			With("operation", "rows affected").
			Wrap(err)
	}
	if affected == 0 {
		return oops.Code("STUDENT_NOT_FOUND").
			With("id", id.String()).
			Wrap(student.ErrNotFound)
	}
	return nil
}

func (r *Repository) queryStudents(ctx context.Context, query string, args ...any) ([]*student.Student, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, oops.Code("STUDENT_QUERY_FAILED").Wrap(err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var out []*student.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, oops.Code("STUDENT_SCAN_FAILED").Wrap(err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("STUDENT_QUERY_FAILED").Wrap(err)
	}
	return out, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(row scanner) (*student.Student, error) {
	var (
		s         student.Student
		idStr     string
		createdAt string
		updatedAt string
	)
	err := row.Scan(&idStr, &s.Name, &s.Roll, &s.DOB, &s.Contact, &s.Email, &s.Gender, &s.Class, &s.Address,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	s.ID, err = student.ParseID(idStr)
	if err != nil {
		return nil, err
	}
	s.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, oops.Code("STUDENT_SCAN_FAILED").With("field", "created_at").Wrap(err)
	}
	s.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, oops.Code("STUDENT_SCAN_FAILED").With("field", "updated_at").Wrap(err)
	}
	return &s, nil
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint
// failure.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlitedrv.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
