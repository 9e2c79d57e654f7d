// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

// Package store provides the embedded database and its schema migrations.
package store

import (
	"database/sql"
	"time"

	"github.com/samber/oops"
	// Register the sqlite database/sql driver.
	_ "modernc.org/sqlite"
)

// Open opens the rollbook database at path with WAL journaling and a busy
// timeout so the console and any background work contend gracefully.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, oops.Code("DB_OPEN_FAILED").
			With("path", path).
			Wrap(err)
	}

	// Single-process desktop workload: keep the pool small.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close() //nolint:errcheck // open error takes precedence
		return nil, oops.Code("DB_OPEN_FAILED").
			With("operation", "ping").
			With("path", path).
			Wrap(err)
	}
	return db, nil
}
