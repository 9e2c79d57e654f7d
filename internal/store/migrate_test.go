// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

package store

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockMigrator implements migrateIface with canned results.
type mockMigrator struct {
	upErr      error
	downErr    error
	version    uint
	dirty      bool
	versionErr error
	srcErr     error
	dbErr      error
}

func (m *mockMigrator) Up() error   { return m.upErr }
func (m *mockMigrator) Down() error { return m.downErr }
func (m *mockMigrator) Version() (uint, bool, error) {
	return m.version, m.dirty, m.versionErr
}
func (m *mockMigrator) Close() (error, error) { return m.srcErr, m.dbErr }

func TestMigrator_Up(t *testing.T) {
	t.Run("no pending changes is not an error", func(t *testing.T) {
		m := &Migrator{m: &mockMigrator{upErr: migrate.ErrNoChange}}
		assert.NoError(t, m.Up())
	})

	t.Run("real failures are wrapped", func(t *testing.T) {
		m := &Migrator{m: &mockMigrator{upErr: errors.New("disk full")}}
		err := m.Up()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestMigrator_Down(t *testing.T) {
	t.Run("no applied migrations is not an error", func(t *testing.T) {
		m := &Migrator{m: &mockMigrator{downErr: migrate.ErrNoChange}}
		assert.NoError(t, m.Down())
	})
}

func TestMigrator_Version(t *testing.T) {
	t.Run("nil version maps to zero", func(t *testing.T) {
		m := &Migrator{m: &mockMigrator{versionErr: migrate.ErrNilVersion}}
		version, dirty, err := m.Version()
		require.NoError(t, err)
		assert.Zero(t, version)
		assert.False(t, dirty)
	})

	t.Run("reports applied version", func(t *testing.T) {
		m := &Migrator{m: &mockMigrator{version: 1}}
		version, dirty, err := m.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(1), version)
		assert.False(t, dirty)
	})
}

func TestMigrator_Close(t *testing.T) {
	t.Run("clean close", func(t *testing.T) {
		m := &Migrator{m: &mockMigrator{}}
		assert.NoError(t, m.Close())
	})

	t.Run("combines source and database errors", func(t *testing.T) {
		m := &Migrator{m: &mockMigrator{
			srcErr: errors.New("src"),
			dbErr:  errors.New("db"),
		}}
		err := m.Close()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "src")
		assert.Contains(t, err.Error(), "db")
	})
}

func TestMigrationsFS_EmbeddedFiles(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	// Every up migration has a matching down migration.
	ups := make(map[string]bool)
	downs := make(map[string]bool)
	for _, e := range entries {
		name := e.Name()
		switch {
		case len(name) > 7 && name[len(name)-7:] == ".up.sql":
			ups[name[:len(name)-7]] = true
		case len(name) > 9 && name[len(name)-9:] == ".down.sql":
			downs[name[:len(name)-9]] = true
		default:
			t.Errorf("unexpected file in migrations: %s", name)
		}
	}
	assert.Equal(t, ups, downs)
}
