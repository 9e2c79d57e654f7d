// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/rollbook/rollbook/internal/store"
	"github.com/rollbook/rollbook/internal/xdg"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending schema migrations to the student database.`,
		RunE:  runMigrateUp,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		Long:  `Roll back all schema migrations. WARNING: drops all student data.`,
		RunE:  runMigrateDown,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the applied schema version",
		RunE:  runMigrateStatus,
	})
	return cmd
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := xdg.EnsureDir(cfg.DataDir); err != nil {
		return oops.Code("DATA_DIR_FAILED").With("path", cfg.DataDir).Wrap(err)
	}

	migrator, err := store.NewMigrator(cfg.DatabaseFile())
	if err != nil {
		return err
	}
	defer migrator.Close() //nolint:errcheck // migration result takes precedence

	cmd.Println("Running migrations...")
	if err := migrator.Up(); err != nil {
		return err
	}
	cmd.Println("Migrations completed successfully")
	return nil
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	migrator, err := store.NewMigrator(cfg.DatabaseFile())
	if err != nil {
		return err
	}
	defer migrator.Close() //nolint:errcheck // migration result takes precedence

	cmd.Println("Rolling back migrations...")
	if err := migrator.Down(); err != nil {
		return err
	}
	cmd.Println("Rollback completed")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	migrator, err := store.NewMigrator(cfg.DatabaseFile())
	if err != nil {
		return err
	}
	defer migrator.Close() //nolint:errcheck // read-only status check

	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	if dirty {
		cmd.Printf("Schema version %d (DIRTY)\n", version)
		return nil
	}
	cmd.Printf("Schema version %d\n", version)
	return nil
}
