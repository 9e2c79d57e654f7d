// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/rollbook/rollbook/internal/auth"
	"github.com/rollbook/rollbook/internal/auth/credfile"
	"github.com/rollbook/rollbook/internal/console"
	"github.com/rollbook/rollbook/internal/logging"
	"github.com/rollbook/rollbook/internal/store"
	"github.com/rollbook/rollbook/internal/student"
	studentsqlite "github.com/rollbook/rollbook/internal/student/sqlite"
	"github.com/rollbook/rollbook/internal/xdg"
)

// NewConsoleCmd creates the console subcommand.
func NewConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Start the interactive console",
		Long: `Start the interactive console: log in (or register), then manage
student records. First run creates the default admin/admin credential.`,
		RunE: runConsole,
	}
}

func runConsole(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.Setup("rollbook", version, cfg.LogFormat, cmd.ErrOrStderr())
	ctx := cmd.Context()

	if err := xdg.EnsureDir(cfg.DataDir); err != nil {
		return oops.Code("DATA_DIR_FAILED").With("path", cfg.DataDir).Wrap(err)
	}

	// Credential side: file store, gate, login, registration.
	creds, err := credfile.NewWithLogger(cfg.CredentialsFile(), auth.NewSHA256Hasher(), logger)
	if err != nil {
		return err
	}
	if err := credfile.EnsureParentDir(creds.Path()); err != nil {
		return err
	}
	if err := creds.Bootstrap(ctx); err != nil {
		return err
	}

	gate := auth.NewGate(cfg.Lockout.MaxAttempts, cfg.Lockout.Cooldown)
	login, err := auth.NewLoginServiceWithLogger(creds, gate, logger)
	if err != nil {
		return err
	}
	registrar, err := auth.NewRegistrarWithLogger(creds, logger)
	if err != nil {
		return err
	}

	// Record side: migrated database and the student service.
	migrator, err := store.NewMigrator(cfg.DatabaseFile())
	if err != nil {
		return err
	}
	if err := migrator.Up(); err != nil {
		return err
	}
	if err := migrator.Close(); err != nil {
		return err
	}

	db, err := store.Open(cfg.DatabaseFile())
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process exit path

	repo, err := studentsqlite.NewRepository(db)
	if err != nil {
		return err
	}
	students, err := student.NewServiceWithLogger(repo, logger)
	if err != nil {
		return err
	}

	ui, err := console.NewWithLogger(login, registrar, students, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}
	return ui.Run(ctx)
}
