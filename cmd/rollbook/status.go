// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/rollbook/rollbook/internal/auth"
	"github.com/rollbook/rollbook/internal/auth/credfile"
	"github.com/rollbook/rollbook/internal/store"
)

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show data store status",
		Long:  `Show the credential store and student database status.`,
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	creds, err := credfile.New(cfg.CredentialsFile(), auth.NewSHA256Hasher())
	if err != nil {
		return err
	}
	switch list, err := creds.List(cmd.Context()); {
	case err == nil:
		cmd.Printf("Credential store: %s (%d account(s))\n", creds.Path(), len(list))
	case errors.Is(err, auth.ErrStoreUnavailable):
		cmd.Printf("Credential store: %s (not created yet)\n", creds.Path())
	default:
		cmd.Printf("Credential store: %s (unreadable: %v)\n", creds.Path(), err)
	}

	if _, err := os.Stat(cfg.DatabaseFile()); err != nil {
		cmd.Printf("Student database: %s (not created yet)\n", cfg.DatabaseFile())
		return nil
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
		cmd.Printf("Student database: %s (schema version %d, DIRTY)\n", cfg.DatabaseFile(), version)
		return nil
	}
	cmd.Printf("Student database: %s (schema version %d)\n", cfg.DatabaseFile(), version)
	return nil
}
