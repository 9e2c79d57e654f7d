// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/rollbook/rollbook/internal/auth"
	"github.com/rollbook/rollbook/internal/auth/credfile"
	"github.com/rollbook/rollbook/internal/logging"
	"github.com/rollbook/rollbook/internal/xdg"
)

// NewBootstrapCmd creates the bootstrap subcommand.
func NewBootstrapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the default credential store",
		Long: `Create the credential store with the default admin/admin credential.
Does nothing if a credential store already exists.`,
		RunE: runBootstrap,
	}
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.Setup("rollbook", version, cfg.LogFormat, cmd.ErrOrStderr())

	if err := xdg.EnsureDir(cfg.DataDir); err != nil {
		return oops.Code("DATA_DIR_FAILED").With("path", cfg.DataDir).Wrap(err)
	}

	creds, err := credfile.NewWithLogger(cfg.CredentialsFile(), auth.NewSHA256Hasher(), logger)
	if err != nil {
		return err
	}
	if err := credfile.EnsureParentDir(creds.Path()); err != nil {
		return err
	}
	if err := creds.Bootstrap(cmd.Context()); err != nil {
		return err
	}

	cmd.Printf("Credential store ready at %s\n", creds.Path())
	return nil
}
