// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/rollbook/rollbook/internal/config"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the rollbook CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollbook",
		Short: "Rollbook - student records behind a login",
		Long: `Rollbook keeps student records in an embedded database, guarded by
username/password login with lockout after repeated failures.`,
	}

	// Global flags for config file path and common overrides
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	cmd.PersistentFlags().String("data-dir", "", "data directory override")
	cmd.PersistentFlags().String("log-format", "", "log output format (text or json)")

	// Add subcommands
	cmd.AddCommand(NewConsoleCmd())
	cmd.AddCommand(NewBootstrapCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}

// loadConfig resolves the effective configuration for a subcommand.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	return config.Load(configFile, cmd.Flags())
}
