// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

// Package config loads rollbook configuration from a YAML file with
// command-line flag overrides.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/rollbook/rollbook/internal/xdg"
)

// Lockout controls the failed-login gate.
type Lockout struct {
	// MaxAttempts is the number of consecutive failures before the gate
	// locks.
	MaxAttempts int `koanf:"max_attempts"`

	// Cooldown is how long the gate stays locked.
	Cooldown time.Duration `koanf:"cooldown"`
}

// Config holds all rollbook settings.
type Config struct {
	// DataDir is where rollbook keeps its credential file and database.
	DataDir string `koanf:"data_dir"`

	// CredentialsPath overrides the credential file location. Empty means
	// DataDir/credentials.json.
	CredentialsPath string `koanf:"credentials_path"`

	// DatabasePath overrides the student database location. Empty means
	// DataDir/students.db.
	DatabasePath string `koanf:"database_path"`

	// LogFormat selects log output: "text" or "json".
	LogFormat string `koanf:"log_format"`

	Lockout Lockout `koanf:"lockout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir:   xdg.DataDir(),
		LogFormat: "text",
		Lockout: Lockout{
			MaxAttempts: 3,
			Cooldown:    10 * time.Second,
		},
	}
}

// Load builds a Config from defaults, then the YAML file at path (if
// any), then flag overrides. An empty path means no file; a named file
// that does not exist is an error.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()

	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, oops.Code("CONFIG_FILE_MISSING").
				With("path", path).
				Wrap(err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_PARSE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		// Flag names use dashes; config keys use underscores. Flags left
		// at an empty default never override file or built-in values.
		provider := posflag.ProviderWithValue(flags, ".", k, func(key string, value string) (string, any) {
			if value == "" {
				return "", nil
			}
			return strings.ReplaceAll(key, "-", "_"), value
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return oops.Code("CONFIG_INVALID").
			With("field", "data_dir").
			Errorf("data_dir cannot be empty")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return oops.Code("CONFIG_INVALID").
			With("field", "log_format").
			With("value", c.LogFormat).
			Errorf("log_format must be \"text\" or \"json\"")
	}
	if c.Lockout.MaxAttempts <= 0 {
		return oops.Code("CONFIG_INVALID").
			With("field", "lockout.max_attempts").
			Errorf("lockout.max_attempts must be positive")
	}
	if c.Lockout.Cooldown <= 0 {
		return oops.Code("CONFIG_INVALID").
			With("field", "lockout.cooldown").
			Errorf("lockout.cooldown must be positive")
	}
	return nil
}

// CredentialsFile resolves the credential file path.
func (c Config) CredentialsFile() string {
	if c.CredentialsPath != "" {
		return c.CredentialsPath
	}
	return filepath.Join(c.DataDir, "credentials.json")
}

// DatabaseFile resolves the student database path.
func (c Config) DatabaseFile() string {
	if c.DatabasePath != "" {
		return c.DatabasePath
	}
	return filepath.Join(c.DataDir, "students.db")
}
