// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/oops"
)

// Registration validation errors, in the order the checks run.
var (
	// ErrEmptyUsername is returned when the username is empty after
	// trimming whitespace.
	ErrEmptyUsername = oops.Code("AUTH_EMPTY_USERNAME").Errorf("username cannot be empty")

	// ErrSecretMismatch is returned when the confirmation does not match
	// the secret.
	ErrSecretMismatch = oops.Code("AUTH_SECRET_MISMATCH").Errorf("secrets do not match")

	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = oops.Code("AUTH_USERNAME_TAKEN").Errorf("username is already taken")
)

// Registrar validates and inserts new credentials. It holds no state of
// its own; the credential store is the only side effect.
type Registrar struct {
	creds  CredentialAdder
	logger *slog.Logger
}

// NewRegistrar creates a Registrar with a no-op logger.
// Returns an error if the credential adder is nil.
func NewRegistrar(creds CredentialAdder) (*Registrar, error) {
	if creds == nil {
		return nil, oops.Errorf("credential adder is required")
	}
	return &Registrar{
		creds:  creds,
		logger: slog.New(slog.DiscardHandler),
	}, nil
}

// NewRegistrarWithLogger creates a Registrar with the provided logger.
// Returns an error if any required dependency is nil.
func NewRegistrarWithLogger(creds CredentialAdder, logger *slog.Logger) (*Registrar, error) {
	r, err := NewRegistrar(creds)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	r.logger = logger
	return r, nil
}

// Register validates a new username/secret pair and inserts it into the
// credential store. Validation short-circuits: the first failing check
// wins. Returns the registered username on success.
func (r *Registrar) Register(ctx context.Context, username, secret, confirm string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrEmptyUsername
	}
	if secret == "" {
		return "", ErrEmptySecret
	}
	if secret != confirm {
		return "", ErrSecretMismatch
	}

	if err := r.creds.Add(ctx, username, secret); err != nil {
		if errors.Is(err, ErrCredentialExists) {
			return "", ErrUsernameTaken
		}
		return "", oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "add credential").
			Wrap(err)
	}

	registrations.Inc()
	r.logger.Info("registered new user", "username", username)
	return username, nil
}
