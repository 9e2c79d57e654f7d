// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

package auth

import (
	"context"
	"errors"
)

// Sentinel errors returned by CredentialStore implementations. Callers
// match with errors.Is; implementations wrap them with contextual detail.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCredentialExists is returned when adding a username that is
	// already present in the store.
	ErrCredentialExists = errors.New("credential already exists")

	// ErrInvalidInput is returned when a username or secret fails local
	// validation before any store mutation is attempted.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreCorrupt is returned when the durable representation exists
	// but cannot be parsed.
	ErrStoreCorrupt = errors.New("credential store is corrupt")

	// ErrStoreUnavailable is returned when the durable representation
	// cannot be read or written at all.
	ErrStoreUnavailable = errors.New("credential store is unavailable")
)

// Credential is a username paired with the digest of its secret.
// The plaintext secret is never stored.
type Credential struct {
	Username     string
	SecretDigest string
}

// CredentialStore manages durable credential persistence.
//
// Every mutation is durable before the call returns: there is no
// write-ahead buffering, and a failed save leaves no partial state.
type CredentialStore interface {
	// Bootstrap creates the store containing the default credential if no
	// store exists yet. Idempotent: never overwrites an existing store.
	Bootstrap(ctx context.Context) error

	// Exists reports whether username is present in the store.
	Exists(ctx context.Context, username string) (bool, error)

	// Verify reports whether username is present and secret digests to
	// the stored value. Exact, case-sensitive match only.
	Verify(ctx context.Context, username, secret string) (bool, error)

	// Add validates, digests, and durably inserts a new credential.
	// Returns ErrInvalidInput for an empty username or secret, and
	// ErrCredentialExists for a duplicate username.
	Add(ctx context.Context, username, secret string) error

	// List returns all stored credentials sorted by username.
	List(ctx context.Context) ([]Credential, error)
}

// CredentialVerifier is the read-only slice of the credential store the
// login controller needs. Login never mutates the store.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, secret string) (bool, error)
}

// CredentialAdder is the slice of the credential store registration needs.
type CredentialAdder interface {
	Add(ctx context.Context, username, secret string) error
}
