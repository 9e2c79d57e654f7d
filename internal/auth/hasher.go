// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/samber/oops"
)

// DigestLength is the length in characters of a hex-encoded digest.
const DigestLength = sha256.Size * 2

// ErrEmptySecret is returned when attempting to digest an empty secret.
var ErrEmptySecret = oops.Code("AUTH_EMPTY_SECRET").Errorf("secret cannot be empty")

// SecretHasher produces one-way digests of plaintext secrets.
type SecretHasher interface {
	// Digest returns the fixed-length hex digest of secret.
	// Deterministic: the same secret always yields the same digest.
	Digest(secret string) (string, error)
}

// SHA256Hasher implements SecretHasher with a single unsalted SHA-256 round.
// See the package documentation for why this weak scheme is preserved.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// Digest returns the lowercase hex SHA-256 digest of secret.
func (h *SHA256Hasher) Digest(secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:]), nil
}
