// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rollbook/rollbook/internal/auth"
)

func TestSHA256Hasher_Digest(t *testing.T) {
	hasher := auth.NewSHA256Hasher()

	t.Run("produces fixed-length hex digest", func(t *testing.T) {
		digest, err := hasher.Digest("password123")
		require.NoError(t, err)
		assert.Len(t, digest, auth.DigestLength)
		assert.Regexp(t, "^[0-9a-f]+$", digest)
	})

	t.Run("is deterministic", func(t *testing.T) {
		first, err := hasher.Digest("samesecret")
		require.NoError(t, err)
		second, err := hasher.Digest("samesecret")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("different secrets produce different digests", func(t *testing.T) {
		first, err := hasher.Digest("secret1")
		require.NoError(t, err)
		second, err := hasher.Digest("secret2")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("matches digests written by existing credential files", func(t *testing.T) {
		digest, err := hasher.Digest("admin")
		require.NoError(t, err)
		assert.Equal(t, "8c6976e5b5410415bde908bd4dee15dfb167a9c873fc4bb8a81f6f2ab448a918", digest)
	})

	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := hasher.Digest("")
		assert.ErrorIs(t, err, auth.ErrEmptySecret)
	})
}
