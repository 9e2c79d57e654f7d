// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

// Package auth provides the credential-gated access controller for rollbook.
//
// # Components
//
//   - SecretHasher / SHA256Hasher - one-way digest of plaintext secrets
//   - CredentialStore - durable username -> digest mapping (implemented by
//     the credfile subpackage)
//   - Gate - per-session lockout state machine (3 attempts, 10 s cooldown)
//   - LoginService - orchestrates an attempt: gate first, then store
//   - Registrar - validates and inserts new credentials
//
// Services are created with New* constructors that validate dependencies;
// repositories receive pre-validated input from the services.
//
// # Security note
//
// Stored digests are a single unsalted SHA-256 round. This is a known weak
// scheme kept deliberately: existing credential files hold digests in this
// exact format, and changing the algorithm (or adding a salt) would
// invalidate every stored entry. Upgrading requires a re-hash-on-login
// migration and a file format change.
package auth
