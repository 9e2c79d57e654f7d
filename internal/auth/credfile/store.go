// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

// Package credfile implements auth.CredentialStore backed by a JSON file.
//
// The durable representation is a single JSON object mapping username to
// hex digest, the format existing credential files already use:
//
//	{"admin":"8c6976e5b5410415bde908bd4dee15dfb167a9c873fc4bb8a81f6f2ab448a918"}
//
// Saves are atomic: the new representation is written to a temporary file
// and renamed over the old one, so a crash mid-write never leaves a
// half-written store.
package credfile

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/samber/oops"

	"github.com/rollbook/rollbook/internal/auth"
)

// Default credential created by Bootstrap on first run.
const (
	DefaultUsername = "admin"
	DefaultSecret   = "admin"
)

// Store is a file-backed auth.CredentialStore. It supports concurrent
// readers with mutual exclusion on writers.
type Store struct {
	path   string
	hasher auth.SecretHasher
	mu     sync.RWMutex
	logger *slog.Logger
}

// New creates a Store persisting to path.
// Returns an error if path is empty or hasher is nil.
func New(path string, hasher auth.SecretHasher) (*Store, error) {
	if path == "" {
		return nil, oops.Errorf("credential store path is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("secret hasher is required")
	}
	return &Store{
		path:   path,
		hasher: hasher,
		logger: slog.New(slog.DiscardHandler),
	}, nil
}

// NewWithLogger creates a Store with the provided logger.
func NewWithLogger(path string, hasher auth.SecretHasher, logger *slog.Logger) (*Store, error) {
	s, err := New(path, hasher)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	s.logger = logger
	return s, nil
}

// Path returns the location of the durable representation.
func (s *Store) Path() string {
	return s.path
}

// Bootstrap creates the store containing the default admin credential if
// no store exists yet. Never overwrites an existing store.
func (s *Store) Bootstrap(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return oops.Code("STORE_UNAVAILABLE").
			With("path", s.path).
			With("cause", err.Error()).
			Wrap(auth.ErrStoreUnavailable)
	}

	digest, err := s.hasher.Digest(DefaultSecret)
	if err != nil {
		return oops.Code("STORE_BOOTSTRAP_FAILED").
			With("operation", "digest default secret").
			Wrap(err)
	}

	if err := s.save(map[string]string{DefaultUsername: digest}); err != nil {
		return err
	}
	s.logger.Info("created default credential store", "path", s.path)
	return nil
}

// Exists reports whether username is present in the store.
func (s *Store) Exists(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creds, err := s.load()
	if err != nil {
		return false, err
	}
	_, ok := creds[username]
	return ok, nil
}

// Verify reports whether username is present and secret digests to the
// stored value. Exact, case-sensitive match only; never mutates the store.
func (s *Store) Verify(_ context.Context, username, secret string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creds, err := s.load()
	if err != nil {
		return false, err
	}

	stored, ok := creds[username]
	if !ok {
		return false, nil
	}

	digest, err := s.hasher.Digest(secret)
	if err != nil {
		// An empty secret can never match a stored digest.
		return false, nil
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(digest)) == 1, nil
}

// Add validates, digests, and durably inserts a new credential. The write
// is persisted before Add returns.
func (s *Store) Add(_ context.Context, username, secret string) error {
	if username == "" {
		return oops.Code("STORE_INVALID_INPUT").
			With("field", "username").
			Wrap(auth.ErrInvalidInput)
	}
	if secret == "" {
		return oops.Code("STORE_INVALID_INPUT").
			With("field", "secret").
			Wrap(auth.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A store that doesn't exist yet is explicitly tolerated here: the
	// first Add creates it. Corruption and unreadable files still fail.
	creds, err := s.loadOrEmpty()
	if err != nil {
		return err
	}

	if _, ok := creds[username]; ok {
		return oops.Code("STORE_ALREADY_EXISTS").
			With("username", username).
			Wrap(auth.ErrCredentialExists)
	}

	digest, err := s.hasher.Digest(secret)
	if err != nil {
		return oops.Code("STORE_ADD_FAILED").
			With("operation", "digest secret").
			Wrap(err)
	}

	creds[username] = digest
	if err := s.save(creds); err != nil {
		return err
	}
	s.logger.Debug("credential added", "username", username)
	return nil
}

// List returns all stored credentials sorted by username.
func (s *Store) List(_ context.Context) ([]auth.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creds, err := s.load()
	if err != nil {
		return nil, err
	}

	usernames := make([]string, 0, len(creds))
	for username := range creds {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)

	out := make([]auth.Credential, 0, len(usernames))
	for _, username := range usernames {
		out = append(out, auth.Credential{Username: username, SecretDigest: creds[username]})
	}
	return out, nil
}

// load reads and parses the durable representation. Callers must hold mu.
func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, oops.Code("STORE_UNAVAILABLE").
			With("path", s.path).
			With("cause", err.Error()).
			Wrap(auth.ErrStoreUnavailable)
	}

	var creds map[string]string
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, oops.Code("STORE_CORRUPT").
			With("path", s.path).
			With("cause", err.Error()).
			Wrap(auth.ErrStoreCorrupt)
	}
	if creds == nil {
		creds = make(map[string]string)
	}
	return creds, nil
}

// loadOrEmpty is load, except a missing file yields an empty mapping.
func (s *Store) loadOrEmpty() (map[string]string, error) {
	creds, err := s.load()
	if err != nil && errors.Is(err, auth.ErrStoreUnavailable) {
		if _, statErr := os.Stat(s.path); errors.Is(statErr, fs.ErrNotExist) {
			return make(map[string]string), nil
		}
	}
	return creds, err
}

// save atomically replaces the durable representation. Callers must hold
// mu for writing.
func (s *Store) save(creds map[string]string) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return oops.Code("STORE_SAVE_FAILED").
			With("operation", "marshal credentials").
			Wrap(err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return oops.Code("STORE_UNAVAILABLE").
			With("path", tmp).
			With("cause", err.Error()).
			Wrap(auth.ErrStoreUnavailable)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		// Best effort: don't leave the temp file behind.
		_ = os.Remove(tmp) //nolint:errcheck // cleanup only
		return oops.Code("STORE_UNAVAILABLE").
			With("path", s.path).
			With("cause", err.Error()).
			Wrap(auth.ErrStoreUnavailable)
	}
	return nil
}

// EnsureParentDir creates the directory holding path so a first save
// can succeed on a fresh machine.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return oops.Code("STORE_UNAVAILABLE").
			With("path", dir).
			With("cause", err.Error()).
			Wrap(auth.ErrStoreUnavailable)
	}
	return nil
}
