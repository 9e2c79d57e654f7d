// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"
)

// LoginOutcome identifies the result of a login attempt.
type LoginOutcome int

const (
	// LoginSuccess means the credentials matched.
	LoginSuccess LoginOutcome = iota

	// LoginInvalidCredentials means the username or secret was wrong.
	LoginInvalidCredentials

	// LoginLockedOut means the session is cooling down and the store was
	// not consulted.
	LoginLockedOut
)

// LoginResult is the outcome of a single login attempt.
// Exactly one of the detail fields is meaningful per outcome.
type LoginResult struct {
	Outcome LoginOutcome

	// Username is set on LoginSuccess.
	Username string

	// AttemptsRemaining is set on LoginInvalidCredentials.
	AttemptsRemaining int

	// RetryAfter is set on LoginLockedOut.
	RetryAfter time.Duration
}

// LoginService orchestrates login attempts: it consults the lockout gate
// first, then the credential store, and feeds the result back into the
// gate. The store is never mutated during login.
type LoginService struct {
	creds  CredentialVerifier
	gate   *Gate
	logger *slog.Logger
}

// NewLoginService creates a LoginService with a no-op logger.
// Returns an error if any required dependency is nil.
func NewLoginService(creds CredentialVerifier, gate *Gate) (*LoginService, error) {
	if creds == nil {
		return nil, oops.Errorf("credential verifier is required")
	}
	if gate == nil {
		return nil, oops.Errorf("lockout gate is required")
	}
	return &LoginService{
		creds:  creds,
		gate:   gate,
		logger: slog.New(slog.DiscardHandler),
	}, nil
}

// NewLoginServiceWithLogger creates a LoginService with the provided logger.
// Returns an error if any required dependency is nil.
func NewLoginServiceWithLogger(creds CredentialVerifier, gate *Gate, logger *slog.Logger) (*LoginService, error) {
	svc, err := NewLoginService(creds, gate)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	svc.logger = logger
	return svc, nil
}

// Attempt evaluates one login attempt.
//
// While the gate is locked the credential store is not consulted at all:
// no digest is computed and no file is read. Store failures surface as
// errors; the three legitimate outcomes arrive as a LoginResult.
func (s *LoginService) Attempt(ctx context.Context, username, secret string) (LoginResult, error) {
	if st := s.gate.Status(); st.State == GateLocked {
		loginAttempts.WithLabelValues(outcomeLockedOut).Inc()
		s.logger.Debug("login attempt rejected while locked",
			"retry_after", st.Remaining)
		return LoginResult{Outcome: LoginLockedOut, RetryAfter: st.Remaining}, nil
	}

	ok, err := s.creds.Verify(ctx, username, secret)
	if err != nil {
		return LoginResult{}, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify credentials").
			Wrap(err)
	}

	if ok {
		s.gate.RecordSuccess()
		loginAttempts.WithLabelValues(outcomeSuccess).Inc()
		s.logger.Info("login succeeded", "username", username)
		return LoginResult{Outcome: LoginSuccess, Username: username}, nil
	}

	res := s.gate.RecordFailure()
	if res.LockedOut {
		loginAttempts.WithLabelValues(outcomeLockedOut).Inc()
		lockouts.Inc()
		s.logger.Warn("session locked after repeated login failures",
			"retry_after", res.RetryAfter)
		return LoginResult{Outcome: LoginLockedOut, RetryAfter: res.RetryAfter}, nil
	}

	loginAttempts.WithLabelValues(outcomeInvalidCredentials).Inc()
	s.logger.Info("login failed", "attempts_remaining", res.AttemptsRemaining)
	return LoginResult{Outcome: LoginInvalidCredentials, AttemptsRemaining: res.AttemptsRemaining}, nil
}
