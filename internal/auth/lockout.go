// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

package auth

import (
	"sync"
	"time"
)

// Lockout policy defaults.
const (
	// DefaultMaxAttempts is the number of consecutive failures that
	// triggers a lockout.
	DefaultMaxAttempts = 3

	// DefaultCooldown is the time a session stays locked after too many
	// failures.
	DefaultCooldown = 10 * time.Second
)

// GateState identifies the state of the lockout machine.
type GateState int

const (
	// GateActive allows login attempts to proceed.
	GateActive GateState = iota

	// GateLocked rejects login attempts until the cooldown elapses.
	GateLocked
)

// GateStatus is the result of consulting the gate before an attempt.
type GateStatus struct {
	State GateState

	// Remaining is the time until the lockout lifts. Zero when Active.
	Remaining time.Duration
}

// FailureResult describes the transition taken by RecordFailure.
type FailureResult struct {
	// LockedOut is true when this failure exhausted the attempt budget
	// (or the gate was already locked).
	LockedOut bool

	// AttemptsRemaining is the number of attempts left. Valid only when
	// LockedOut is false.
	AttemptsRemaining int

	// RetryAfter is the time until the lockout lifts. Valid only when
	// LockedOut is true.
	RetryAfter time.Duration
}

// Gate tracks consecutive login failures for one session and enforces a
// cooldown once the attempt budget is exhausted.
//
// Expiry is lazy: the Locked -> Active transition happens on the next
// Status, RecordFailure, or RecordSuccess call after the cooldown, not on
// a background timer. A session that never attempts again simply stays
// locked, which is observably equivalent.
//
// A Gate is scoped to a single session. A multi-user server must key one
// Gate per user so one user's lockout never affects another's.
type Gate struct {
	mu          sync.Mutex
	maxAttempts int
	cooldown    time.Duration
	now         func() time.Time

	failed      int
	lockedUntil time.Time
}

// NewGate creates a Gate with the given policy. Non-positive values fall
// back to the defaults.
func NewGate(maxAttempts int, cooldown time.Duration) *Gate {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Gate{
		maxAttempts: maxAttempts,
		cooldown:    cooldown,
		now:         time.Now,
	}
}

// WithClock overrides the gate's time source and returns the gate.
// Test seam; production code uses the wall clock.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
	return g
}

// Status reports the current state, lifting an expired lockout first.
func (g *Gate) Status() GateStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expireLocked()

	if !g.lockedUntil.IsZero() {
		return GateStatus{State: GateLocked, Remaining: g.lockedUntil.Sub(g.now())}
	}
	return GateStatus{State: GateActive}
}

// RecordFailure registers a failed attempt and returns the transition
// taken. Once the attempt budget is exhausted the gate locks for the
// configured cooldown.
func (g *Gate) RecordFailure() FailureResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expireLocked()

	if !g.lockedUntil.IsZero() {
		return FailureResult{LockedOut: true, RetryAfter: g.lockedUntil.Sub(g.now())}
	}

	g.failed++
	if g.failed >= g.maxAttempts {
		g.lockedUntil = g.now().Add(g.cooldown)
		return FailureResult{LockedOut: true, RetryAfter: g.cooldown}
	}
	return FailureResult{AttemptsRemaining: g.maxAttempts - g.failed}
}

// RecordSuccess resets the failure counter regardless of prior count.
// No-op while locked: a success cannot shorten an active lockout.
func (g *Gate) RecordSuccess() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expireLocked()

	if !g.lockedUntil.IsZero() {
		return
	}
	g.failed = 0
}

// expireLocked lifts the lockout once the cooldown has passed, resetting
// the failure counter. Callers must hold mu.
func (g *Gate) expireLocked() {
	if !g.lockedUntil.IsZero() && !g.now().Before(g.lockedUntil) {
		g.failed = 0
		g.lockedUntil = time.Time{}
	}
}
