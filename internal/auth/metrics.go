// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rollbook_login_attempts_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	lockouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rollbook_lockouts_total",
		Help: "Sessions locked out after repeated login failures.",
	})

	registrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rollbook_registrations_total",
		Help: "Successful account registrations.",
	})
)

// Metric label values for login outcomes.
const (
	outcomeSuccess            = "success"
	outcomeInvalidCredentials = "invalid_credentials"
	outcomeLockedOut          = "locked_out"
)
