// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

package auth

import "errors"

var (
	// ErrNotFound is returned when a requested user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateCredential is returned when a registration collides
	// with an existing username or email.
	ErrDuplicateCredential = errors.New("username or email already taken")

	// ErrInvalidCredentials is returned for both unknown-user and
	// wrong-password logins. The two cases are deliberately
	// indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNotAuthenticated is returned when a session token is missing,
	// malformed, forged, or expired, or when its subject no longer exists.
	ErrNotAuthenticated = errors.New("not authenticated")
)
