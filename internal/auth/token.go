// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// DefaultSessionTTL is the validity duration of a session token from issuance.
const DefaultSessionTTL = 60 * time.Minute

// TokenIssuer mints and resolves stateless session tokens. A token is an
// HS256-signed claim set carrying the subject username and an absolute
// expiry; validity is re-derived from signature and expiry on every
// request, never looked up in a store. There is no revocation: a token
// stops working only when it expires.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer. The secret must be non-empty;
// an unsigned or trivially-forgeable token is worse than failing at startup.
func NewTokenIssuer(secret []byte) (*TokenIssuer, error) {
	return NewTokenIssuerWithClock(secret, time.Now)
}

// NewTokenIssuerWithClock creates a TokenIssuer with an injectable clock.
// Useful for testing expiry with deterministic time values.
func NewTokenIssuerWithClock(secret []byte, clock func() time.Time) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, oops.Code("AUTH_EMPTY_SECRET").Errorf("signing secret cannot be empty")
	}
	if clock == nil {
		return nil, oops.Code("AUTH_NIL_CLOCK").Errorf("clock is required")
	}
	return &TokenIssuer{secret: secret, now: clock}, nil
}

// Issue produces a signed token binding the subject username until now+ttl.
func (i *TokenIssuer) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", oops.Code("SESSION_INVALID_SUBJECT").Errorf("token subject cannot be empty")
	}
	if ttl <= 0 {
		return "", oops.Code("SESSION_INVALID_TTL").With("ttl", ttl).Errorf("token ttl must be positive")
	}

	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", oops.Code("SESSION_SIGN_FAILED").
			With("subject", subject).
			Wrap(err)
	}
	return signed, nil
}

// Resolve returns the subject username of a valid token. Forged,
// malformed, and expired tokens all fail with ErrNotAuthenticated;
// callers cannot tell the cases apart.
func (i *TokenIssuer) Resolve(token string) (string, error) {
	if token == "" {
		return "", oops.Code("SESSION_INVALID").Wrap(ErrNotAuthenticated)
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", oops.Code("SESSION_INVALID").Wrap(ErrNotAuthenticated)
	}
	return claims.Subject, nil
}
