// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
)

// dummyPasswordHash is used when a user doesn't exist to prevent timing attacks.
// We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Service orchestrates registration, login, and per-request session checks.
// All configuration (signing secret via the issuer, session TTL) is injected
// at construction; the package holds no process-wide state.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens *TokenIssuer
	ttl    time.Duration
	logger *slog.Logger
}

// NewService creates a Service. A non-positive ttl falls back to
// DefaultSessionTTL.
func NewService(users UserRepository, hasher PasswordHasher, tokens *TokenIssuer, ttl time.Duration) (*Service, error) {
	return NewServiceWithLogger(users, hasher, tokens, ttl, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(users UserRepository, hasher PasswordHasher, tokens *TokenIssuer, ttl time.Duration, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("users repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("token issuer is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("logger is required")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{users: users, hasher: hasher, tokens: tokens, ttl: ttl, logger: logger}, nil
}

// SessionTTL returns the configured token validity duration.
func (s *Service) SessionTTL() time.Duration {
	return s.ttl
}

// Register creates a new credential record. It does not authenticate:
// the caller must subsequently log in.
//
// The username/email lookups are only a fast path for a friendly error.
// The store's unique constraints are the source of truth, so a concurrent
// duplicate registration still loses cleanly with ErrDuplicateCredential
// from Create rather than racing a check-then-insert.
func (s *Service) Register(ctx context.Context, username, email, name, password string) (*User, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, oops.Code("AUTH_DUPLICATE_CREDENTIAL").
			With("field", "username").
			Wrap(ErrDuplicateCredential)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "check username").
			Wrap(err)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, oops.Code("AUTH_DUPLICATE_CREDENTIAL").
			With("field", "email").
			Wrap(ErrDuplicateCredential)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "check email").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(username, email, name, hash)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateCredential) {
			// Lost the race against a concurrent registration; same
			// outcome as the fast path above.
			return nil, oops.Code("AUTH_DUPLICATE_CREDENTIAL").Wrap(ErrDuplicateCredential)
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create user").
			Wrap(err)
	}

	s.logger.Info("user registered", "username", user.Username, "user_id", user.ID.String())
	return user, nil
}

// Login verifies credentials and mints a session token bound to the
// username. Unknown-user and wrong-password both return
// ErrInvalidCredentials; a dummy hash is verified for unknown users so
// the two paths stay timing-comparable.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, lookupErr := s.users.GetByUsername(ctx, username)

	targetHash := dummyPasswordHash
	userExists := false
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by username").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return "", oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
		}
		return "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists || !valid {
		return "", oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.Username, s.ttl)
	if err != nil {
		return "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue session token").
			Wrap(err)
	}

	s.logger.Info("user logged in", "username", user.Username)
	return token, nil
}

// Authenticate resolves a session token and materializes the current
// User. The re-fetch per request is deliberate: the token stays
// stateless while responses always reflect the latest stored profile,
// and a deleted user's outstanding tokens become worthless immediately.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	username, err := s.tokens.Resolve(token)
	if err != nil {
		return nil, oops.Code("SESSION_INVALID").Wrap(ErrNotAuthenticated)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("SESSION_INVALID").
				With("reason", "subject no longer exists").
				Wrap(ErrNotAuthenticated)
		}
		return nil, oops.Code("SESSION_CHECK_FAILED").
			With("operation", "get user by username").
			Wrap(err)
	}
	return user, nil
}
