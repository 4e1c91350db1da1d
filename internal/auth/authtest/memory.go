// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

// Package authtest provides in-memory test doubles for the auth package.
package authtest

import (
	"context"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/tasklight/tasklight/internal/auth"
)

// MemoryUserRepository is an in-memory auth.UserRepository. It mirrors
// the store-level uniqueness guarantee: Create fails with
// auth.ErrDuplicateCredential on a username or email collision, so flow
// tests exercise the same caught-conflict path as the real store.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[ulid.ULID]*auth.User
}

// NewMemoryUserRepository creates an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[ulid.ULID]*auth.User)}
}

// Create stores a new user, enforcing username/email uniqueness.
func (r *MemoryUserRepository) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return auth.ErrDuplicateCredential
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

// GetByID retrieves a user by ID.
func (r *MemoryUserRepository) GetByID(_ context.Context, id ulid.ULID) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, auth.ErrNotFound
}

// GetByUsername retrieves a user by username (case-insensitive).
func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

// GetByEmail retrieves a user by email (case-insensitive).
func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

// Delete removes a user, for tests that need a vanished token subject.
func (r *MemoryUserRepository) Delete(_ context.Context, id ulid.ULID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

var _ auth.UserRepository = (*MemoryUserRepository)(nil)
