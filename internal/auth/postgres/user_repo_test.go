// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklight/tasklight/internal/auth"
	"github.com/tasklight/tasklight/internal/auth/postgres"
)

const testHash = "$argon2id$v=19$m=65536,t=1,p=4$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g"

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *postgres.UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, postgres.NewUserRepository(mock)
}

func testUser(t *testing.T) *auth.User {
	t.Helper()
	user, err := auth.NewUser("alice", "alice@example.com", "Alice", testHash)
	require.NoError(t, err)
	return user
}

func userRow(u *auth.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "username", "email", "name", "password_hash", "created_at"}).
		AddRow(u.ID.String(), u.Username, u.Email, u.Name, u.PasswordHash, u.CreatedAt)
}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts user", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		user := testUser(t)

		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(user.ID.String(), user.Username, user.Email, user.Name, user.PasswordHash, user.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.Create(ctx, user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to duplicate credential", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		user := testUser(t)

		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(user.ID.String(), user.Username, user.Email, user.Name, user.PasswordHash, user.CreatedAt).
			WillReturnError(&pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: "users_username_key",
			})

		err := repo.Create(ctx, user)
		assert.ErrorIs(t, err, auth.ErrDuplicateCredential)
	})

	t.Run("other database errors are not duplicates", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		user := testUser(t)

		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(user.ID.String(), user.Username, user.Email, user.Name, user.PasswordHash, user.CreatedAt).
			WillReturnError(errors.New("connection refused"))

		err := repo.Create(ctx, user)
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrDuplicateCredential)
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stored user", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		user := testUser(t)

		mock.ExpectQuery(`SELECT id, username, email, name, password_hash, created_at\s+FROM users\s+WHERE id`).
			WithArgs(user.ID.String()).
			WillReturnRows(userRow(user))

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.Username, got.Username)
		assert.Equal(t, user.PasswordHash, got.PasswordHash)
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		id := ulid.Make()

		mock.ExpectQuery(`SELECT id, username, email, name, password_hash, created_at\s+FROM users\s+WHERE id`).
			WithArgs(id.String()).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})

	t.Run("corrupt id column fails", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		id := ulid.Make()

		rows := pgxmock.NewRows([]string{"id", "username", "email", "name", "password_hash", "created_at"}).
			AddRow("not-a-ulid", "alice", "alice@example.com", "Alice", testHash, time.Now())
		mock.ExpectQuery(`SELECT id, username, email, name, password_hash, created_at\s+FROM users\s+WHERE id`).
			WithArgs(id.String()).
			WillReturnRows(rows)

		_, err := repo.GetByID(ctx, id)
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrNotFound)
	})
}

func TestUserRepository_GetByUsername(t *testing.T) {
	ctx := context.Background()

	t.Run("matches case-insensitively at the query level", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		user := testUser(t)

		mock.ExpectQuery(`WHERE LOWER\(username\) = LOWER\(\$1\)`).
			WithArgs("ALICE").
			WillReturnRows(userRow(user))

		got, err := repo.GetByUsername(ctx, "ALICE")
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		mock, repo := newMockRepo(t)

		mock.ExpectQuery(`WHERE LOWER\(username\) = LOWER\(\$1\)`).
			WithArgs("nobody").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stored user", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		user := testUser(t)

		mock.ExpectQuery(`WHERE LOWER\(email\) = LOWER\(\$1\)`).
			WithArgs(user.Email).
			WillReturnRows(userRow(user))

		got, err := repo.GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.Email, got.Email)
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		mock, repo := newMockRepo(t)

		mock.ExpectQuery(`WHERE LOWER\(email\) = LOWER\(\$1\)`).
			WithArgs("nobody@example.com").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})
}
