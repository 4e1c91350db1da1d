// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklight/tasklight/internal/task"
	"github.com/tasklight/tasklight/internal/task/postgres"
)

// seedOwner inserts a user row so tasks have a valid owner to reference.
func seedOwner(t *testing.T) ulid.ULID {
	t.Helper()
	ctx := context.Background()
	id := ulid.Make()

	_, err := testPool.Exec(ctx, `
		INSERT INTO users (id, username, email, name, password_hash, created_at)
		VALUES ($1, $2, $3, '', 'hash', now())
	`, id.String(), fmt.Sprintf("owner_%s", id.String()), fmt.Sprintf("%s@example.com", id.String()))
	require.NoError(t, err)

	t.Cleanup(func() {
		// Tasks cascade with the owner.
		_, _ = testPool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id.String())
	})
	return id
}

func seedTask(t *testing.T, owner ulid.ULID, text string) *task.Task {
	t.Helper()
	tk := &task.Task{
		ID:        ulid.Make(),
		Text:      text,
		UserID:    owner,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	repo := postgres.NewTaskRepository(testPool)
	require.NoError(t, repo.Create(context.Background(), tk))
	return tk
}

func TestTaskRepository_Create(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewTaskRepository(testPool)

	t.Run("creates and retrieves a task", func(t *testing.T) {
		owner := seedOwner(t)
		created := seedTask(t, owner, "buy milk")

		tasks, err := repo.ListByUser(ctx, owner, 0, 100)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, created.ID, tasks[0].ID)
		assert.Equal(t, "buy milk", tasks[0].Text)
		assert.Equal(t, owner, tasks[0].UserID)
		assert.True(t, created.CreatedAt.Equal(tasks[0].CreatedAt))
	})

	t.Run("fails for unknown owner", func(t *testing.T) {
		orphan := &task.Task{
			ID:        ulid.Make(),
			Text:      "no owner",
			UserID:    ulid.Make(),
			CreatedAt: time.Now().UTC(),
		}
		err := repo.Create(ctx, orphan)
		assert.Error(t, err, "foreign key on user_id should reject the insert")
	})
}

func TestTaskRepository_ListByUser(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewTaskRepository(testPool)

	t.Run("returns tasks oldest first", func(t *testing.T) {
		owner := seedOwner(t)
		first := seedTask(t, owner, "first")
		second := seedTask(t, owner, "second")
		third := seedTask(t, owner, "third")

		tasks, err := repo.ListByUser(ctx, owner, 0, 100)
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		assert.Equal(t, first.ID, tasks[0].ID)
		assert.Equal(t, second.ID, tasks[1].ID)
		assert.Equal(t, third.ID, tasks[2].ID)
	})

	t.Run("applies offset and limit", func(t *testing.T) {
		owner := seedOwner(t)
		seedTask(t, owner, "one")
		two := seedTask(t, owner, "two")
		seedTask(t, owner, "three")

		tasks, err := repo.ListByUser(ctx, owner, 1, 1)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, two.ID, tasks[0].ID)
	})

	t.Run("scopes results to the owner", func(t *testing.T) {
		alice := seedOwner(t)
		bob := seedOwner(t)
		mine := seedTask(t, alice, "alice task")
		seedTask(t, bob, "bob task")

		tasks, err := repo.ListByUser(ctx, alice, 0, 100)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, mine.ID, tasks[0].ID)
	})

	t.Run("returns empty list for user with no tasks", func(t *testing.T) {
		owner := seedOwner(t)

		tasks, err := repo.ListByUser(ctx, owner, 0, 100)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})
}

func TestTaskRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewTaskRepository(testPool)

	t.Run("deletes an owned task", func(t *testing.T) {
		owner := seedOwner(t)
		tk := seedTask(t, owner, "delete me")

		require.NoError(t, repo.Delete(ctx, tk.ID, owner))

		tasks, err := repo.ListByUser(ctx, owner, 0, 100)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("returns ErrNotFound for a foreign task", func(t *testing.T) {
		alice := seedOwner(t)
		bob := seedOwner(t)
		tk := seedTask(t, alice, "alice only")

		err := repo.Delete(ctx, tk.ID, bob)
		assert.ErrorIs(t, err, task.ErrNotFound)

		// The task survives the attempt.
		tasks, err := repo.ListByUser(ctx, alice, 0, 100)
		require.NoError(t, err)
		assert.Len(t, tasks, 1)
	})

	t.Run("returns ErrNotFound for a missing task", func(t *testing.T) {
		owner := seedOwner(t)
		err := repo.Delete(ctx, ulid.Make(), owner)
		assert.ErrorIs(t, err, task.ErrNotFound)
	})

	t.Run("owner delete cascades to tasks", func(t *testing.T) {
		owner := seedOwner(t)
		tk := seedTask(t, owner, "cascade me")

		_, err := testPool.Exec(ctx, `DELETE FROM users WHERE id = $1`, owner.String())
		require.NoError(t, err)

		err = repo.Delete(ctx, tk.ID, owner)
		assert.ErrorIs(t, err, task.ErrNotFound)
	})
}
