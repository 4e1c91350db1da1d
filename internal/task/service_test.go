// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

package task_test

import (
	"context"
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklight/tasklight/internal/task"
	"github.com/tasklight/tasklight/internal/task/tasktest"
	"github.com/tasklight/tasklight/pkg/errutil"
)

// failingRepository errors on every call, for exercising error paths.
type failingRepository struct {
	err error
}

func (f *failingRepository) Create(context.Context, *task.Task) error { return f.err }
func (f *failingRepository) ListByUser(context.Context, ulid.ULID, int, int) ([]*task.Task, error) {
	return nil, f.err
}
func (f *failingRepository) Delete(context.Context, ulid.ULID, ulid.ULID) error { return f.err }

func TestNewService(t *testing.T) {
	t.Run("creates service", func(t *testing.T) {
		svc, err := task.NewService(tasktest.NewMemoryRepository())
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("rejects nil repository", func(t *testing.T) {
		_, err := task.NewService(nil)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TASK_NIL_DEPENDENCY")
	})
}

func TestService_Add(t *testing.T) {
	ctx := context.Background()
	owner := ulid.Make()

	t.Run("adds a task", func(t *testing.T) {
		repo := tasktest.NewMemoryRepository()
		svc, err := task.NewService(repo)
		require.NoError(t, err)

		created, err := svc.Add(ctx, owner, "buy milk")
		require.NoError(t, err)
		assert.Equal(t, "buy milk", created.Text)

		tasks, err := svc.List(ctx, owner)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, created.ID, tasks[0].ID)
	})

	t.Run("rejects invalid text before touching the repository", func(t *testing.T) {
		svc, err := task.NewService(&failingRepository{err: errors.New("must not be called")})
		require.NoError(t, err)

		_, err = svc.Add(ctx, owner, "   ")
		require.Error(t, err)
		assert.ErrorIs(t, err, task.ErrInvalidTask)
		errutil.AssertErrorCode(t, err, "TASK_INVALID_TEXT")
	})

	t.Run("repository failures are not validation errors", func(t *testing.T) {
		svc, err := task.NewService(&failingRepository{err: errors.New("connection lost")})
		require.NoError(t, err)

		_, err = svc.Add(ctx, owner, "buy milk")
		require.Error(t, err)
		assert.NotErrorIs(t, err, task.ErrInvalidTask)
	})

	t.Run("wraps repository failures", func(t *testing.T) {
		svc, err := task.NewService(&failingRepository{err: errors.New("connection lost")})
		require.NoError(t, err)

		_, err = svc.Add(ctx, owner, "buy milk")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TASK_CREATE_FAILED")
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns tasks oldest first", func(t *testing.T) {
		repo := tasktest.NewMemoryRepository()
		svc, err := task.NewService(repo)
		require.NoError(t, err)
		owner := ulid.Make()

		first, err := svc.Add(ctx, owner, "first")
		require.NoError(t, err)
		second, err := svc.Add(ctx, owner, "second")
		require.NoError(t, err)

		tasks, err := svc.List(ctx, owner)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, first.ID, tasks[0].ID)
		assert.Equal(t, second.ID, tasks[1].ID)
	})

	t.Run("scopes tasks to the owner", func(t *testing.T) {
		repo := tasktest.NewMemoryRepository()
		svc, err := task.NewService(repo)
		require.NoError(t, err)
		alice := ulid.Make()
		bob := ulid.Make()

		_, err = svc.Add(ctx, alice, "alice task")
		require.NoError(t, err)
		_, err = svc.Add(ctx, bob, "bob task")
		require.NoError(t, err)

		tasks, err := svc.List(ctx, alice)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "alice task", tasks[0].Text)
	})

	t.Run("returns empty list for unknown owner", func(t *testing.T) {
		svc, err := task.NewService(tasktest.NewMemoryRepository())
		require.NoError(t, err)

		tasks, err := svc.List(ctx, ulid.Make())
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("wraps repository failures", func(t *testing.T) {
		svc, err := task.NewService(&failingRepository{err: errors.New("connection lost")})
		require.NoError(t, err)

		_, err = svc.List(ctx, ulid.Make())
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TASK_LIST_FAILED")
	})
}

func TestService_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("removes an owned task", func(t *testing.T) {
		repo := tasktest.NewMemoryRepository()
		svc, err := task.NewService(repo)
		require.NoError(t, err)
		owner := ulid.Make()

		created, err := svc.Add(ctx, owner, "delete me")
		require.NoError(t, err)

		require.NoError(t, svc.Remove(ctx, created.ID, owner))

		tasks, err := svc.List(ctx, owner)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("foreign task is indistinguishable from missing", func(t *testing.T) {
		repo := tasktest.NewMemoryRepository()
		svc, err := task.NewService(repo)
		require.NoError(t, err)
		alice := ulid.Make()
		bob := ulid.Make()

		created, err := svc.Add(ctx, alice, "alice only")
		require.NoError(t, err)

		foreignErr := svc.Remove(ctx, created.ID, bob)
		missingErr := svc.Remove(ctx, ulid.Make(), bob)

		assert.ErrorIs(t, foreignErr, task.ErrNotFound)
		assert.ErrorIs(t, missingErr, task.ErrNotFound)

		// Alice's task survives the attempt.
		tasks, err := svc.List(ctx, alice)
		require.NoError(t, err)
		assert.Len(t, tasks, 1)
	})

	t.Run("wraps repository failures", func(t *testing.T) {
		svc, err := task.NewService(&failingRepository{err: errors.New("connection lost")})
		require.NoError(t, err)

		err = svc.Remove(ctx, ulid.Make(), ulid.Make())
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TASK_DELETE_FAILED")
	})
}
