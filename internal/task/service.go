// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

package task

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// DefaultListLimit caps a task listing when the caller does not specify one.
const DefaultListLimit = 100

// Service provides task operations scoped to an owning user. Ownership
// is enforced at the repository query level, never by trusting a
// caller-supplied task.
type Service struct {
	tasks Repository
}

// NewService creates a Service.
func NewService(tasks Repository) (*Service, error) {
	if tasks == nil {
		return nil, oops.Code("TASK_NIL_DEPENDENCY").Errorf("tasks repository is required")
	}
	return &Service{tasks: tasks}, nil
}

// Add creates a task for the given user.
func (s *Service) Add(ctx context.Context, userID ulid.ULID, text string) (*Task, error) {
	t, err := NewTask(userID, text)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, oops.Code("TASK_CREATE_FAILED").
			With("operation", "create task").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return t, nil
}

// List returns the user's tasks, oldest first.
func (s *Service) List(ctx context.Context, userID ulid.ULID) ([]*Task, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID, 0, DefaultListLimit)
	if err != nil {
		return nil, oops.Code("TASK_LIST_FAILED").
			With("operation", "list tasks").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return tasks, nil
}

// Remove deletes one of the user's tasks. Deleting another user's task
// is indistinguishable from deleting a nonexistent one.
func (s *Service) Remove(ctx context.Context, id, userID ulid.ULID) error {
	if err := s.tasks.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("TASK_NOT_FOUND").
				With("task_id", id.String()).
				Wrap(ErrNotFound)
		}
		return oops.Code("TASK_DELETE_FAILED").
			With("operation", "delete task").
			With("task_id", id.String()).
			Wrap(err)
	}
	return nil
}
