// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

// Package task provides the todo-item domain for TaskLight.
package task

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// MaxTextLength bounds a task's text field.
const MaxTextLength = 500

// ErrNotFound is returned when a requested task does not exist or is
// owned by another user.
var ErrNotFound = errors.New("task not found")

// ErrInvalidTask is the sentinel under every validation failure from
// NewTask, so callers can separate bad input from storage failures with
// errors.Is.
var ErrInvalidTask = errors.New("invalid task")

// Task is a single todo item owned by a user.
type Task struct {
	ID        ulid.ULID
	Text      string
	UserID    ulid.ULID
	CreatedAt time.Time
}

// NewTask creates a validated Task with a fresh random ID.
func NewTask(userID ulid.ULID, text string) (*Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, oops.Code("TASK_INVALID_TEXT").Wrapf(ErrInvalidTask, "task text cannot be empty")
	}
	if len(text) > MaxTextLength {
		return nil, oops.Code("TASK_INVALID_TEXT").
			With("max", MaxTextLength).
			Wrapf(ErrInvalidTask, "task text must be at most %d characters", MaxTextLength)
	}
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("TASK_INVALID_OWNER").Wrapf(ErrInvalidTask, "task owner cannot be zero")
	}
	return &Task{
		ID:        ulid.Make(),
		Text:      text,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Repository manages task persistence.
type Repository interface {
	// Create stores a new task.
	Create(ctx context.Context, task *Task) error

	// ListByUser returns a user's tasks, oldest first.
	ListByUser(ctx context.Context, userID ulid.ULID, offset, limit int) ([]*Task, error)

	// Delete removes a task owned by the given user. Returns ErrNotFound
	// if no such task exists for that owner.
	Delete(ctx context.Context, id, userID ulid.ULID) error
}
