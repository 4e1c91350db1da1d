// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

// Package postgres implements the task repository on PostgreSQL.
package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/tasklight/tasklight/internal/task"
)

// DB is the subset of pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TaskRepository implements task.Repository using PostgreSQL.
type TaskRepository struct {
	db DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create stores a new task.
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tasks (id, text, user_id, created_at)
		VALUES ($1, $2, $3, $4)
	`,
		t.ID.String(),
		t.Text,
		t.UserID.String(),
		t.CreatedAt,
	)
	if err != nil {
		return oops.Code("TASK_CREATE_FAILED").
			With("operation", "insert task").
			With("user_id", t.UserID.String()).
			Wrap(err)
	}
	return nil
}

// ListByUser returns a user's tasks, oldest first. ULIDs sort
// lexicographically by creation time, so ordering by id is ordering by
// insertion.
func (r *TaskRepository) ListByUser(ctx context.Context, userID ulid.ULID, offset, limit int) ([]*task.Task, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, text, user_id, created_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY id
		OFFSET $2 LIMIT $3
	`, userID.String(), offset, limit)
	if err != nil {
		return nil, oops.Code("TASK_LIST_FAILED").
			With("operation", "query tasks").
			With("user_id", userID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		var (
			idStr     string
			text      string
			ownerStr  string
			createdAt time.Time
		)
		if err := rows.Scan(&idStr, &text, &ownerStr, &createdAt); err != nil {
			return nil, oops.Code("TASK_SCAN_FAILED").
				With("operation", "scan task row").
				Wrap(err)
		}
		id, err := ulid.Parse(idStr)
		if err != nil {
			return nil, oops.Code("TASK_INVALID_ID").
				With("id", idStr).
				Wrap(err)
		}
		owner, err := ulid.Parse(ownerStr)
		if err != nil {
			return nil, oops.Code("TASK_INVALID_OWNER_ID").
				With("user_id", ownerStr).
				Wrap(err)
		}
		tasks = append(tasks, &task.Task{ID: id, Text: text, UserID: owner, CreatedAt: createdAt})
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("TASK_LIST_FAILED").
			With("operation", "iterate tasks").
			Wrap(err)
	}
	return tasks, nil
}

// Delete removes a task owned by the given user. The owner check lives
// in the WHERE clause so a foreign task and a missing task are the same
// ErrNotFound.
func (r *TaskRepository) Delete(ctx context.Context, id, userID ulid.ULID) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM tasks WHERE id = $1 AND user_id = $2
	`, id.String(), userID.String())
	if err != nil {
		return oops.Code("TASK_DELETE_FAILED").
			With("operation", "delete task").
			With("task_id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TASK_NOT_FOUND").
			With("task_id", id.String()).
			Wrap(task.ErrNotFound)
	}
	return nil
}

var _ task.Repository = (*TaskRepository)(nil)
