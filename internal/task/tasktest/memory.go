// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

// Package tasktest provides an in-memory task repository for tests.
package tasktest

import (
	"context"
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/tasklight/tasklight/internal/task"
)

// MemoryRepository is a mutex-guarded in-memory task.Repository.
type MemoryRepository struct {
	mu    sync.Mutex
	tasks map[ulid.ULID]*task.Task
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tasks: make(map[ulid.ULID]*task.Task)}
}

// Create stores a task.
func (r *MemoryRepository) Create(_ context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *t
	r.tasks[t.ID] = &clone
	return nil
}

// ListByUser returns the user's tasks ordered by ID, oldest first.
func (r *MemoryRepository) ListByUser(_ context.Context, userID ulid.ULID, offset, limit int) ([]*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var owned []*task.Task
	for _, t := range r.tasks {
		if t.UserID == userID {
			clone := *t
			owned = append(owned, &clone)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].ID.Compare(owned[j].ID) < 0
	})

	if offset >= len(owned) {
		return nil, nil
	}
	owned = owned[offset:]
	if limit > 0 && limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, nil
}

// Delete removes a task owned by userID. Missing and foreign tasks both
// return task.ErrNotFound.
func (r *MemoryRepository) Delete(_ context.Context, id, userID ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return task.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

var _ task.Repository = (*MemoryRepository)(nil)
