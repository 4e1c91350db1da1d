// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

package seed

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/tasklight/tasklight/internal/auth"
	"github.com/tasklight/tasklight/internal/task"
)

// Summary reports what an Apply run did.
type Summary struct {
	UsersCreated int
	UsersSkipped int
	TasksCreated int
}

// Applier inserts seed data through the regular services, so seeded
// accounts get real password hashes and validated tasks.
type Applier struct {
	auth   *auth.Service
	tasks  *task.Service
	logger *slog.Logger
}

// NewApplier creates an Applier.
func NewApplier(authSvc *auth.Service, taskSvc *task.Service, logger *slog.Logger) (*Applier, error) {
	if authSvc == nil {
		return nil, oops.Code("SEED_NIL_DEPENDENCY").Errorf("auth service is required")
	}
	if taskSvc == nil {
		return nil, oops.Code("SEED_NIL_DEPENDENCY").Errorf("task service is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Applier{auth: authSvc, tasks: taskSvc, logger: logger}, nil
}

// Apply registers every seed user and their tasks. It is idempotent:
// an already-registered user is skipped whole, tasks included, keyed on
// the store's unique credential constraints rather than a pre-check.
func (a *Applier) Apply(ctx context.Context, f *File) (*Summary, error) {
	if f == nil {
		return nil, oops.Code("SEED_INVALID").Errorf("seed file is nil")
	}

	sum := &Summary{}
	for _, su := range f.Users {
		user, err := a.auth.Register(ctx, su.Username, su.Email, su.Name, su.Password)
		if err != nil {
			if errors.Is(err, auth.ErrDuplicateCredential) {
				a.logger.Info("seed user already exists, skipping", "username", su.Username)
				sum.UsersSkipped++
				continue
			}
			return sum, oops.Code("SEED_APPLY_FAILED").
				With("username", su.Username).
				Wrap(err)
		}
		sum.UsersCreated++

		for _, text := range su.Tasks {
			if _, err := a.tasks.Add(ctx, user.ID, text); err != nil {
				return sum, oops.Code("SEED_APPLY_FAILED").
					With("username", su.Username).
					With("task", text).
					Wrap(err)
			}
			sum.TasksCreated++
		}
	}

	a.logger.Info("seed applied",
		"users_created", sum.UsersCreated,
		"users_skipped", sum.UsersSkipped,
		"tasks_created", sum.TasksCreated,
	)
	return sum, nil
}
