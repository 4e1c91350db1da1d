// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/tasklight/tasklight/internal/auth"
	authpg "github.com/tasklight/tasklight/internal/auth/postgres"
	"github.com/tasklight/tasklight/internal/config"
	"github.com/tasklight/tasklight/internal/seed"
	"github.com/tasklight/tasklight/internal/store"
	"github.com/tasklight/tasklight/internal/task"
	taskpg "github.com/tasklight/tasklight/internal/task/postgres"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	file    string
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo users and tasks from a YAML file",
		Long: `Registers the users and tasks in a seed YAML file.
This command is idempotent - users that already exist are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.file, "file", "seeds.yaml", "path to seed YAML file")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, cfg *seedConfig) error {
	databaseURL := os.Getenv(config.EnvDatabaseURL)
	if databaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("%s environment variable is required", config.EnvDatabaseURL)
	}
	secretKey := os.Getenv(config.EnvSecretKey)
	if secretKey == "" {
		return oops.Code("CONFIG_INVALID").Errorf("%s environment variable is required", config.EnvSecretKey)
	}

	f, err := seed.Load(cfg.file)
	if err != nil {
		return err
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	cmd.Println("Running migrations...")
	if err := applyMigrations(databaseURL); err != nil {
		return err
	}

	issuer, err := auth.NewTokenIssuer([]byte(secretKey))
	if err != nil {
		return err
	}
	authSvc, err := auth.NewService(authpg.NewUserRepository(pool), auth.NewArgon2idHasher(), issuer, 0)
	if err != nil {
		return err
	}
	taskSvc, err := task.NewService(taskpg.NewTaskRepository(pool))
	if err != nil {
		return err
	}

	applier, err := seed.NewApplier(authSvc, taskSvc, slog.Default())
	if err != nil {
		return err
	}

	sum, err := applier.Apply(ctx, f)
	if err != nil {
		return err
	}

	cmd.Printf("Seeding complete: %d users created, %d skipped, %d tasks created\n",
		sum.UsersCreated, sum.UsersSkipped, sum.TasksCreated)
	return nil
}
