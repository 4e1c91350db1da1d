// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/tasklight/tasklight/internal/auth"
	authpg "github.com/tasklight/tasklight/internal/auth/postgres"
	"github.com/tasklight/tasklight/internal/config"
	"github.com/tasklight/tasklight/internal/logging"
	"github.com/tasklight/tasklight/internal/observability"
	"github.com/tasklight/tasklight/internal/store"
	"github.com/tasklight/tasklight/internal/task"
	taskpg "github.com/tasklight/tasklight/internal/task/postgres"
	"github.com/tasklight/tasklight/internal/web"
	"github.com/tasklight/tasklight/pkg/errutil"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the TaskLight web server",
		Long: `Start the web server. Pending migrations are applied first, then
the HTML interface and the metrics endpoint come up and run until
SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("http-addr", config.DefaultHTTPAddr, "web listen address")
	cmd.Flags().String("metrics-addr", config.DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().Duration("session-ttl", config.DefaultSessionTTL, "session token validity duration")
	cmd.Flags().String("log-format", config.DefaultLogFormat, "log format (json or text)")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.SetDefault("tasklight", version, cfg.LogFormat)

	slog.Info("starting server",
		"http_addr", cfg.HTTPAddr,
		"metrics_addr", cfg.MetricsAddr,
		"session_ttl", cfg.SessionTTL.String(),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	slog.Info("connected to database")

	if err := applyMigrations(cfg.DatabaseURL); err != nil {
		return err
	}

	issuer, err := auth.NewTokenIssuer([]byte(cfg.SecretKey))
	if err != nil {
		return err
	}
	authSvc, err := auth.NewService(authpg.NewUserRepository(pool), auth.NewArgon2idHasher(), issuer, cfg.SessionTTL)
	if err != nil {
		return err
	}
	taskSvc, err := task.NewService(taskpg.NewTaskRepository(pool))
	if err != nil {
		return err
	}

	var (
		obsServer *observability.Server
		obsErrCh  <-chan error
		metrics   *observability.Metrics
	)
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr, func() bool {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Ping(pingCtx) == nil
		})
		metrics = obsServer.Metrics()

		obsErrCh, err = obsServer.Start()
		if err != nil {
			return oops.Code("SERVE_FAILED").With("component", "observability").Wrap(err)
		}
	}

	webServer, err := web.NewServer(cfg.HTTPAddr, authSvc, taskSvc, metrics, slog.Default())
	if err != nil {
		return err
	}
	webErrCh, err := webServer.Start()
	if err != nil {
		return oops.Code("SERVE_FAILED").With("component", "web").Wrap(err)
	}

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case serveErr := <-webErrCh:
		if serveErr != nil {
			errutil.LogError(slog.Default(), "web server failed", serveErr)
		}
	case serveErr := <-obsErrCh:
		if serveErr != nil {
			errutil.LogError(slog.Default(), "observability server failed", serveErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var firstErr error
	if err := webServer.Stop(shutdownCtx); err != nil {
		firstErr = err
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	slog.Info("server stopped")
	return firstErr
}

// applyMigrations brings the schema up to date before serving.
func applyMigrations(databaseURL string) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			errutil.LogError(slog.Default(), "failed to close migrator", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return err
	}

	schemaVersion, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	slog.Info("migrations applied", "version", schemaVersion, "dirty", dirty)
	return nil
}
