// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/tasklight/tasklight/internal/seed"
)

// NewValidateSeedsCmd creates the validate-seeds subcommand.
func NewValidateSeedsCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate-seeds",
		Short: "Validate a seed file without touching the database",
		Long: `Validates a seed YAML file against the seed schema.
Does NOT start the server or require a database connection.
Exits with code 0 on success, non-zero on failure.

Useful in CI pipelines to catch seed file errors early:
  tasklight validate-seeds --file seeds.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := seed.Load(file)
			if err != nil {
				return err
			}
			cmd.Printf("Seed file valid: %d users\n", len(f.Users))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "seeds.yaml", "path to seed YAML file")

	return cmd
}
