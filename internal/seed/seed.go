// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

// Package seed loads demo users and tasks from a YAML file and applies
// them idempotently.
package seed

import (
	"os"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// File is the root of a seed YAML document.
type File struct {
	Users []User `yaml:"users" json:"users"`
}

// User describes one account to create, with its initial tasks. The
// password is hashed on insert; seed files are for demo data only and
// must never carry production credentials.
type User struct {
	Username string   `yaml:"username" json:"username" jsonschema:"minLength=3,maxLength=30"`
	Email    string   `yaml:"email" json:"email" jsonschema:"format=email"`
	Name     string   `yaml:"name,omitempty" json:"name,omitempty"`
	Password string   `yaml:"password" json:"password" jsonschema:"minLength=1"`
	Tasks    []string `yaml:"tasks,omitempty" json:"tasks,omitempty"`
}

// Load reads and validates a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is operator-supplied
	if err != nil {
		return nil, oops.Code("SEED_READ_FAILED").With("path", path).Wrap(err)
	}

	if err := ValidateSchema(data); err != nil {
		return nil, oops.Code("SEED_INVALID").With("path", path).Wrap(err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, oops.Code("SEED_INVALID").With("path", path).Wrap(err)
	}
	return &f, nil
}
