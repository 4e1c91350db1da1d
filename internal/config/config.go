// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

// Package config loads TaskLight configuration from defaults, an
// optional YAML file, command-line flags, and the environment.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Default values. The secret key deliberately has no default: an
// unset SECRET_KEY must fail fast at startup, never fall back to a
// guessable constant.
const (
	DefaultHTTPAddr    = ":8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultSessionTTL  = 60 * time.Minute
	DefaultLogFormat   = "json"
)

// Environment variable names.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvSecretKey   = "SECRET_KEY"
)

// Config holds the full service configuration. It is built once at
// startup and passed down explicitly; nothing reads it from a global.
type Config struct {
	HTTPAddr    string        `koanf:"http_addr"`
	MetricsAddr string        `koanf:"metrics_addr"`
	DatabaseURL string        `koanf:"database_url"`
	SecretKey   string        `koanf:"secret_key"`
	SessionTTL  time.Duration `koanf:"session_ttl"`
	LogFormat   string        `koanf:"log_format"`
}

// Load assembles a Config. Precedence, lowest to highest: built-in
// defaults, the YAML file at path (if non-empty), flags the user set,
// then the DATABASE_URL and SECRET_KEY environment variables.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := &Config{
		HTTPAddr:    DefaultHTTPAddr,
		MetricsAddr: DefaultMetricsAddr,
		SessionTTL:  DefaultSessionTTL,
		LogFormat:   DefaultLogFormat,
	}

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		// Flag names use dashes; koanf keys use underscores.
		p := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		})
		if err := k.Load(p, nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}

	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv(EnvSecretKey); v != "" {
		cfg.SecretKey = v
	}

	return cfg, nil
}

// Validate checks that the configuration is usable. An empty secret
// key is rejected here so the token issuer can never be constructed
// unsigned.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("http_addr is required")
	}
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("%s is required", EnvDatabaseURL)
	}
	if c.SecretKey == "" {
		return oops.Code("CONFIG_INVALID").Errorf("%s is required and cannot be empty", EnvSecretKey)
	}
	if c.SessionTTL <= 0 {
		return oops.Code("CONFIG_INVALID").With("session_ttl", c.SessionTTL).Errorf("session_ttl must be positive")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log_format must be 'json' or 'text', got %q", c.LogFormat)
	}
	return nil
}
