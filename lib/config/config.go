// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the Parlor
// client.
//
// Configuration is loaded from a single YAML file specified by:
//   - PARLOR_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery beyond the built-in
// defaults: the file is the single source of truth, and environment
// variables never override values in it. The only expansion performed
// is ${VAR} / ${VAR:-default} in paths, for portability.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the master configuration for the Parlor client.
type Config struct {
	// AuthorityURL is the base URL of the remote authority
	// (e.g., "https://parlor.example/api").
	AuthorityURL string `yaml:"authority_url"`

	// StateDir is where client-owned state files live (preferences,
	// stickers, cached session template).
	StateDir string `yaml:"state_dir"`

	// Polling configures the per-resource poll intervals.
	Polling PollingConfig `yaml:"polling"`

	// StartupTimeout bounds session establishment. Exceeding it is a
	// terminal initialization failure, not a transient fetch error.
	StartupTimeout time.Duration `yaml:"startup_timeout"`
}

// PollingConfig holds the poll interval per resource class. Messages
// poll fastest because chat latency is the most visible staleness;
// session metadata changes rarely and polls slowest.
type PollingConfig struct {
	// Messages is the interval for the selected channel's messages.
	Messages time.Duration `yaml:"messages"`

	// Lists is the interval for channel and document lists.
	Lists time.Duration `yaml:"lists"`

	// Document is the interval for the open document's content.
	Document time.Duration `yaml:"document"`

	// Session is the interval for the session roster.
	Session time.Duration `yaml:"session"`
}

// Default returns the default configuration. These are the base
// values the config file merges over.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		AuthorityURL: "",
		StateDir:     filepath.Join(homeDir, ".local", "share", "parlor"),
		Polling: PollingConfig{
			Messages: 3 * time.Second,
			Lists:    5 * time.Second,
			Document: 5 * time.Second,
			Session:  10 * time.Second,
		},
		StartupTimeout: 15 * time.Second,
	}
}

// Load loads configuration from the PARLOR_CONFIG environment
// variable. Fails if it is not set — there is no search path.
func Load() (*Config, error) {
	configPath := os.Getenv("PARLOR_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("PARLOR_CONFIG environment variable not set; " +
			"set it to the path of your parlor.yaml config file, or use --config flag")
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merging
// over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// path fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.StateDir = expandVars(c.StateDir, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.AuthorityURL == "" {
		errs = append(errs, fmt.Errorf("authority_url is required"))
	}
	if c.StateDir == "" {
		errs = append(errs, fmt.Errorf("state_dir is required"))
	}
	if c.Polling.Messages <= 0 {
		errs = append(errs, fmt.Errorf("polling.messages must be positive, got %v", c.Polling.Messages))
	}
	if c.Polling.Lists <= 0 {
		errs = append(errs, fmt.Errorf("polling.lists must be positive, got %v", c.Polling.Lists))
	}
	if c.Polling.Document <= 0 {
		errs = append(errs, fmt.Errorf("polling.document must be positive, got %v", c.Polling.Document))
	}
	if c.Polling.Session <= 0 {
		errs = append(errs, fmt.Errorf("polling.session must be positive, got %v", c.Polling.Session))
	}
	if c.StartupTimeout <= 0 {
		errs = append(errs, fmt.Errorf("startup_timeout must be positive, got %v", c.StartupTimeout))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsureStateDir creates the state directory if it does not exist.
func (c *Config) EnsureStateDir() error {
	if err := os.MkdirAll(c.StateDir, 0700); err != nil {
		return fmt.Errorf("creating %s: %w", c.StateDir, err)
	}
	return nil
}
