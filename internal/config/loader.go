// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultConfig returns a Config with the defaults the server falls
// back to when config.yaml omits a field.
func DefaultConfig() *Config {
	return &Config{
		BasePath: "/",
		Server: ServerConfig{
			Addr:       ":8080",
			HeaderName: "x-client-id",
		},
	}
}

// Load reads, parses, and validates config.yaml at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if cfg.BasePath == "" {
		cfg.BasePath = "/"
	}
	if cfg.Auth.ClientACL.HeaderName == "" {
		cfg.Auth.ClientACL.HeaderName = "x-client-id"
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate runs struct-tag validation plus the manual invariants
// go-playground/validator/v10 struct tags can't express: unique
// environment names, unique client IDs, and ACL entries that only
// reference environments that actually exist.
func Validate(cfg *Config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	seenEnv := make(map[string]bool, len(cfg.Environments))
	for _, e := range cfg.Environments {
		if seenEnv[e.Name] {
			return fmt.Errorf("config validation: duplicate environment name %q", e.Name)
		}
		seenEnv[e.Name] = true
	}

	seenClient := make(map[string]bool, len(cfg.Auth.ClientACL.Clients))
	for _, c := range cfg.Auth.ClientACL.Clients {
		if seenClient[c.ID] {
			return fmt.Errorf("config validation: duplicate client id %q", c.ID)
		}
		seenClient[c.ID] = true
		for _, env := range c.Environments {
			if env == "*" {
				continue
			}
			if !seenEnv[env] {
				return fmt.Errorf("config validation: client %q references unknown environment %q", c.ID, env)
			}
		}
	}

	return nil
}
