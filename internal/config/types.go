// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package config parses config.yaml into the structures the rest of
// the server wires up: environments, their Git sources, the two
// independent auth mechanisms, and server-level settings.
package config

import "time"

// Config is the top-level shape of config.yaml.
type Config struct {
	BasePath     string        `yaml:"base_path"     validate:"omitempty"`
	Server       ServerConfig  `yaml:"server"`
	Auth         AuthConfig    `yaml:"auth"`
	EnvFile      string        `yaml:"env_file"`
	Environments []Environment `yaml:"environments"   validate:"required,min=1,dive"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr       string `yaml:"addr"        validate:"required"`
	HeaderName string `yaml:"header_name"`
}

// AuthConfig holds the client ACL; Basic Auth credentials come only
// from AUTH_USERNAME/AUTH_PASSWORD in the process environment, never
// from this file.
type AuthConfig struct {
	ClientACL ClientACLConfig `yaml:"client_acl"`
}

// ClientACLConfig is the header-based ACL configuration.
type ClientACLConfig struct {
	Enabled    bool         `yaml:"enabled"`
	HeaderName string       `yaml:"header_name"`
	Clients    []ClientSpec `yaml:"clients" validate:"dive"`
}

// ClientSpec is one ACL entry.
type ClientSpec struct {
	ID           string   `yaml:"id"          validate:"required"`
	Description  string   `yaml:"description"`
	Environments []string `yaml:"environments" validate:"required,min=1"`
	Scopes       []string `yaml:"scopes"       validate:"dive,oneof=config:read files:read env:read"`
	UIAccess     bool     `yaml:"ui_access"`
}

// Environment is one configured logical tenant.
type Environment struct {
	Name           string       `yaml:"name" validate:"required"`
	Git            GitSpec      `yaml:"git"`
	EnvFile        string       `yaml:"env_file"`
	EnvFromProcess bool         `yaml:"env_from_process"`
}

// GitSpec is the config.yaml shape of an environment's Git source.
type GitSpec struct {
	RepoURL             string   `yaml:"repo_url" validate:"required"`
	Branch              string   `yaml:"branch"   validate:"required"`
	Branches            []string `yaml:"branches"`
	Workdir             string   `yaml:"workdir"  validate:"required"`
	Subpath             string   `yaml:"subpath"`
	RefreshIntervalSecs int      `yaml:"refresh_interval_secs" validate:"required,gt=0"`
}

// RefreshInterval converts RefreshIntervalSecs to a time.Duration.
func (g GitSpec) RefreshInterval() time.Duration {
	return time.Duration(g.RefreshIntervalSecs) * time.Second
}
