// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
server:
  addr: ":8080"
environments:
  - name: dev
    git:
      repo_url: file:///tmp/repo
      branch: main
      workdir: /tmp/work-dev
      refresh_interval_secs: 30
`

func TestLoadMinimalConfig(t *testing.T) {
	path := writeConfig(t, minimalConfig)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BasePath != "/" {
		t.Errorf("BasePath = %q, want default \"/\"", cfg.BasePath)
	}
	if len(cfg.Environments) != 1 || cfg.Environments[0].Name != "dev" {
		t.Errorf("Environments = %+v", cfg.Environments)
	}
}

func TestLoadMissingRequiredFieldFails(t *testing.T) {
	path := writeConfig(t, `
environments:
  - name: dev
    git:
      branch: main
      workdir: /tmp/work-dev
      refresh_interval_secs: 30
`)
	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil, want validation error for missing repo_url")
	}
}

func TestLoadDuplicateEnvironmentNameFails(t *testing.T) {
	path := writeConfig(t, `
environments:
  - name: dev
    git: {repo_url: file:///a, branch: main, workdir: /tmp/a, refresh_interval_secs: 30}
  - name: dev
    git: {repo_url: file:///b, branch: main, workdir: /tmp/b, refresh_interval_secs: 30}
`)
	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil, want duplicate environment name error")
	}
}

func TestLoadDuplicateClientIDFails(t *testing.T) {
	path := writeConfig(t, `
environments:
  - name: dev
    git: {repo_url: file:///a, branch: main, workdir: /tmp/a, refresh_interval_secs: 30}
auth:
  client_acl:
    enabled: true
    clients:
      - id: ci
        environments: ["dev"]
        scopes: ["config:read"]
      - id: ci
        environments: ["dev"]
        scopes: ["config:read"]
`)
	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil, want duplicate client id error")
	}
}

func TestLoadInvalidScopeFails(t *testing.T) {
	path := writeConfig(t, `
environments:
  - name: dev
    git: {repo_url: file:///a, branch: main, workdir: /tmp/a, refresh_interval_secs: 30}
auth:
  client_acl:
    enabled: true
    clients:
      - id: ci
        environments: ["dev"]
        scopes: ["not-a-real-scope"]
`)
	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil, want invalid scope error")
	}
}

func TestLoadClientReferencingUnknownEnvironmentFails(t *testing.T) {
	path := writeConfig(t, `
environments:
  - name: dev
    git: {repo_url: file:///a, branch: main, workdir: /tmp/a, refresh_interval_secs: 30}
auth:
  client_acl:
    enabled: true
    clients:
      - id: ci
        environments: ["staging"]
        scopes: ["config:read"]
`)
	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil, want unknown environment reference error")
	}
}
