// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arkedev/gitconf-server/internal/auth"
	gconfig "github.com/arkedev/gitconf-server/internal/config"
	"github.com/arkedev/gitconf-server/internal/envmap"
	"github.com/arkedev/gitconf-server/internal/httpapi"
	"github.com/arkedev/gitconf-server/internal/obslog"
	"github.com/arkedev/gitconf-server/internal/workspace"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the configuration server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func resolveLogLevel() string {
	if logLevel != "" {
		return logLevel
	}
	if v := os.Getenv("RUST_LOG"); v != "" {
		return v
	}
	if v := os.Getenv("GITCONF_LOG_LEVEL"); v != "" {
		return v
	}
	return "info"
}

// runServe performs the startup order: parse config, build every
// environment's variable map, initialize every workspace sequentially
// (a failure aborts startup), start the refresh loops, then start the
// HTTP listener.
func runServe(_ *cobra.Command, _ []string) error {
	log := obslog.New(os.Stderr, resolveLogLevel())

	cfg, err := gconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	envs := make(map[string]httpapi.EnvironmentHandle, len(cfg.Environments))
	var workspaces []*workspace.Workspace

	for _, e := range cfg.Environments {
		envMap, err := envmap.Build(envmap.Sources{
			FromProcess: e.EnvFromProcess,
			RootEnvFile: cfg.EnvFile,
			EnvFile:     e.EnvFile,
		})
		if err != nil {
			return fmt.Errorf("build env map for %q: %w", e.Name, err)
		}
		if _, err := envmap.WarnOnChange(log, e.Name, []string{cfg.EnvFile, e.EnvFile}); err != nil {
			log.Warn("env file watcher unavailable", "env", e.Name, "error", err)
		}

		ws := workspace.New(e.Name, workspace.GitConfig{
			RepoURL:         e.Git.RepoURL,
			Branch:          e.Git.Branch,
			Branches:        workspace.NormalizeBranches(e.Git.Branch, e.Git.Branches),
			Workdir:         e.Git.Workdir,
			Subpath:         e.Git.Subpath,
			RefreshInterval: e.Git.RefreshInterval(),
		}, log)

		log.Info("initializing workspace", "env", e.Name)
		if err := ws.Init(context.Background()); err != nil {
			return fmt.Errorf("initialize workspace %q: %w", e.Name, err)
		}

		envs[e.Name] = httpapi.EnvironmentHandle{Workspace: ws, EnvMap: envMap}
		workspaces = append(workspaces, ws)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for _, ws := range workspaces {
		ws.StartRefreshLoop(ctx)
	}

	basic := auth.BasicAuthConfig{
		Username: os.Getenv("AUTH_USERNAME"),
		Password: os.Getenv("AUTH_PASSWORD"),
	}
	acl := auth.ClientACLConfig{
		Enabled:    cfg.Auth.ClientACL.Enabled,
		HeaderName: cfg.Auth.ClientACL.HeaderName,
		Clients:    toAuthClients(cfg.Auth.ClientACL.Clients),
	}

	headerName := cfg.Server.HeaderName
	if headerName == "" {
		headerName = cfg.Auth.ClientACL.HeaderName
	}

	srv := httpapi.New(envs, basic, acl, cfg.BasePath, headerName, log)
	router := srv.Router()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Server.Addr)
		errCh <- router.Run(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-sigCtx.Done():
		log.Info("shutting down")
		cancel()
		for _, ws := range workspaces {
			ws.Wait()
		}
	}
	return nil
}

func toAuthClients(specs []gconfig.ClientSpec) []auth.Client {
	out := make([]auth.Client, 0, len(specs))
	for _, c := range specs {
		out = append(out, auth.Client{
			ID:           c.ID,
			Description:  c.Description,
			Environments: c.Environments,
			Scopes:       c.Scopes,
			UIAccess:     c.UIAccess,
		})
	}
	return out
}
