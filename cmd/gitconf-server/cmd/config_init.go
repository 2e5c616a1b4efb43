// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	gconfig "github.com/arkedev/gitconf-server/internal/config"
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively write a starter config.yaml",
	RunE:  runConfigInit,
}

// runConfigInit walks the operator through the minimum viable
// config.yaml with a huh form.
func runConfigInit(_ *cobra.Command, _ []string) error {
	var (
		envName    = "dev"
		repoURL    string
		branch     = "main"
		workdir    = "/var/lib/gitconf-server/dev"
		addr       = ":8080"
		refreshStr = "30"
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Environment name").Value(&envName),
			huh.NewInput().Title("Git repository URL").Value(&repoURL).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("repository URL is required")
					}
					return nil
				}),
			huh.NewInput().Title("Branch").Value(&branch),
			huh.NewInput().Title("Local workdir").Value(&workdir),
			huh.NewInput().Title("Refresh interval (seconds)").Value(&refreshStr),
			huh.NewInput().Title("Listen address").Value(&addr),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	refreshSecs, err := strconv.Atoi(refreshStr)
	if err != nil || refreshSecs <= 0 {
		refreshSecs = 30
	}

	cfg := gconfig.DefaultConfig()
	cfg.Server.Addr = addr
	cfg.Environments = []gconfig.Environment{
		{
			Name: envName,
			Git: gconfig.GitSpec{
				RepoURL:             repoURL,
				Branch:              branch,
				Workdir:             workdir,
				RefreshIntervalSecs: refreshSecs,
			},
			EnvFromProcess: true,
		},
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", configPath, err)
	}
	fmt.Printf("wrote %s\n", configPath)
	return nil
}
