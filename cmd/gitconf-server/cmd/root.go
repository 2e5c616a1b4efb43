// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package cmd implements the gitconf-server CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	appVersion string
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "gitconf-server",
	Short: "Read-only Git-backed configuration server",
	Long: `gitconf-server serves application configuration sourced from Git
repositories, compatible with the Spring Cloud Config Server JSON
protocol, extended with environment segmentation, asset endpoints, and
per-environment templating.`,
	Version: appVersion,
}

// Execute adds all child commands to the root command. Called once by
// main.main().
func Execute(version string) {
	appVersion = version
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides RUST_LOG")
	rootCmd.SilenceUsage = true
}
