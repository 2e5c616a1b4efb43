// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	gconfig "github.com/arkedev/gitconf-server/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or scaffold config.yaml",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse and validate config.yaml without starting a server",
	RunE:  runConfigValidate,
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigValidate(_ *cobra.Command, _ []string) error {
	cfg, err := gconfig.Load(configPath)
	if err != nil {
		return err
	}
	fmt.Printf("config.yaml is valid: %d environment(s), %d ACL client(s)\n",
		len(cfg.Environments), len(cfg.Auth.ClientACL.Clients))
	return nil
}
