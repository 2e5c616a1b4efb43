// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package envmap builds the immutable variable map for one
// environment: process env (gated by env_from_process), then the
// root env_file, then the per-environment env_file, each later layer
// overriding the earlier on key collision.
package envmap

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Sources describes the three layers feeding one environment's map.
type Sources struct {
	// FromProcess includes the process's own environment as the base
	// layer when true.
	FromProcess bool
	// RootEnvFile is the server-wide env_file path; empty to skip.
	RootEnvFile string
	// EnvFile is the per-environment env_file path; empty to skip.
	EnvFile string
}

// Build constructs the layered, immutable map described by src.
// Missing files are treated as an empty layer rather than an error
// (an environment need not define any file layer), but a file that
// exists and fails to parse is returned as an error.
func Build(src Sources) (map[string]string, error) {
	out := make(map[string]string)

	if src.FromProcess {
		for _, kv := range os.Environ() {
			k, v, ok := strings.Cut(kv, "=")
			if ok {
				out[k] = v
			}
		}
	}

	if src.RootEnvFile != "" {
		layer, err := readEnvFile(src.RootEnvFile)
		if err != nil {
			return nil, err
		}
		for k, v := range layer {
			out[k] = v
		}
	}

	if src.EnvFile != "" {
		layer, err := readEnvFile(src.EnvFile)
		if err != nil {
			return nil, err
		}
		for k, v := range layer {
			out[k] = v
		}
	}

	return out, nil
}

// readEnvFile parses one KEY=VALUE file with godotenv. A file that
// does not exist is treated as an empty layer.
func readEnvFile(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return godotenv.Read(path)
}
