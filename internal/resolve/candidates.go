// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package resolve implements the config resolution engine: for
// (env, app, profile, label), it enumerates candidate filenames in
// fixed priority order, reads each from the Git Workspace Manager at a
// single resolved commit, templates it, flattens it, and assembles a
// Spring-shaped response.
package resolve

import "fmt"

// Candidates builds the fixed-priority candidate filename list for
// (app, profile): it drops the "application.*" fallbacks when app is
// already "application", and drops the profile-qualified entries when
// profile is empty or "default", matching Spring Cloud Config's own
// treatment of "default" as no profile at all. Duplicates after
// substitution collapse to their first occurrence.
func Candidates(app, profile string) []string {
	hasProfile := profile != "" && profile != "default"

	var ordered []string
	if hasProfile {
		ordered = append(ordered,
			fmt.Sprintf("%s-%s.yml", app, profile),
			fmt.Sprintf("%s-%s.yaml", app, profile),
		)
	}
	ordered = append(ordered,
		app+".yml",
		app+".yaml",
	)
	if app != "application" {
		if hasProfile {
			ordered = append(ordered,
				fmt.Sprintf("application-%s.yml", profile),
				fmt.Sprintf("application-%s.yaml", profile),
			)
		}
		ordered = append(ordered,
			"application.yml",
			"application.yaml",
		)
	}

	return dedupe(ordered)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
