// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package template implements the server's text-safe `{{ VAR }}`
// substitution. It is deliberately not text/template: the grammar is
// a single token per placeholder, substitution is single-pass and
// non-recursive, and a missing key yields an empty string rather than
// an error.
package template

import "regexp"

// placeholder matches "{{" optional spaces, an identifier, optional
// spaces, "}}", capturing the identifier.
var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Render replaces every {{ NAME }} placeholder in s with env[NAME],
// or the empty string if NAME is not present in env. Text that does
// not match the placeholder grammar (including malformed "{{" runs)
// is left untouched. The scan is single-pass: replacement values are
// never re-scanned for further placeholders.
func Render(s string, env map[string]string) string {
	return placeholder.ReplaceAllStringFunc(s, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]
		return env[name]
	})
}

// RenderBytes is a []byte convenience wrapper around Render, used by
// callers that read file contents as raw bytes (package resolve,
// package assets).
func RenderBytes(b []byte, env map[string]string) []byte {
	return []byte(Render(string(b), env))
}
