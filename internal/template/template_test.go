// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package template

import "testing"

func TestRender(t *testing.T) {
	env := map[string]string{"NAME": "world", "EMPTY": ""}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Hello {{ NAME }}", "Hello world"},
		{"no spaces", "Hello {{NAME}}", "Hello world"},
		{"extra spaces", "Hello {{   NAME   }}", "Hello world"},
		{"missing key", "Hello {{ MISSING }}", "Hello "},
		{"empty value key", "[{{ EMPTY }}]", "[]"},
		{"malformed left verbatim", "{{ not a var }}", "{{ not a var }}"},
		{"unmatched brace", "{{ NAME", "{{ NAME"},
		{"repeated", "{{NAME}}-{{NAME}}", "world-world"},
		{"no placeholders", "plain text", "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.in, env); got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderNonRecursive(t *testing.T) {
	// A value that itself contains a placeholder-looking token must
	// not be re-scanned.
	env := map[string]string{"A": "{{ B }}", "B": "leaked"}
	got := Render("{{ A }}", env)
	if got != "{{ B }}" {
		t.Errorf("Render should not re-scan substituted text, got %q", got)
	}
}

func TestRenderIdempotentWithoutTokenValues(t *testing.T) {
	env := map[string]string{"NAME": "world"}
	once := Render("Hello {{ NAME }}", env)
	twice := Render(once, env)
	if once != twice {
		t.Errorf("Render should be idempotent when values contain no tokens: %q != %q", once, twice)
	}
}

func TestRenderBytes(t *testing.T) {
	env := map[string]string{"NAME": "world"}
	got := RenderBytes([]byte("hi {{ NAME }}"), env)
	if string(got) != "hi world" {
		t.Errorf("RenderBytes = %q", got)
	}
}
