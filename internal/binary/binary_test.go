// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package binary

import "testing"

func TestIsBinary(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want bool
	}{
		{"empty", []byte{}, false},
		{"plain text", []byte("msg: hello\n"), false},
		{"utf8 text", []byte("café ☕"), false},
		{"single null byte", []byte{0x00}, true},
		{"null byte mid text", []byte("hello\x00world"), true},
		{"invalid utf8", []byte{0xff, 0xfe, 0xfd}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBinary(tt.in); got != tt.want {
				t.Errorf("IsBinary(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
