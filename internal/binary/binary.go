// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package binary classifies a byte buffer as text or binary, deciding
// whether the templating step (package template) applies to it.
package binary

import (
	"bytes"
	"unicode/utf8"
)

// IsBinary reports whether b should be treated as binary: it contains
// a NUL byte, or it is not valid UTF-8. No third-party content sniffer
// in the retrieval pack expresses this exact rule — mimetype-style
// detectors classify by magic bytes/extension, not UTF-8 validity — so
// this stays on the standard library (see DESIGN.md).
func IsBinary(b []byte) bool {
	return bytes.IndexByte(b, 0) >= 0 || !utf8.Valid(b)
}
