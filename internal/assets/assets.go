// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package assets implements per-environment file listing and
// per-file fetch with label resolution and text/binary branching.
package assets

import (
	"context"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/arkedev/gitconf-server/internal/binary"
	ferrors "github.com/arkedev/gitconf-server/internal/errors"
	"github.com/arkedev/gitconf-server/internal/gitcmd"
	"github.com/arkedev/gitconf-server/internal/template"
)

// Workspace is the subset of *workspace.Workspace the asset service
// needs, matching resolve.Workspace so both can share one concrete
// implementation.
type Workspace interface {
	ResolveRef(ctx context.Context, label *string) (string, error)
	ReadBlob(ctx context.Context, commit, path string) ([]byte, error)
	ListTree(ctx context.Context, commit string) ([]string, error)
}

// File is the result of Get: the (possibly templated) content and its
// guessed content type.
type File struct {
	Content     []byte
	ContentType string
	IsBinary    bool
}

// List resolves the default branch and returns every path under the
// environment's subpath.
func List(ctx context.Context, ws Workspace) ([]string, error) {
	commit, err := ws.ResolveRef(ctx, nil)
	if err != nil {
		return nil, err
	}
	return ws.ListTree(ctx, commit)
}

// Get resolves label (nil for default branch), reads the blob at
// path, and returns it either as raw bytes (binary) or templated text.
// Callers must call CheckPathSafety before Get; Get itself does not
// re-validate path.
func Get(ctx context.Context, ws Workspace, label *string, filePath string, envMap map[string]string) (*File, error) {
	commit, err := ws.ResolveRef(ctx, label)
	if err != nil {
		return nil, err
	}
	blob, err := ws.ReadBlob(ctx, commit, filePath)
	if err != nil {
		return nil, err
	}

	if binary.IsBinary(blob) {
		return &File{
			Content:     blob,
			ContentType: guessBinaryMIME(blob),
			IsBinary:    true,
		}, nil
	}

	rendered := template.RenderBytes(blob, envMap)
	return &File{
		Content:     rendered,
		ContentType: guessTextMIME(filePath),
		IsBinary:    false,
	}, nil
}

// CheckPathSafety rejects any path containing a ".." segment, starting
// with "/", or otherwise unsafe to hand to "git show commit:path" —
// the latter check reuses the same dangerous-pattern scan the Git
// command sanitizer applies to subprocess arguments, since this path
// comes straight from the request URL.
func CheckPathSafety(p string) error {
	if strings.HasPrefix(p, "/") {
		return ferrors.ErrBadRequest
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return ferrors.ErrBadRequest
		}
	}
	if err := gitcmd.SanitizePath(p); err != nil {
		return ferrors.ErrBadRequest
	}
	return nil
}

// guessTextMIME applies a three-way extension mapping for text files.
func guessTextMIME(filePath string) string {
	switch strings.ToLower(path.Ext(filePath)) {
	case ".yml", ".yaml":
		return "text/yaml"
	case ".json":
		return "application/json"
	default:
		return "text/plain"
	}
}

// guessBinaryMIME sniffs content type with gabriel-vasile/mimetype,
// falling back to application/octet-stream only when the library
// itself cannot do better.
func guessBinaryMIME(content []byte) string {
	mt := mimetype.Detect(content)
	return mt.String()
}
