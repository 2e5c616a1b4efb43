// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package errors defines the error taxonomy shared by every core
// component (workspace, resolve, assets, auth) and the HTTP layer's
// mapping from those kinds to status codes.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the taxonomy buckets the HTTP
// layer knows how to map to a status code.
type Kind string

const (
	KindUnknownEnv    Kind = "unknown_env"
	KindLabelNotFound Kind = "label_not_found"
	KindBlobNotFound  Kind = "blob_not_found"
	KindBadRequest    Kind = "bad_request"
	KindUnauthorized  Kind = "unauthorized"
	KindForbidden     Kind = "forbidden"
	KindGitError      Kind = "git_error"
	KindGitTimeout    Kind = "git_timeout"
	KindYamlParse     Kind = "yaml_parse_error"
	KindInternal      Kind = "internal_error"
)

// KindError is a sentinel error carrying a Kind. Compare against the
// package-level Err* values with errors.Is, which also matches errors
// produced by Wrap.
type KindError struct {
	Kind Kind
	Msg  string
}

func (e *KindError) Error() string { return e.Msg }

// Sentinel errors, one per Kind.
var (
	ErrUnknownEnv    = &KindError{Kind: KindUnknownEnv, Msg: "environment not configured"}
	ErrLabelNotFound = &KindError{Kind: KindLabelNotFound, Msg: "label not found"}
	ErrBlobNotFound  = &KindError{Kind: KindBlobNotFound, Msg: "blob not found"}
	ErrBadRequest    = &KindError{Kind: KindBadRequest, Msg: "bad request"}
	ErrUnauthorized  = &KindError{Kind: KindUnauthorized, Msg: "unauthorized"}
	ErrForbidden     = &KindError{Kind: KindForbidden, Msg: "forbidden"}
	ErrGitError      = &KindError{Kind: KindGitError, Msg: "git operation failed"}
	ErrGitTimeout    = &KindError{Kind: KindGitTimeout, Msg: "git operation timed out"}
	ErrYamlParse     = &KindError{Kind: KindYamlParse, Msg: "yaml parse failed"}
	ErrInternal      = &KindError{Kind: KindInternal, Msg: "internal error"}
)

// multiWrap lets Is match either the sentinel target or the original
// cause, so callers can test for both the taxonomy kind and (when they
// care) the lower-level cause.
type multiWrap struct {
	target error
	cause  error
}

func (w *multiWrap) Error() string {
	if w.cause == nil {
		return w.target.Error()
	}
	return fmt.Sprintf("%s: %v", w.target, w.cause)
}

func (w *multiWrap) Unwrap() []error { return []error{w.target, w.cause} }

// Wrap attaches target (normally one of the Err* sentinels above) to
// err as the outward-facing classification, keeping err reachable via
// errors.Is/errors.As. If err is nil, Wrap returns target unchanged.
// If target is nil, Wrap returns err unchanged.
func Wrap(err error, target error) error {
	if err == nil {
		return target
	}
	if target == nil {
		return err
	}
	return &multiWrap{target: target, cause: err}
}

// WrapWithMessage annotates err with a message, preserving
// errors.Is(result, err). Returns nil if err is nil.
func WrapWithMessage(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Is reports whether err matches target anywhere in its chain. It is
// a thin alias over errors.Is kept for parity with the rest of this
// package's naming.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// KindOf walks err's chain and returns the Kind of the first KindError
// found, or KindInternal if none is present.
func KindOf(err error) Kind {
	var ke *KindError
	if errors.As(err, &ke) {
		return ke.Kind
	}
	return KindInternal
}
