// Package apperr classifies failures so the HTTP layer can map them to
// status codes without inspecting driver or SDK error strings.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindUnknown covers anything not deliberately classified.
	KindUnknown Kind = iota
	// KindNotFound: the referenced record does not exist or is not owned
	// by the caller. The two cases are indistinguishable on purpose.
	KindNotFound
	// KindConflict: a uniqueness rule was violated (duplicate SKU, email).
	KindConflict
	// KindValidation: the request is well-formed JSON but semantically
	// invalid (insufficient stock, non-positive window).
	KindValidation
	// KindUpstream: the database, LLM, or embedding collaborator failed.
	KindUpstream
	// KindUnauthorized: missing or unverifiable credential.
	KindUnauthorized
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

func Upstream(err error, msg string) *Error {
	return Wrap(KindUpstream, err, msg)
}

func Unauthorized(format string, args ...any) *Error {
	return New(KindUnauthorized, format, args...)
}

// KindOf returns the classification of err, walking the wrap chain.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}
