package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so the HTTP layer can map them to a status.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindConflict
	KindExpired
	KindMismatch
	KindInvalidState
)

var kindNames = map[ErrorKind]string{
	KindInternal:     "InternalError",
	KindValidation:   "ValidationError",
	KindNotFound:     "NotFoundError",
	KindUnauthorized: "UnauthorizedError",
	KindForbidden:    "ForbiddenError",
	KindConflict:     "ConflictError",
	KindExpired:      "ExpiredError",
	KindMismatch:     "MismatchError",
	KindInvalidState: "InvalidStateError",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindInternal]
}

// Error is a classified service failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func ErrValidation(msg string) error   { return newError(KindValidation, msg) }
func ErrNotFound(msg string) error     { return newError(KindNotFound, msg) }
func ErrUnauthorized(msg string) error { return newError(KindUnauthorized, msg) }
func ErrForbidden(msg string) error    { return newError(KindForbidden, msg) }
func ErrConflict(msg string) error     { return newError(KindConflict, msg) }
func ErrExpired(msg string) error      { return newError(KindExpired, msg) }
func ErrMismatch(msg string) error     { return newError(KindMismatch, msg) }
func ErrInvalidState(msg string) error { return newError(KindInvalidState, msg) }

// ErrInternal wraps an unexpected store or dependency failure.
func ErrInternal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err is a service error of kind.
func IsKind(err error, kind ErrorKind) bool {
	var svcErr *Error
	return errors.As(err, &svcErr) && svcErr.Kind == kind
}

// MessageOf returns the client-facing message of err.
func MessageOf(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return err.Error()
}
