package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies pipeline failures.
type ErrorKind string

const (
	KindEmptyQuery            ErrorKind = "EmptyQuery"
	KindSearchProviderFailure ErrorKind = "SearchProviderFailure"
	KindGenerationFailure     ErrorKind = "GenerationFailure"
	KindLogWriteFailure       ErrorKind = "LogWriteFailure"
	KindInternalFailure       ErrorKind = "InternalFailure"
)

// Error is the structured error surfaced to callers of the pipeline.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

// HTTPStatus maps the kind onto a status code for the HTTP edge.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindEmptyQuery:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// NewError builds an Error of the given kind.
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
