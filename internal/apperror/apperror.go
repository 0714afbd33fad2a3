package apperror

import (
	"errors"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	Unauthenticated
	ValidationFailed
	NotFound
	Unauthorized
	Conflict
	BadRequest
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case ValidationFailed:
		return "validation_failed"
	case NotFound:
		return "not_found"
	case Unauthorized:
		return "unauthorized"
	case Conflict:
		return "conflict"
	case BadRequest:
		return "bad_request"
	default:
		return "internal"
	}
}

// Violation is one entry of an `errors` response list.
type Violation struct {
	Message  string `json:"msg"`
	Field    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
	Value    any    `json:"value,omitempty"`
}

// Error is a domain outcome that maps onto one HTTP response. When Violations
// is set the body is `{errors: [...]}`, otherwise `{msg: ...}`.
type Error struct {
	Kind       Kind
	Message    string
	Violations []Violation
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case Unauthenticated, Unauthorized:
		return http.StatusUnauthorized
	case ValidationFailed, Conflict, BadRequest:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Body is the JSON payload written for the error.
func (e *Error) Body() map[string]any {
	if e.Kind == Internal {
		return map[string]any{"msg": InternalMessage}
	}
	if len(e.Violations) > 0 {
		return map[string]any{"errors": e.Violations}
	}
	return map[string]any{"msg": e.Message}
}

const InternalMessage = "Server Error"

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Listed builds an error rendered as a single-entry `errors` list.
func Listed(kind Kind, message string) *Error {
	return &Error{
		Kind:       kind,
		Message:    message,
		Violations: []Violation{{Message: message}},
	}
}

func Validation(violations []Violation) *Error {
	return &Error{
		Kind:       ValidationFailed,
		Message:    "validation failed",
		Violations: violations,
	}
}

// Wrap marks err as an unexpected failure.
func Wrap(err error, message string) *Error {
	return &Error{Kind: Internal, Message: message, Err: err}
}

// From returns the *Error carried by err, treating anything else as Internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "unexpected error")
}

func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

var (
	ErrNoToken       = New(Unauthenticated, "No token, authorization denied")
	ErrNotAuthorized = New(Unauthorized, "User not authorized")
)
