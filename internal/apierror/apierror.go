// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import "errors"

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationBody wraps multiple field errors in a response body.
type ValidationBody struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationBody {
	return &ValidationBody{Detail: "Validation error", Fields: fields}
}

// Kind classifies service-layer errors so handlers can map them to HTTP
// statuses in one place.
type Kind int

const (
	// KindValidation — invalid input, recoverable by correcting the request.
	KindValidation Kind = iota
	// KindInvalidState — operation attempted on a terminal-state record.
	KindInvalidState
	// KindNotFound — record missing or not owned by the caller. Ownership
	// failures use this kind too, so existence of other users' records
	// never leaks.
	KindNotFound
	// KindConflict — transient store conflict that persisted after retry.
	KindConflict
)

// Error is the typed error services return to handlers.
type Error struct {
	Kind   Kind
	Detail string
	Fields map[string]string
}

func (e *Error) Error() string { return e.Detail }

func Validation(detail string) *Error {
	return &Error{Kind: KindValidation, Detail: detail}
}

func ValidationFields(detail string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Detail: detail, Fields: fields}
}

func InvalidState(detail string) *Error {
	return &Error{Kind: KindInvalidState, Detail: detail}
}

func NotFound(detail string) *Error {
	return &Error{Kind: KindNotFound, Detail: detail}
}

func Conflict(detail string) *Error {
	return &Error{Kind: KindConflict, Detail: detail}
}

// As unwraps err into an *Error if it is one.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
