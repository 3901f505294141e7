package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error so the outermost handler can map
// it to an HTTP status without inspecting message text.
type Kind int

const (
	// KindValidation means malformed or incomplete caller input. Never retried.
	KindValidation Kind = iota
	// KindAuthorization means the role/ownership gate rejected the action.
	KindAuthorization
	// KindNotFound means the requested entity does not exist.
	KindNotFound
	// KindExternalService means a downstream HTTP call failed (model
	// endpoint, vendor API, blob store).
	KindExternalService
	// KindMalformedResponse means an external response did not match the
	// expected shape, e.g. the OCR reply was not valid JSON.
	KindMalformedResponse
	// KindEmptyBatch means there was nothing to export. Benign.
	KindEmptyBatch
	// KindConversion means a single file failed PDF-to-image rendering.
	KindConversion
	// KindInternal is everything else.
	KindInternal
)

// Error carries a kind, a user-facing message and optional wrapped detail.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
