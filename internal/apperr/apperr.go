// Package apperr defines the error taxonomy shared by the service and HTTP
// layers. Every rejected request maps to exactly one Kind, so handlers can
// translate errors to status codes without inspecting error strings.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping and retry semantics.
type Kind int

const (
	// KindValidation covers malformed input (bad version string, empty fields).
	KindValidation Kind = iota
	// KindUnauthenticated means no actor identity was supplied.
	KindUnauthenticated
	// KindForbidden means the actor's role/ownership does not permit the operation.
	KindForbidden
	// KindNotFound means the paper or history row does not exist.
	KindNotFound
	// KindConflict covers version-not-increasing, invalid transitions, and
	// mutations against a Final paper. The caller must resubmit corrected input.
	KindConflict
	// KindStorage is a blob store failure. Server error, not retried here.
	KindStorage
	// KindPersistence is a transaction/commit failure. Server error, rolled back.
	KindPersistence
)

// Error carries a Kind, a machine-readable code, a safe message, and the cause.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error without a cause.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap constructs an Error around a cause.
func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

func Validation(code, message string) *Error      { return New(KindValidation, code, message) }
func Unauthenticated(message string) *Error       { return New(KindUnauthenticated, "UNAUTHENTICATED", message) }
func Forbidden(code, message string) *Error       { return New(KindForbidden, code, message) }
func NotFound(code, message string) *Error        { return New(KindNotFound, code, message) }
func Conflict(code, message string) *Error        { return New(KindConflict, code, message) }
func Storage(message string, err error) *Error    { return Wrap(KindStorage, "STORAGE_FAILURE", message, err) }
func Persistence(message string, err error) *Error {
	return Wrap(KindPersistence, "PERSISTENCE_FAILURE", message, err)
}

// KindOf extracts the Kind from err, defaulting to KindPersistence for
// unclassified errors so they surface as server errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindPersistence
}

// CodeOf extracts the machine-readable code, or INTERNAL_ERROR if none.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return "INTERNAL_ERROR"
}

// MessageOf returns the safe message for the client. Storage and persistence
// failures keep internal detail out of the response body.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		switch ae.Kind {
		case KindStorage, KindPersistence:
			return "internal server error"
		}
		return ae.Message
	}
	return "internal server error"
}
