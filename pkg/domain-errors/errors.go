// Package domainerrors defines the coded error taxonomy shared by services,
// stores, and the HTTP layer. Every client-facing failure carries a stable
// machine-readable code; the Kind decides the transport status.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind string

const (
	KindBadRequest Kind = "bad_request"
	KindNotFound   Kind = "not_found"
	KindInternal   Kind = "internal"
)

// Stable codes used across more than one handler. Field-specific intake codes
// (MISSING_<FIELD>_IMAGE, <FIELD>_FILE_SIZE_EXCEEDED) are built next to the
// document-type definitions in internal/verification.
const (
	CodeMissingName    = "MISSING_NAME"
	CodeInvalidDOB     = "INVALID_DOB"
	CodeMissingTxnID   = "MISSING_TXN_ID"
	CodeInvalidTxnID   = "INVALID_TRANSACTION_ID"
	CodeTxnNotFound    = "TXN_NOT_FOUND"
	CodeInternalError  = "INTERNAL_ERROR"
	CodeInvalidRequest = "INVALID_REQUEST"
)

// Error is the domain error type. Services return it (possibly wrapping an
// underlying cause) and the HTTP layer translates it into the JSON envelope.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a domain error with a stable code.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap attaches an underlying cause so logs keep the original failure while
// callers still see a coded error.
func Wrap(kind Kind, code, message string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, cause: cause}
}

// Internal wraps an unexpected failure. The caller-facing message stays
// generic; the cause is preserved for logging.
func Internal(message string, cause error) *Error {
	return Wrap(KindInternal, CodeInternalError, message, cause)
}

// Is reports whether err is a domain error of the given kind.
func Is(err error, kind Kind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

// CodeOf extracts the machine code from err, defaulting to INTERNAL_ERROR for
// anything that is not a domain error.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternalError
}

// ToHTTPStatus maps an error kind to its transport status.
func ToHTTPStatus(kind Kind) int {
	switch kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// StatusOf maps any error to an HTTP status via its kind.
func StatusOf(err error) int {
	var de *Error
	if errors.As(err, &de) {
		return ToHTTPStatus(de.Kind)
	}
	return http.StatusInternalServerError
}
