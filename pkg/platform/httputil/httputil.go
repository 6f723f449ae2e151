// Package httputil centralizes JSON response writing so every handler uses
// the same envelope: errors carry {message, code}, successes carry at minimum
// {message} plus handler-specific fields.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "vouch/pkg/domain-errors"
)

// ErrorResponse is the wire shape for every client-facing error.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Err     string `json:"error,omitempty"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the error envelope. Internal
// errors keep a generic message and surface the underlying error text, never
// a stack trace.
func WriteError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{
		Message: "internal server error",
		Code:    dErrors.CodeInternalError,
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		resp.Message = de.Message
		resp.Code = de.Code
		if de.Kind == dErrors.KindInternal {
			if cause := de.Unwrap(); cause != nil {
				resp.Err = cause.Error()
			}
		}
	} else if err != nil {
		resp.Err = err.Error()
	}
	WriteJSON(w, dErrors.StatusOf(err), resp)
}
