// Package web holds the small HTTP plumbing shared by all handlers: JSON
// responses, the error payload shape and caller identity extraction.
package web

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the machine-readable error payload every handler returns
// for business-rule violations.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func WriteJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError emits a structured error with a snake_case kind and a
// human-readable message.
func WriteError(w http.ResponseWriter, code int, kind, message string) {
	WriteJSON(w, code, ErrorResponse{Error: kind, Message: message})
}

// WriteServerError hides internal failure detail from clients.
func WriteServerError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
}
