package handler

// RESPONSE HELPERS:
// Every endpoint speaks the same envelope, so clients never guess at shapes.
//
// Success:
//
//	{"success": true, "data": {...}, "message": "Student created successfully"}
//
// Failure:
//
//	{"success": false, "message": "Validation failed",
//	 "errors": [{"field": "email", "message": "Please enter a valid email address"}]}
//
// The helpers also centralize the domain-error → status-code mapping, which
// is the ONLY place the error taxonomy meets HTTP. Services return
// apperror values; this file decides 400 vs 403 vs 404 vs 500.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/student-records/internal/apperror"
)

// envelope is the wire shape shared by success and failure responses.
type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Data    any                   `json:"data,omitempty"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
}

// writeJSON sends a raw JSON response. Headers and status must go out before
// the first byte of body — Encode writes immediately.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers already sent; nothing left to do but log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeData sends a success envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// writeMessage sends a success envelope with a human-readable message, the
// shape mutations use ("Student created successfully", ...).
func writeMessage(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

// writeError maps a domain error to an HTTP status and sends the failure
// envelope. Unrecognized errors are logged and surfaced as a generic 500 —
// raw error strings can leak SQL fragments or file paths.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrDuplicate):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		}

		writeJSON(w, status, envelope{
			Success: false,
			Message: appErr.Message,
			Errors:  appErr.Fields,
		})
		return
	}

	slog.Error("unexpected error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, envelope{
		Success: false,
		Message: "Something went wrong",
	})
}

// decodeJSON parses a request body into dst, rejecting unknown garbage with
// a validation-shaped 400 rather than a bare decoder error.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "Request body must be valid JSON")
	}
	return nil
}
