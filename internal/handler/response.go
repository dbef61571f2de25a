package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/tastebud/internal/apperror"
)

// Every error response has the single shape the frontend expects:
//
//	{"error": "Username already exists"}
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// validate checks request DTOs against their `validate` struct tags.
// The validator is stateless and safe for concurrent use, so one instance
// serves every handler.
var validate = validator.New()

// writeJSON sends a JSON response. Headers and status must go out before
// the body — once Encode writes, header changes are silently dropped.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps an error to its HTTP status and sends the error body.
//
// Classified errors (apperror sentinels) come from deliberate checks run
// before any mutation. Anything unclassified is a store failure from a
// write sequence: it maps to 500 and the raw message passes through to the
// client unwrapped — the original backend's behaviour, kept as-is.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		}
		writeJSON(w, status, errorResponse{Error: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}
