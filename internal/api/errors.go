package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/inkforge/inkforge-api/internal/api/shared"
	"github.com/inkforge/inkforge-api/internal/domain"
	"github.com/inkforge/inkforge-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, domain.ErrNoAccountConfigured):
		return "No API account configured"

	case errors.Is(err, domain.ErrValidation):
		// Validation messages are built from caller input and safe to echo.
		return strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": ")

	case errors.Is(err, store.ErrAccountNotFound):
		return "Account not found"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case store.IsNotFoundError(err):
		return "Not found"

	case store.IsStorageError(err):
		return "Failed to persist state"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps err to a status code and safe message and writes
// the error response, logging the raw error alongside.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
