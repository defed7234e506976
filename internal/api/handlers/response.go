// Package handlers provides HTTP handlers for the dashboard API.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	apierrors "github.com/narvanalabs/scalingo-dashboard/internal/api/errors"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	apierrors.WriteJSON(w, status, data)
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	apierrors.WriteErrorWithRequestID(w, apierrors.NewValidationError(message), middleware.GetReqID(r.Context()))
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	apierrors.WriteErrorWithRequestID(w, apierrors.NewUnauthorizedError(message), middleware.GetReqID(r.Context()))
}

// WriteServiceError maps err to an API error, logs it and writes it.
// Client errors are logged at debug level, everything else at error level.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, msg string, err error) {
	requestID := middleware.GetReqID(r.Context())
	apiErr := apierrors.FromError(err)

	level := slog.LevelError
	if apiErr.HTTPStatusCode() < http.StatusInternalServerError {
		level = slog.LevelDebug
	}
	logger.Log(r.Context(), level, msg,
		"error", err,
		"error_code", apiErr.Code,
		"request_id", requestID,
		"path", r.URL.Path,
	)

	apierrors.WriteErrorWithRequestID(w, apiErr, requestID)
}
