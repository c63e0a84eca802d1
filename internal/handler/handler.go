package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"code-redeem/internal/middleware"
	"code-redeem/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps admin request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeMessage writes the {"message": ...} body used by the public endpoints.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.MessageResponse{Message: message})
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("error_code", code).
		Str("error", message).
		Int("status", status).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: middleware.RequestIDFromContext(r.Context()),
	})
}

// writeServiceError maps an error returned by a service to a response.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := http.StatusBadRequest
		if domainErr.Code == model.ErrCodeCodeExists {
			status = http.StatusConflict
		}
		writeError(w, r, status, domainErr.Code, domainErr.Message, logger)
		return
	}

	var storageErr *model.StorageError
	if errors.As(err, &storageErr) {
		logger.Error().Err(err).Str("op", storageErr.Op).Msg("storage failure")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeStorage, "storage unavailable", logger)
		return
	}

	logger.Error().Err(err).Msg("unexpected error")
	writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}
