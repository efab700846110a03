package api

import (
	"encoding/json"
	"net/http"
	"time"

	"activity-platform/participation/internal/apperrors"
	"activity-platform/participation/internal/logging"
	"activity-platform/participation/internal/models/dtos/responses"
)

func respondWithSuccess[T any](w http.ResponseWriter, statusCode int, data *T) {
	resp := responses.APIResponse[T]{
		Status:    "success",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	resp := responses.APIResponse[any]{
		Status:    "error",
		Timestamp: time.Now().UTC(),
		Error:     message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(resp)
}

// respondWithServiceError maps engine errors onto transport codes. Typed
// errors carry their own status; anything else is a 500 and gets logged.
func respondWithServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := apperrors.FromError(err); ok {
		respondWithError(w, apperrors.HTTPStatus(appErr.Code), appErr.Error())
		return
	}

	logging.Error("Unhandled service error", "error", err)
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
