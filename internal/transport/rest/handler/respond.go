package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"docquiz/internal/service"
)

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps service errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrGenerationInProgress):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidDocumentType), errors.Is(err, service.ErrSessionNotReady):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrExtractionFailed), errors.Is(err, service.ErrGenerationFailed):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
