package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/recipebook/recipebook-be/internal/services"
	"github.com/rs/zerolog/log"
)

// respondJSON writes v as the JSON response body with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondDetail writes the error envelope used across the API:
// {"detail": "<human-readable message>"}.
func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}

// respondError maps a service error onto its HTTP status and writes the
// detail envelope. Unrecognized errors become an opaque 500.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		respondDetail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		respondDetail(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrInvalidToken):
		respondDetail(w, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, services.ErrNotFound):
		respondDetail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		respondDetail(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("Unhandled service error")
		respondDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}
