package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dverbeek/planboard/internal/planning"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func writeErrorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writePlanningError maps the planning error taxonomy onto HTTP statuses.
// Transient failures are retryable 502s; the grid client shows them as
// non-blocking notices.
func writePlanningError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, planning.ErrValidation):
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, planning.ErrNotFound):
		writeErrorJSON(w, http.StatusNotFound, err.Error())
	case errors.Is(err, planning.ErrTransient):
		writeErrorJSON(w, http.StatusBadGateway, "temporary backend failure, retry")
	default:
		slog.Error("planning operation failed", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
