package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dverbeek/planboard/internal/models"
	"github.com/dverbeek/planboard/internal/repository"
	"github.com/go-chi/chi/v5"
)

type AbsenceHandler struct {
	absenceRepo repository.AbsenceRepository
}

func NewAbsenceHandler(absenceRepo repository.AbsenceRepository) *AbsenceHandler {
	return &AbsenceHandler{absenceRepo: absenceRepo}
}

func (handler *AbsenceHandler) List(w http.ResponseWriter, r *http.Request) {
	absences, err := handler.absenceRepo.FindAll(r.Context(), repository.AbsenceFilter{
		UserID:   r.URL.Query().Get("user_id"),
		DateFrom: r.URL.Query().Get("from"),
		DateTo:   r.URL.Query().Get("to"),
	})
	if err != nil {
		slog.Error("listing absences", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, absences)
}

type absenceRequest struct {
	UserID string             `json:"user_id"`
	Date   string             `json:"date"`
	Type   models.AbsenceType `json:"type"`
	Notes  string             `json:"notes"`
}

// Upsert writes the absence for its (user, date) slot. One absence per
// employee per day; a second submission replaces the first.
func (handler *AbsenceHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var request absenceRequest
	if err := decodeJSON(r, &request); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.UserID == "" || request.Date == "" {
		writeErrorJSON(w, http.StatusBadRequest, "user_id and date are required")
		return
	}
	switch request.Type {
	case models.AbsenceVacation, models.AbsenceSick, models.AbsenceOther:
	default:
		writeErrorJSON(w, http.StatusBadRequest, "unknown absence type")
		return
	}

	absence := models.Absence{
		UserID: request.UserID,
		Date:   request.Date,
		Type:   request.Type,
		Notes:  request.Notes,
	}
	if err := handler.absenceRepo.Upsert(r.Context(), absence); err != nil {
		slog.Error("upserting absence", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, absence)
}

func (handler *AbsenceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	date := chi.URLParam(r, "date")

	if err := handler.absenceRepo.Delete(r.Context(), userID, date); err != nil {
		slog.Error("deleting absence", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
