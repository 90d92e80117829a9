package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dverbeek/planboard/internal/middleware"
	"github.com/dverbeek/planboard/internal/models"
	"github.com/dverbeek/planboard/internal/repository"
	"github.com/go-chi/chi/v5"
)

type ReportHandler struct {
	reportRepo repository.ReportRepository
}

func NewReportHandler(reportRepo repository.ReportRepository) *ReportHandler {
	return &ReportHandler{reportRepo: reportRepo}
}

// List returns reports matching the query filters. Members only ever see
// their own; planners and admins can filter across employees.
func (handler *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	filter := repository.ReportFilter{
		UserID:    r.URL.Query().Get("user_id"),
		ProjectID: r.URL.Query().Get("project_id"),
		DateFrom:  r.URL.Query().Get("from"),
		DateTo:    r.URL.Query().Get("to"),
	}
	if !user.Role.CanPlan() {
		filter.UserID = user.ID
	}

	reports, err := handler.reportRepo.FindAll(r.Context(), filter)
	if err != nil {
		slog.Error("listing reports", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, reports)
}

type reportRequest struct {
	ProjectID string  `json:"project_id"`
	Date      string  `json:"date"`
	Notes     string  `json:"notes"`
	Hours     float64 `json:"hours"`
}

// Upsert files the caller's daily report for a project. Re-submitting the
// same (project, date) replaces the earlier report.
func (handler *ReportHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var request reportRequest
	if err := decodeJSON(r, &request); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.ProjectID == "" || request.Date == "" {
		writeErrorJSON(w, http.StatusBadRequest, "project_id and date are required")
		return
	}
	if request.Hours < 0 || request.Hours > 24 {
		writeErrorJSON(w, http.StatusBadRequest, "hours must be between 0 and 24")
		return
	}

	user := middleware.GetUser(r.Context())
	report, err := handler.reportRepo.Upsert(r.Context(), models.Report{
		UserID:    user.ID,
		ProjectID: request.ProjectID,
		Date:      request.Date,
		Notes:     request.Notes,
		Hours:     request.Hours,
	})
	if err != nil {
		slog.Error("upserting report", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (handler *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	report, err := handler.reportRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErrorJSON(w, http.StatusNotFound, "report not found")
		return
	}
	if report.UserID != user.ID && !user.Role.CanPlan() {
		writeErrorJSON(w, http.StatusForbidden, "not your report")
		return
	}

	if err := handler.reportRepo.Delete(r.Context(), report.ID); err != nil {
		slog.Error("deleting report", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
