package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dverbeek/planboard/internal/middleware"
	"github.com/dverbeek/planboard/internal/repository"
)

type TimeEntryHandler struct {
	timeEntryRepo repository.TimeEntryRepository
}

func NewTimeEntryHandler(timeEntryRepo repository.TimeEntryRepository) *TimeEntryHandler {
	return &TimeEntryHandler{timeEntryRepo: timeEntryRepo}
}

type startTimerRequest struct {
	ProjectID string `json:"project_id"`
}

// Start opens a running timer for the caller. At most one timer may be open
// per user; a second start is rejected until the first is stopped.
func (handler *TimeEntryHandler) Start(w http.ResponseWriter, r *http.Request) {
	var request startTimerRequest
	if err := decodeJSON(r, &request); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.ProjectID == "" {
		writeErrorJSON(w, http.StatusBadRequest, "project_id is required")
		return
	}

	user := middleware.GetUser(r.Context())

	if _, err := handler.timeEntryRepo.FindOpenByUser(r.Context(), user.ID); err == nil {
		writeErrorJSON(w, http.StatusConflict, "a timer is already running")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("checking open timer", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	entry, err := handler.timeEntryRepo.Start(r.Context(), user.ID, request.ProjectID, time.Now())
	if err != nil {
		slog.Error("starting timer", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (handler *TimeEntryHandler) Stop(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	entry, err := handler.timeEntryRepo.FindOpenByUser(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeErrorJSON(w, http.StatusNotFound, "no running timer")
			return
		}
		slog.Error("finding open timer", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	now := time.Now()
	if err := handler.timeEntryRepo.Stop(r.Context(), entry.ID, now); err != nil {
		slog.Error("stopping timer", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	entry.EndTime = &now
	writeJSON(w, http.StatusOK, entry)
}

// List returns the caller's time entries inside an optional [from, to] range.
func (handler *TimeEntryHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	from := time.Now().AddDate(0, -1, 0)
	to := time.Now()
	if value := r.URL.Query().Get("from"); value != "" {
		parsed, err := time.Parse("2006-01-02", value)
		if err != nil {
			writeErrorJSON(w, http.StatusBadRequest, "invalid from date")
			return
		}
		from = parsed
	}
	if value := r.URL.Query().Get("to"); value != "" {
		parsed, err := time.Parse("2006-01-02", value)
		if err != nil {
			writeErrorJSON(w, http.StatusBadRequest, "invalid to date")
			return
		}
		to = parsed.AddDate(0, 0, 1)
	}

	entries, err := handler.timeEntryRepo.FindByUserRange(r.Context(), user.ID, from, to)
	if err != nil {
		slog.Error("listing time entries", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
