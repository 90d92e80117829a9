package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dverbeek/planboard/internal/middleware"
	"github.com/dverbeek/planboard/internal/models"
	"github.com/dverbeek/planboard/internal/repository"
)

// DashboardHandler assembles the landing-page summary: the caller's
// assignments for today, any absence on record, and the running timer.
type DashboardHandler struct {
	assignmentRepo repository.AssignmentRepository
	absenceRepo    repository.AbsenceRepository
	timeEntryRepo  repository.TimeEntryRepository
	projectRepo    repository.ProjectRepository
}

func NewDashboardHandler(
	assignmentRepo repository.AssignmentRepository,
	absenceRepo repository.AbsenceRepository,
	timeEntryRepo repository.TimeEntryRepository,
	projectRepo repository.ProjectRepository,
) *DashboardHandler {
	return &DashboardHandler{
		assignmentRepo: assignmentRepo,
		absenceRepo:    absenceRepo,
		timeEntryRepo:  timeEntryRepo,
		projectRepo:    projectRepo,
	}
}

type dashboardAssignment struct {
	models.Assignment
	ProjectName string   `json:"project_name"`
	StartTime   *string  `json:"start_time,omitempty"`
	VehicleIDs  []string `json:"vehicle_ids,omitempty"`
}

type dashboardResponse struct {
	Date        string                `json:"date"`
	Assignments []dashboardAssignment `json:"assignments"`
	Absence     *models.Absence       `json:"absence,omitempty"`
	OpenTimer   *models.TimeEntry     `json:"open_timer,omitempty"`
}

func (handler *DashboardHandler) Today(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	today := time.Now().Format("2006-01-02")

	response := dashboardResponse{Date: today, Assignments: []dashboardAssignment{}}

	assignments, err := handler.assignmentRepo.FindRange(r.Context(), []string{user.ID}, today, today)
	if err != nil {
		slog.Error("loading today's assignments", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}
	for _, assignment := range assignments {
		entry := dashboardAssignment{Assignment: assignment, ProjectName: "Unknown project"}
		if project, err := handler.projectRepo.FindByID(r.Context(), assignment.ProjectID); err == nil {
			entry.ProjectName = project.Name
			entry.StartTime = project.DefaultStartTime
			entry.VehicleIDs = project.VehicleIDs
		}
		response.Assignments = append(response.Assignments, entry)
	}

	if absence, err := handler.absenceRepo.FindByUserAndDate(r.Context(), user.ID, today); err == nil {
		response.Absence = &absence
	} else if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("loading today's absence", "error", err)
	}

	if timer, err := handler.timeEntryRepo.FindOpenByUser(r.Context(), user.ID); err == nil {
		response.OpenTimer = &timer
	} else if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("loading open timer", "error", err)
	}

	writeJSON(w, http.StatusOK, response)
}
