package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/dverbeek/planboard/internal/models"
	"github.com/dverbeek/planboard/internal/repository"
	"github.com/go-chi/chi/v5"
)

// ICalHandler serves a per-employee calendar feed so schedules show up in
// external calendar apps. Assignments and absences become all-day events.
type ICalHandler struct {
	userRepo       repository.UserRepository
	projectRepo    repository.ProjectRepository
	assignmentRepo repository.AssignmentRepository
	absenceRepo    repository.AbsenceRepository
}

func NewICalHandler(
	userRepo repository.UserRepository,
	projectRepo repository.ProjectRepository,
	assignmentRepo repository.AssignmentRepository,
	absenceRepo repository.AbsenceRepository,
) *ICalHandler {
	return &ICalHandler{
		userRepo:       userRepo,
		projectRepo:    projectRepo,
		assignmentRepo: assignmentRepo,
		absenceRepo:    absenceRepo,
	}
}

// Feed covers one month back and three months forward from today.
func (handler *ICalHandler) Feed(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	user, err := handler.userRepo.FindByID(r.Context(), userID)
	if err != nil {
		writeErrorJSON(w, http.StatusNotFound, "employee not found")
		return
	}

	now := time.Now()
	from := now.AddDate(0, -1, 0).Format("2006-01-02")
	to := now.AddDate(0, 3, 0).Format("2006-01-02")

	assignments, err := handler.assignmentRepo.FindRange(r.Context(), []string{userID}, from, to)
	if err != nil {
		slog.Error("loading assignments for feed", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}
	absences, err := handler.absenceRepo.FindAll(r.Context(), repository.AbsenceFilter{
		UserID: userID, DateFrom: from, DateTo: to,
	})
	if err != nil {
		slog.Error("loading absences for feed", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	projects, err := handler.projectRepo.FindAll(r.Context())
	if err != nil {
		slog.Error("loading projects for feed", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}
	projectNames := make(map[string]string, len(projects))
	for _, project := range projects {
		projectNames[project.ID] = project.Name
	}

	calendar := ical.NewCalendar()
	calendar.SetMethod(ical.MethodPublish)
	calendar.SetProductId("-//planboard//schedule//EN")

	for _, assignment := range assignments {
		day, err := time.Parse("2006-01-02", assignment.Date)
		if err != nil {
			continue
		}

		title := "Unknown project"
		if name, ok := projectNames[assignment.ProjectID]; ok {
			title = name
		}

		event := calendar.AddEvent(fmt.Sprintf("assignment-%s@planboard", assignment.ID))
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(day)
		event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		event.SetSummary(title)
		if assignment.Notes != "" {
			event.SetDescription(assignment.Notes)
		}
	}

	for _, absence := range absences {
		day, err := time.Parse("2006-01-02", absence.Date)
		if err != nil {
			continue
		}

		event := calendar.AddEvent(fmt.Sprintf("absence-%s-%s@planboard", absence.UserID, absence.Date))
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(day)
		event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		event.SetSummary(absenceSummary(absence.Type))
		if absence.Notes != "" {
			event.SetDescription(absence.Notes)
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", user.Name+".ics"))
	if _, err := w.Write([]byte(calendar.Serialize())); err != nil {
		slog.Error("writing calendar feed", "error", err)
	}
}

func absenceSummary(absenceType models.AbsenceType) string {
	switch absenceType {
	case models.AbsenceVacation:
		return "Vacation"
	case models.AbsenceSick:
		return "Sick leave"
	default:
		return "Absent"
	}
}
