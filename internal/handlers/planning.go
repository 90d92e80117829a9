package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dverbeek/planboard/internal/middleware"
	"github.com/dverbeek/planboard/internal/planning"
	"github.com/dverbeek/planboard/internal/services"
	"github.com/go-chi/chi/v5"
)

type PlanningHandler struct {
	planningService *services.PlanningService
	exportService   *services.ExportService
}

func NewPlanningHandler(planningService *services.PlanningService, exportService *services.ExportService) *PlanningHandler {
	return &PlanningHandler{planningService: planningService, exportService: exportService}
}

// Grid serves the schedule grid. ?selector picks the range, week selectors
// render all employees, month selectors render one employee's calendar.
func (handler *PlanningHandler) Grid(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	selector := planning.ParseSelector(r.URL.Query().Get("selector"))

	mode := planning.ViewWeek
	if selector.IsMonth() {
		mode = planning.ViewMonth
	}

	grid, err := handler.planningService.Grid(r.Context(), services.GridRequest{
		Selector:   selector,
		Mode:       mode,
		EmployeeID: r.URL.Query().Get("employee_id"),
		CanEdit:    user.Role.CanPlan(),
	})
	if err != nil {
		writePlanningError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, grid)
}

type assignRequest struct {
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	Notes     string `json:"notes"`
}

func (handler *PlanningHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var request assignRequest
	if err := decodeJSON(r, &request); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user := middleware.GetUser(r.Context())
	assignment, err := handler.planningService.Assign(r.Context(),
		request.ProjectID, request.UserID, request.Date, request.Notes, user.ID)
	if err != nil {
		writePlanningError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, assignment)
}

func (handler *PlanningHandler) Remove(w http.ResponseWriter, r *http.Request) {
	instanceID := chi.URLParam(r, "id")
	userID := r.URL.Query().Get("user_id")
	date := r.URL.Query().Get("date")

	if err := handler.planningService.Remove(r.Context(), userID, date, instanceID); err != nil {
		writePlanningError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type projectVehiclesRequest struct {
	VehicleIDs []string `json:"vehicle_ids"`
}

// ProjectVehicles replaces a project's vehicle set. The change shows up on
// every scheduled instance of the project, past and future.
func (handler *PlanningHandler) ProjectVehicles(w http.ResponseWriter, r *http.Request) {
	var request projectVehiclesRequest
	if err := decodeJSON(r, &request); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := handler.planningService.SetProjectVehicles(r.Context(), chi.URLParam(r, "id"), request.VehicleIDs)
	if err != nil {
		writePlanningError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

type projectStartTimeRequest struct {
	StartTime *string `json:"start_time"`
}

func (handler *PlanningHandler) ProjectStartTime(w http.ResponseWriter, r *http.Request) {
	var request projectStartTimeRequest
	if err := decodeJSON(r, &request); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := handler.planningService.SetProjectStartTime(r.Context(), chi.URLParam(r, "id"), request.StartTime)
	if err != nil {
		writePlanningError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// Export streams the current grid as an XLSX workbook.
func (handler *PlanningHandler) Export(w http.ResponseWriter, r *http.Request) {
	selector := planning.ParseSelector(r.URL.Query().Get("selector"))

	workbook, err := handler.exportService.Workbook(r.Context(), selector, time.Now())
	if err != nil {
		writePlanningError(w, err)
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("schedule-%s-%s.xlsx", selector, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := workbook.Write(w); err != nil {
		slog.Error("writing workbook", "error", err)
	}
}
