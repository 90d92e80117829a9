package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dverbeek/planboard/internal/middleware"
	"github.com/dverbeek/planboard/internal/models"
	"github.com/dverbeek/planboard/internal/repository"
	"github.com/go-chi/chi/v5"
)

type ProjectHandler struct {
	projectRepo repository.ProjectRepository
}

func NewProjectHandler(projectRepo repository.ProjectRepository) *ProjectHandler {
	return &ProjectHandler{projectRepo: projectRepo}
}

func (handler *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		projects []models.Project
		err      error
	)
	if r.URL.Query().Get("status") == "active" {
		projects, err = handler.projectRepo.FindActive(r.Context())
	} else {
		projects, err = handler.projectRepo.FindAll(r.Context())
	}
	if err != nil {
		slog.Error("listing projects", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

func (handler *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := handler.projectRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeErrorJSON(w, http.StatusNotFound, "project not found")
			return
		}
		slog.Error("finding project", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, project)
}

type projectRequest struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	VehicleIDs       []string `json:"vehicle_ids"`
	DefaultStartTime *string  `json:"default_start_time"`
}

func (handler *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request projectRequest
	if err := decodeJSON(r, &request); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Name == "" {
		writeErrorJSON(w, http.StatusBadRequest, "name is required")
		return
	}

	user := middleware.GetUser(r.Context())
	project, err := handler.projectRepo.Create(r.Context(), models.Project{
		Name:             request.Name,
		Description:      request.Description,
		VehicleIDs:       request.VehicleIDs,
		DefaultStartTime: request.DefaultStartTime,
		CreatedByUserID:  user.ID,
	})
	if err != nil {
		slog.Error("creating project", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

func (handler *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	var request projectRequest
	if err := decodeJSON(r, &request); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := handler.projectRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeErrorJSON(w, http.StatusNotFound, "project not found")
			return
		}
		slog.Error("finding project", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	project.Name = request.Name
	project.Description = request.Description
	if err := handler.projectRepo.Update(r.Context(), project); err != nil {
		slog.Error("updating project", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// Archive retires a project from the active catalog. Existing assignments
// keep pointing at it; the grid falls back to a placeholder title only if
// the project row is ever hard-deleted.
func (handler *ProjectHandler) Archive(w http.ResponseWriter, r *http.Request) {
	if err := handler.projectRepo.Archive(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("archiving project", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
