package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dverbeek/planboard/internal/models"
	"github.com/dverbeek/planboard/internal/planning"
	"github.com/dverbeek/planboard/internal/repository"
)

// PlanningBackend adapts the SQLite repositories to the planning package's
// persistence collaborator interface, translating missing rows into the
// planning error taxonomy.
type PlanningBackend struct {
	assignmentRepo repository.AssignmentRepository
	projectRepo    repository.ProjectRepository
	userRepo       repository.UserRepository
	absenceRepo    repository.AbsenceRepository
}

func NewPlanningBackend(
	assignmentRepo repository.AssignmentRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	absenceRepo repository.AbsenceRepository,
) *PlanningBackend {
	return &PlanningBackend{
		assignmentRepo: assignmentRepo,
		projectRepo:    projectRepo,
		userRepo:       userRepo,
		absenceRepo:    absenceRepo,
	}
}

func (backend *PlanningBackend) FetchAssignments(ctx context.Context, userIDs []string, dateFrom string, dateTo string) ([]models.Assignment, error) {
	return backend.assignmentRepo.FindRange(ctx, userIDs, dateFrom, dateTo)
}

func (backend *PlanningBackend) CreateAssignment(ctx context.Context, userID string, projectID string, date string, notes string, createdBy string) (models.Assignment, error) {
	if _, err := backend.projectRepo.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Assignment{}, fmt.Errorf("%w: project %s", planning.ErrNotFound, projectID)
		}
		return models.Assignment{}, err
	}
	if _, err := backend.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Assignment{}, fmt.Errorf("%w: employee %s", planning.ErrNotFound, userID)
		}
		return models.Assignment{}, err
	}

	return backend.assignmentRepo.Create(ctx, models.Assignment{
		UserID:          userID,
		ProjectID:       projectID,
		Date:            date,
		Notes:           notes,
		CreatedByUserID: createdBy,
	})
}

func (backend *PlanningBackend) DeleteAssignment(ctx context.Context, instanceID string) (bool, error) {
	return backend.assignmentRepo.Delete(ctx, instanceID)
}

func (backend *PlanningBackend) UpdateProjectVehicles(ctx context.Context, projectID string, vehicleIDs []string) (models.Project, error) {
	if err := backend.projectRepo.UpdateVehicles(ctx, projectID, vehicleIDs); err != nil {
		return models.Project{}, err
	}
	return backend.fetchProject(ctx, projectID)
}

func (backend *PlanningBackend) UpdateProjectStartTime(ctx context.Context, projectID string, startTime *string) (models.Project, error) {
	if err := backend.projectRepo.UpdateStartTime(ctx, projectID, startTime); err != nil {
		return models.Project{}, err
	}
	return backend.fetchProject(ctx, projectID)
}

func (backend *PlanningBackend) fetchProject(ctx context.Context, projectID string) (models.Project, error) {
	project, err := backend.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Project{}, fmt.Errorf("%w: project %s", planning.ErrNotFound, projectID)
		}
		return models.Project{}, err
	}
	return project, nil
}

func (backend *PlanningBackend) FetchEmployees(ctx context.Context, role models.Role) ([]models.User, error) {
	if role == "" {
		return backend.userRepo.FindAll(ctx)
	}
	return backend.userRepo.FindByRole(ctx, role)
}

func (backend *PlanningBackend) FetchActiveProjects(ctx context.Context) ([]models.Project, error) {
	return backend.projectRepo.FindActive(ctx)
}

// FetchAbsences returns absences for the grid range. Absences are display
// context only, so they come from the filter query rather than the store.
func (backend *PlanningBackend) FetchAbsences(ctx context.Context, userIDs []string, dateFrom string, dateTo string) ([]models.Absence, error) {
	found, err := backend.absenceRepo.FindAll(ctx, repository.AbsenceFilter{
		DateFrom: dateFrom,
		DateTo:   dateTo,
	})
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(userIDs))
	for _, userID := range userIDs {
		wanted[userID] = true
	}

	var absences []models.Absence
	for _, absence := range found {
		if wanted[absence.UserID] {
			absences = append(absences, absence)
		}
	}
	return absences, nil
}
