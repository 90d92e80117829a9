package planning

import (
	"context"

	"github.com/dverbeek/planboard/internal/models"
)

// Backend is the persistence collaborator the planning subsystem talks to.
// Implementations may return ErrNotFound to signal a missing record; any
// other error is treated as transient.
type Backend interface {
	FetchAssignments(ctx context.Context, userIDs []string, dateFrom string, dateTo string) ([]models.Assignment, error)
	CreateAssignment(ctx context.Context, userID string, projectID string, date string, notes string, createdBy string) (models.Assignment, error)
	// DeleteAssignment reports whether the assignment existed.
	DeleteAssignment(ctx context.Context, instanceID string) (bool, error)
	UpdateProjectVehicles(ctx context.Context, projectID string, vehicleIDs []string) (models.Project, error)
	UpdateProjectStartTime(ctx context.Context, projectID string, startTime *string) (models.Project, error)
	FetchEmployees(ctx context.Context, role models.Role) ([]models.User, error)
	FetchActiveProjects(ctx context.Context) ([]models.Project, error)
	// FetchAbsences supplies read-only absence context for the grid.
	FetchAbsences(ctx context.Context, userIDs []string, dateFrom string, dateTo string) ([]models.Absence, error)
}
