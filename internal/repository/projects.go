package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dverbeek/planboard/internal/models"
	"github.com/google/uuid"
)

type ProjectRepository interface {
	FindByID(ctx context.Context, id string) (models.Project, error)
	FindAll(ctx context.Context) ([]models.Project, error)
	FindActive(ctx context.Context) ([]models.Project, error)
	Create(ctx context.Context, project models.Project) (models.Project, error)
	Update(ctx context.Context, project models.Project) error
	Archive(ctx context.Context, id string) error
	UpdateVehicles(ctx context.Context, id string, vehicleIDs []string) error
	UpdateStartTime(ctx context.Context, id string, startTime *string) error
}

type SQLiteProjectRepository struct {
	database *sql.DB
}

func NewProjectRepository(database *sql.DB) *SQLiteProjectRepository {
	return &SQLiteProjectRepository{database: database}
}

func (repository *SQLiteProjectRepository) FindByID(ctx context.Context, id string) (models.Project, error) {
	var project models.Project
	err := repository.database.QueryRowContext(ctx,
		`SELECT id, name, description, status, default_start_time, created_by_user_id, created_at, updated_at
		FROM projects WHERE id = ?`, id,
	).Scan(&project.ID, &project.Name, &project.Description, &project.Status,
		&project.DefaultStartTime, &project.CreatedByUserID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return models.Project{}, fmt.Errorf("finding project by id: %w", err)
	}

	vehicleIDs, err := repository.vehicleIDsFor(ctx, project.ID)
	if err != nil {
		return models.Project{}, err
	}
	project.VehicleIDs = vehicleIDs
	return project, nil
}

func (repository *SQLiteProjectRepository) FindAll(ctx context.Context) ([]models.Project, error) {
	return repository.findProjects(ctx,
		`SELECT id, name, description, status, default_start_time, created_by_user_id, created_at, updated_at
		FROM projects ORDER BY name`)
}

func (repository *SQLiteProjectRepository) FindActive(ctx context.Context) ([]models.Project, error) {
	return repository.findProjects(ctx,
		`SELECT id, name, description, status, default_start_time, created_by_user_id, created_at, updated_at
		FROM projects WHERE status = 'active' ORDER BY name`)
}

func (repository *SQLiteProjectRepository) findProjects(ctx context.Context, query string, args ...any) ([]models.Project, error) {
	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var project models.Project
		if err := rows.Scan(&project.ID, &project.Name, &project.Description, &project.Status,
			&project.DefaultStartTime, &project.CreatedByUserID, &project.CreatedAt, &project.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for index := range projects {
		vehicleIDs, err := repository.vehicleIDsFor(ctx, projects[index].ID)
		if err != nil {
			return nil, err
		}
		projects[index].VehicleIDs = vehicleIDs
	}
	return projects, nil
}

func (repository *SQLiteProjectRepository) vehicleIDsFor(ctx context.Context, projectID string) ([]string, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT vehicle_id FROM project_vehicles WHERE project_id = ? ORDER BY vehicle_id", projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding project vehicles: %w", err)
	}
	defer rows.Close()

	var vehicleIDs []string
	for rows.Next() {
		var vehicleID string
		if err := rows.Scan(&vehicleID); err != nil {
			return nil, fmt.Errorf("scanning project vehicle: %w", err)
		}
		vehicleIDs = append(vehicleIDs, vehicleID)
	}
	return vehicleIDs, rows.Err()
}

func (repository *SQLiteProjectRepository) Create(ctx context.Context, project models.Project) (models.Project, error) {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if project.Status == "" {
		project.Status = models.ProjectStatusActive
	}
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err := repository.database.ExecContext(ctx,
		`INSERT INTO projects (id, name, description, status, default_start_time, created_by_user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.Name, project.Description, project.Status,
		project.DefaultStartTime, project.CreatedByUserID, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return models.Project{}, fmt.Errorf("creating project: %w", err)
	}

	if len(project.VehicleIDs) > 0 {
		if err := repository.UpdateVehicles(ctx, project.ID, project.VehicleIDs); err != nil {
			return models.Project{}, err
		}
	}
	return project, nil
}

func (repository *SQLiteProjectRepository) Update(ctx context.Context, project models.Project) error {
	_, err := repository.database.ExecContext(ctx,
		"UPDATE projects SET name = ?, description = ?, status = ?, updated_at = ? WHERE id = ?",
		project.Name, project.Description, project.Status, time.Now(), project.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return nil
}

func (repository *SQLiteProjectRepository) Archive(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx,
		"UPDATE projects SET status = ?, updated_at = ? WHERE id = ?",
		models.ProjectStatusArchived, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("archiving project: %w", err)
	}
	return nil
}

// UpdateVehicles replaces the project's vehicle set. Last write wins when two
// planners edit the same project concurrently.
func (repository *SQLiteProjectRepository) UpdateVehicles(ctx context.Context, id string, vehicleIDs []string) error {
	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning vehicle update: %w", err)
	}

	if _, err := transaction.ExecContext(ctx,
		"DELETE FROM project_vehicles WHERE project_id = ?", id); err != nil {
		transaction.Rollback()
		return fmt.Errorf("clearing project vehicles: %w", err)
	}

	for _, vehicleID := range vehicleIDs {
		if _, err := transaction.ExecContext(ctx,
			"INSERT INTO project_vehicles (project_id, vehicle_id) VALUES (?, ?)", id, vehicleID); err != nil {
			transaction.Rollback()
			return fmt.Errorf("adding project vehicle: %w", err)
		}
	}

	if _, err := transaction.ExecContext(ctx,
		"UPDATE projects SET updated_at = ? WHERE id = ?", time.Now(), id); err != nil {
		transaction.Rollback()
		return fmt.Errorf("touching project: %w", err)
	}

	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("committing vehicle update: %w", err)
	}
	return nil
}

func (repository *SQLiteProjectRepository) UpdateStartTime(ctx context.Context, id string, startTime *string) error {
	_, err := repository.database.ExecContext(ctx,
		"UPDATE projects SET default_start_time = ?, updated_at = ? WHERE id = ?",
		startTime, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("updating project start time: %w", err)
	}
	return nil
}
