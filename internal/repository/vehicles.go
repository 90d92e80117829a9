package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dverbeek/planboard/internal/models"
	"github.com/google/uuid"
)

type VehicleRepository interface {
	FindByID(ctx context.Context, id string) (models.Vehicle, error)
	FindAll(ctx context.Context) ([]models.Vehicle, error)
	Create(ctx context.Context, vehicle models.Vehicle) (models.Vehicle, error)
	Update(ctx context.Context, vehicle models.Vehicle) error
	Delete(ctx context.Context, id string) error
}

type SQLiteVehicleRepository struct {
	database *sql.DB
}

func NewVehicleRepository(database *sql.DB) *SQLiteVehicleRepository {
	return &SQLiteVehicleRepository{database: database}
}

func (repository *SQLiteVehicleRepository) FindByID(ctx context.Context, id string) (models.Vehicle, error) {
	var vehicle models.Vehicle
	err := repository.database.QueryRowContext(ctx,
		"SELECT id, name, registration, created_at, updated_at FROM vehicles WHERE id = ?", id,
	).Scan(&vehicle.ID, &vehicle.Name, &vehicle.Registration, &vehicle.CreatedAt, &vehicle.UpdatedAt)
	if err != nil {
		return models.Vehicle{}, fmt.Errorf("finding vehicle by id: %w", err)
	}
	return vehicle, nil
}

func (repository *SQLiteVehicleRepository) FindAll(ctx context.Context) ([]models.Vehicle, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT id, name, registration, created_at, updated_at FROM vehicles ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("finding all vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		var vehicle models.Vehicle
		if err := rows.Scan(&vehicle.ID, &vehicle.Name, &vehicle.Registration, &vehicle.CreatedAt, &vehicle.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning vehicle: %w", err)
		}
		vehicles = append(vehicles, vehicle)
	}
	return vehicles, rows.Err()
}

func (repository *SQLiteVehicleRepository) Create(ctx context.Context, vehicle models.Vehicle) (models.Vehicle, error) {
	if vehicle.ID == "" {
		vehicle.ID = uuid.New().String()
	}
	now := time.Now()
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO vehicles (id, name, registration, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		vehicle.ID, vehicle.Name, vehicle.Registration, vehicle.CreatedAt, vehicle.UpdatedAt,
	)
	if err != nil {
		return models.Vehicle{}, fmt.Errorf("creating vehicle: %w", err)
	}
	return vehicle, nil
}

func (repository *SQLiteVehicleRepository) Update(ctx context.Context, vehicle models.Vehicle) error {
	_, err := repository.database.ExecContext(ctx,
		"UPDATE vehicles SET name = ?, registration = ?, updated_at = ? WHERE id = ?",
		vehicle.Name, vehicle.Registration, time.Now(), vehicle.ID,
	)
	if err != nil {
		return fmt.Errorf("updating vehicle: %w", err)
	}
	return nil
}

func (repository *SQLiteVehicleRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM vehicles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting vehicle: %w", err)
	}
	return nil
}
