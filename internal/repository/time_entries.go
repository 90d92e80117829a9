package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dverbeek/planboard/internal/models"
	"github.com/google/uuid"
)

type TimeEntryRepository interface {
	FindByID(ctx context.Context, id string) (models.TimeEntry, error)
	FindOpenByUser(ctx context.Context, userID string) (models.TimeEntry, error)
	FindByUserRange(ctx context.Context, userID string, from time.Time, to time.Time) ([]models.TimeEntry, error)
	FindOpenBefore(ctx context.Context, cutoff time.Time) ([]models.TimeEntry, error)
	Start(ctx context.Context, userID string, projectID string, startTime time.Time) (models.TimeEntry, error)
	Stop(ctx context.Context, id string, endTime time.Time) error
	Delete(ctx context.Context, id string) error
}

type SQLiteTimeEntryRepository struct {
	database *sql.DB
}

func NewTimeEntryRepository(database *sql.DB) *SQLiteTimeEntryRepository {
	return &SQLiteTimeEntryRepository{database: database}
}

const timeEntryColumns = "id, user_id, project_id, start_time, end_time, created_at, updated_at"

func (repository *SQLiteTimeEntryRepository) FindByID(ctx context.Context, id string) (models.TimeEntry, error) {
	var entry models.TimeEntry
	err := repository.database.QueryRowContext(ctx,
		"SELECT "+timeEntryColumns+" FROM time_entries WHERE id = ?", id,
	).Scan(&entry.ID, &entry.UserID, &entry.ProjectID, &entry.StartTime, &entry.EndTime, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return models.TimeEntry{}, fmt.Errorf("finding time entry by id: %w", err)
	}
	return entry, nil
}

func (repository *SQLiteTimeEntryRepository) FindOpenByUser(ctx context.Context, userID string) (models.TimeEntry, error) {
	var entry models.TimeEntry
	err := repository.database.QueryRowContext(ctx,
		"SELECT "+timeEntryColumns+" FROM time_entries WHERE user_id = ? AND end_time IS NULL ORDER BY start_time DESC LIMIT 1",
		userID,
	).Scan(&entry.ID, &entry.UserID, &entry.ProjectID, &entry.StartTime, &entry.EndTime, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return models.TimeEntry{}, fmt.Errorf("finding open time entry: %w", err)
	}
	return entry, nil
}

func (repository *SQLiteTimeEntryRepository) FindByUserRange(ctx context.Context, userID string, from time.Time, to time.Time) ([]models.TimeEntry, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT "+timeEntryColumns+" FROM time_entries WHERE user_id = ? AND start_time >= ? AND start_time <= ? ORDER BY start_time",
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("finding time entries in range: %w", err)
	}
	defer rows.Close()

	var entries []models.TimeEntry
	for rows.Next() {
		var entry models.TimeEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.ProjectID, &entry.StartTime,
			&entry.EndTime, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning time entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// FindOpenBefore returns all running entries that started before the cutoff,
// regardless of owner. Used by the stale-timer sweeper.
func (repository *SQLiteTimeEntryRepository) FindOpenBefore(ctx context.Context, cutoff time.Time) ([]models.TimeEntry, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT "+timeEntryColumns+" FROM time_entries WHERE end_time IS NULL AND start_time < ? ORDER BY start_time",
		cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("finding stale time entries: %w", err)
	}
	defer rows.Close()

	var entries []models.TimeEntry
	for rows.Next() {
		var entry models.TimeEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.ProjectID, &entry.StartTime,
			&entry.EndTime, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning time entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (repository *SQLiteTimeEntryRepository) Start(ctx context.Context, userID string, projectID string, startTime time.Time) (models.TimeEntry, error) {
	entry := models.TimeEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProjectID: projectID,
		StartTime: startTime,
	}
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	_, err := repository.database.ExecContext(ctx,
		`INSERT INTO time_entries (id, user_id, project_id, start_time, end_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, NULL, ?, ?)`,
		entry.ID, entry.UserID, entry.ProjectID, entry.StartTime, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return models.TimeEntry{}, fmt.Errorf("starting time entry: %w", err)
	}
	return entry, nil
}

func (repository *SQLiteTimeEntryRepository) Stop(ctx context.Context, id string, endTime time.Time) error {
	_, err := repository.database.ExecContext(ctx,
		"UPDATE time_entries SET end_time = ?, updated_at = ? WHERE id = ? AND end_time IS NULL",
		endTime, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("stopping time entry: %w", err)
	}
	return nil
}

func (repository *SQLiteTimeEntryRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM time_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting time entry: %w", err)
	}
	return nil
}
