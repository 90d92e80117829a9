package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dverbeek/planboard/internal/models"
)

type AbsenceFilter struct {
	UserID   string
	DateFrom string
	DateTo   string
}

type AbsenceRepository interface {
	FindByUserAndDate(ctx context.Context, userID string, date string) (models.Absence, error)
	FindAll(ctx context.Context, filter AbsenceFilter) ([]models.Absence, error)
	Upsert(ctx context.Context, absence models.Absence) error
	Delete(ctx context.Context, userID string, date string) error
}

type SQLiteAbsenceRepository struct {
	database *sql.DB
}

func NewAbsenceRepository(database *sql.DB) *SQLiteAbsenceRepository {
	return &SQLiteAbsenceRepository{database: database}
}

func (repository *SQLiteAbsenceRepository) FindByUserAndDate(ctx context.Context, userID string, date string) (models.Absence, error) {
	var absence models.Absence
	err := repository.database.QueryRowContext(ctx,
		`SELECT user_id, date, type, notes, created_at, updated_at
		FROM absences WHERE user_id = ? AND date = ?`, userID, date,
	).Scan(&absence.UserID, &absence.Date, &absence.Type, &absence.Notes, &absence.CreatedAt, &absence.UpdatedAt)
	if err != nil {
		return models.Absence{}, fmt.Errorf("finding absence: %w", err)
	}
	return absence, nil
}

func (repository *SQLiteAbsenceRepository) FindAll(ctx context.Context, filter AbsenceFilter) ([]models.Absence, error) {
	query := `SELECT user_id, date, type, notes, created_at, updated_at FROM absences WHERE 1=1`

	var args []any
	if filter.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filter.UserID)
	}
	if filter.DateFrom != "" {
		query += " AND date >= ?"
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		query += " AND date <= ?"
		args = append(args, filter.DateTo)
	}
	query += " ORDER BY date ASC, user_id"

	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding absences: %w", err)
	}
	defer rows.Close()

	var absences []models.Absence
	for rows.Next() {
		var absence models.Absence
		if err := rows.Scan(&absence.UserID, &absence.Date, &absence.Type, &absence.Notes,
			&absence.CreatedAt, &absence.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning absence: %w", err)
		}
		absences = append(absences, absence)
	}
	return absences, rows.Err()
}

func (repository *SQLiteAbsenceRepository) Upsert(ctx context.Context, absence models.Absence) error {
	now := time.Now()
	_, err := repository.database.ExecContext(ctx,
		`INSERT INTO absences (user_id, date, type, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
			type = excluded.type,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		absence.UserID, absence.Date, absence.Type, absence.Notes, now, now,
	)
	if err != nil {
		return fmt.Errorf("upserting absence: %w", err)
	}
	return nil
}

func (repository *SQLiteAbsenceRepository) Delete(ctx context.Context, userID string, date string) error {
	_, err := repository.database.ExecContext(ctx,
		"DELETE FROM absences WHERE user_id = ? AND date = ?", userID, date,
	)
	if err != nil {
		return fmt.Errorf("deleting absence: %w", err)
	}
	return nil
}
