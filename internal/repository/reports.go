package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dverbeek/planboard/internal/models"
	"github.com/google/uuid"
)

type ReportFilter struct {
	UserID    string
	ProjectID string
	DateFrom  string
	DateTo    string
}

type ReportRepository interface {
	FindByID(ctx context.Context, id string) (models.Report, error)
	FindAll(ctx context.Context, filter ReportFilter) ([]models.Report, error)
	Upsert(ctx context.Context, report models.Report) (models.Report, error)
	Delete(ctx context.Context, id string) error
}

type SQLiteReportRepository struct {
	database *sql.DB
}

func NewReportRepository(database *sql.DB) *SQLiteReportRepository {
	return &SQLiteReportRepository{database: database}
}

const reportColumns = "id, user_id, project_id, date, notes, hours, created_at, updated_at"

func (repository *SQLiteReportRepository) FindByID(ctx context.Context, id string) (models.Report, error) {
	var report models.Report
	err := repository.database.QueryRowContext(ctx,
		"SELECT "+reportColumns+" FROM reports WHERE id = ?", id,
	).Scan(&report.ID, &report.UserID, &report.ProjectID, &report.Date,
		&report.Notes, &report.Hours, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		return models.Report{}, fmt.Errorf("finding report by id: %w", err)
	}
	return report, nil
}

func (repository *SQLiteReportRepository) FindAll(ctx context.Context, filter ReportFilter) ([]models.Report, error) {
	query := "SELECT " + reportColumns + " FROM reports WHERE 1=1"

	var args []any
	if filter.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filter.UserID)
	}
	if filter.ProjectID != "" {
		query += " AND project_id = ?"
		args = append(args, filter.ProjectID)
	}
	if filter.DateFrom != "" {
		query += " AND date >= ?"
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		query += " AND date <= ?"
		args = append(args, filter.DateTo)
	}
	query += " ORDER BY date DESC, user_id"

	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding reports: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var report models.Report
		if err := rows.Scan(&report.ID, &report.UserID, &report.ProjectID, &report.Date,
			&report.Notes, &report.Hours, &report.CreatedAt, &report.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// Upsert writes the report for its (user, project, date) slot, replacing any
// earlier submission for the same day.
func (repository *SQLiteReportRepository) Upsert(ctx context.Context, report models.Report) (models.Report, error) {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	now := time.Now()
	report.CreatedAt = now
	report.UpdatedAt = now

	_, err := repository.database.ExecContext(ctx,
		`INSERT INTO reports (id, user_id, project_id, date, notes, hours, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, project_id, date) DO UPDATE SET
			notes = excluded.notes,
			hours = excluded.hours,
			updated_at = excluded.updated_at`,
		report.ID, report.UserID, report.ProjectID, report.Date,
		report.Notes, report.Hours, report.CreatedAt, report.UpdatedAt,
	)
	if err != nil {
		return models.Report{}, fmt.Errorf("upserting report: %w", err)
	}

	saved, err := repository.findBySlot(ctx, report.UserID, report.ProjectID, report.Date)
	if err != nil {
		return models.Report{}, err
	}
	return saved, nil
}

func (repository *SQLiteReportRepository) findBySlot(ctx context.Context, userID, projectID, date string) (models.Report, error) {
	var report models.Report
	err := repository.database.QueryRowContext(ctx,
		"SELECT "+reportColumns+" FROM reports WHERE user_id = ? AND project_id = ? AND date = ?",
		userID, projectID, date,
	).Scan(&report.ID, &report.UserID, &report.ProjectID, &report.Date,
		&report.Notes, &report.Hours, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		return models.Report{}, fmt.Errorf("finding report slot: %w", err)
	}
	return report, nil
}

func (repository *SQLiteReportRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}
	return nil
}
