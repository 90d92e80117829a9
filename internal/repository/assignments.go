package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dverbeek/planboard/internal/models"
	"github.com/google/uuid"
)

type AssignmentRepository interface {
	FindByID(ctx context.Context, id string) (models.Assignment, error)
	FindRange(ctx context.Context, userIDs []string, dateFrom string, dateTo string) ([]models.Assignment, error)
	Create(ctx context.Context, assignment models.Assignment) (models.Assignment, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type SQLiteAssignmentRepository struct {
	database *sql.DB
}

func NewAssignmentRepository(database *sql.DB) *SQLiteAssignmentRepository {
	return &SQLiteAssignmentRepository{database: database}
}

const assignmentColumns = "id, user_id, project_id, date, position, notes, created_by_user_id, created_at"

func (repository *SQLiteAssignmentRepository) FindByID(ctx context.Context, id string) (models.Assignment, error) {
	var assignment models.Assignment
	err := repository.database.QueryRowContext(ctx,
		"SELECT "+assignmentColumns+" FROM assignments WHERE id = ?", id,
	).Scan(&assignment.ID, &assignment.UserID, &assignment.ProjectID, &assignment.Date,
		&assignment.Position, &assignment.Notes, &assignment.CreatedByUserID, &assignment.CreatedAt)
	if err != nil {
		return models.Assignment{}, fmt.Errorf("finding assignment by id: %w", err)
	}
	return assignment, nil
}

// FindRange returns all assignments for the given users with dates inside
// [dateFrom, dateTo], both inclusive, ordered so that every (user, date)
// bucket comes back in insertion order.
func (repository *SQLiteAssignmentRepository) FindRange(ctx context.Context, userIDs []string, dateFrom string, dateTo string) ([]models.Assignment, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(userIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(userIDs)+2)
	for _, userID := range userIDs {
		args = append(args, userID)
	}
	args = append(args, dateFrom, dateTo)

	rows, err := repository.database.QueryContext(ctx,
		"SELECT "+assignmentColumns+" FROM assignments WHERE user_id IN ("+placeholders+")"+
			" AND date >= ? AND date <= ? ORDER BY date, user_id, position, created_at",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("finding assignments in range: %w", err)
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		var assignment models.Assignment
		if err := rows.Scan(&assignment.ID, &assignment.UserID, &assignment.ProjectID, &assignment.Date,
			&assignment.Position, &assignment.Notes, &assignment.CreatedByUserID, &assignment.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		assignments = append(assignments, assignment)
	}
	return assignments, rows.Err()
}

// Create appends the assignment to its (user, date) bucket. Position is
// assigned server-side so that display order is insertion order.
func (repository *SQLiteAssignmentRepository) Create(ctx context.Context, assignment models.Assignment) (models.Assignment, error) {
	if assignment.ID == "" {
		assignment.ID = uuid.New().String()
	}
	assignment.CreatedAt = time.Now()

	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return models.Assignment{}, fmt.Errorf("beginning assignment create: %w", err)
	}

	var maxPosition sql.NullInt64
	if err := transaction.QueryRowContext(ctx,
		"SELECT MAX(position) FROM assignments WHERE user_id = ? AND date = ?",
		assignment.UserID, assignment.Date,
	).Scan(&maxPosition); err != nil {
		transaction.Rollback()
		return models.Assignment{}, fmt.Errorf("finding bucket position: %w", err)
	}
	assignment.Position = 0
	if maxPosition.Valid {
		assignment.Position = int(maxPosition.Int64) + 1
	}

	if _, err := transaction.ExecContext(ctx,
		`INSERT INTO assignments (id, user_id, project_id, date, position, notes, created_by_user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		assignment.ID, assignment.UserID, assignment.ProjectID, assignment.Date,
		assignment.Position, assignment.Notes, assignment.CreatedByUserID, assignment.CreatedAt,
	); err != nil {
		transaction.Rollback()
		return models.Assignment{}, fmt.Errorf("creating assignment: %w", err)
	}

	if err := transaction.Commit(); err != nil {
		return models.Assignment{}, fmt.Errorf("committing assignment create: %w", err)
	}
	return assignment, nil
}

// Delete removes the assignment and reports whether it existed. Deleting an
// unknown id is not an error.
func (repository *SQLiteAssignmentRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := repository.database.ExecContext(ctx, "DELETE FROM assignments WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting assignment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking deleted assignment: %w", err)
	}
	return affected > 0, nil
}
