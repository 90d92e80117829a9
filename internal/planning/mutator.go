package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/dverbeek/planboard/internal/models"
	"github.com/google/uuid"
)

// Mutator implements the assignment mutation protocol: every write is an
// optimistic local change followed by a backend call, with a defined
// rollback when the backend call fails. All entry points are safe against
// rapid repeated invocation.
type Mutator struct {
	store   *Store
	backend Backend
}

func NewMutator(store *Store, backend Backend) *Mutator {
	return &Mutator{store: store, backend: backend}
}

// Assign schedules projectID for userID on the given day. The new entry is
// readable from the store immediately, carrying a placeholder id until the
// backend confirms; on failure the optimistic entry is removed again.
func (mutator *Mutator) Assign(ctx context.Context, projectID string, userID string, isoDay string, notes string, createdBy string) (models.Assignment, error) {
	if projectID == "" {
		return models.Assignment{}, fmt.Errorf("%w: project is required", ErrValidation)
	}
	if userID == "" {
		return models.Assignment{}, fmt.Errorf("%w: employee is required", ErrValidation)
	}
	if _, err := time.Parse(isoDate, isoDay); err != nil {
		return models.Assignment{}, fmt.Errorf("%w: invalid date %q", ErrValidation, isoDay)
	}
	if _, ok := mutator.store.Project(projectID); !ok {
		return models.Assignment{}, fmt.Errorf("%w: unknown project %s", ErrValidation, projectID)
	}
	if _, ok := mutator.store.Employee(userID); !ok {
		return models.Assignment{}, fmt.Errorf("%w: unknown employee %s", ErrValidation, userID)
	}

	placeholder := models.Assignment{
		ID:              "pending-" + uuid.New().String(),
		UserID:          userID,
		ProjectID:       projectID,
		Date:            isoDay,
		Notes:           notes,
		CreatedByUserID: createdBy,
		CreatedAt:       time.Now(),
	}
	mutator.store.appendOptimistic(placeholder)

	confirmed, err := mutator.backend.CreateAssignment(ctx, userID, projectID, isoDay, notes, createdBy)
	if err != nil {
		mutator.store.dropOptimistic(placeholder)
		return models.Assignment{}, classify(fmt.Errorf("creating assignment: %w", err))
	}

	mutator.store.confirmCreate(placeholder.ID, confirmed)
	return confirmed, nil
}

// Remove deletes the assignment matching instanceID from its bucket.
// Removing an unknown or already-removed id is a no-op; a backend notFound
// reconciles the same way, since the local entry was already dangling. On a
// transient failure the entry is restored at its original position.
func (mutator *Mutator) Remove(ctx context.Context, userID string, isoDay string, instanceID string) error {
	taken, ok := mutator.store.takeEntry(userID, isoDay, instanceID)
	if !ok {
		return nil
	}

	existed, err := mutator.backend.DeleteAssignment(ctx, instanceID)
	if err != nil {
		mutator.store.restoreEntry(taken)
		return classify(fmt.Errorf("deleting assignment: %w", err))
	}

	mutator.store.settleDelete(instanceID)
	if !existed {
		// Already gone remotely; the local removal stands.
		return nil
	}
	return nil
}

// SetProjectVehicles retags the project's vehicle set. The change lives on
// the project, so every cell currently displaying it picks up the new set
// at render time. Concurrent edits resolve last-write-wins.
func (mutator *Mutator) SetProjectVehicles(ctx context.Context, projectID string, vehicleIDs []string) (models.Project, error) {
	previous, ok := mutator.store.Project(projectID)
	if !ok {
		return models.Project{}, fmt.Errorf("%w: unknown project %s", ErrValidation, projectID)
	}

	optimistic := previous
	optimistic.VehicleIDs = vehicleIDs
	mutator.store.putProject(optimistic)

	confirmed, err := mutator.backend.UpdateProjectVehicles(ctx, projectID, vehicleIDs)
	if err != nil {
		mutator.store.putProject(previous)
		return models.Project{}, classify(fmt.Errorf("updating project vehicles: %w", err))
	}

	mutator.store.putProject(confirmed)
	return confirmed, nil
}

// SetProjectStartTime updates the project's default start time ("HH:MM"),
// with the same retroactive, last-write-wins semantics as vehicle tagging.
func (mutator *Mutator) SetProjectStartTime(ctx context.Context, projectID string, startTime *string) (models.Project, error) {
	if startTime != nil {
		if _, err := time.Parse("15:04", *startTime); err != nil {
			return models.Project{}, fmt.Errorf("%w: invalid start time %q", ErrValidation, *startTime)
		}
	}

	previous, ok := mutator.store.Project(projectID)
	if !ok {
		return models.Project{}, fmt.Errorf("%w: unknown project %s", ErrValidation, projectID)
	}

	optimistic := previous
	optimistic.DefaultStartTime = startTime
	mutator.store.putProject(optimistic)

	confirmed, err := mutator.backend.UpdateProjectStartTime(ctx, projectID, startTime)
	if err != nil {
		mutator.store.putProject(previous)
		return models.Project{}, classify(fmt.Errorf("updating project start time: %w", err))
	}

	mutator.store.putProject(confirmed)
	return confirmed, nil
}
