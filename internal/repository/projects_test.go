package repository_test

import (
	"context"
	"testing"

	"github.com/dverbeek/planboard/internal/models"
	"github.com/dverbeek/planboard/internal/repository"
	"github.com/dverbeek/planboard/internal/testutil"
)

func TestProjectRepository_CreateAndFindByID(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewProjectRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, models.Project{
		Name:        "Harbour refit",
		Description: "Quay wall section 3",
	})
	if err != nil {
		t.Fatalf("creating project: %v", err)
	}
	if created.Status != models.ProjectStatusActive {
		t.Errorf("expected default status active, got '%s'", created.Status)
	}

	found, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("finding project: %v", err)
	}
	if found.Name != "Harbour refit" {
		t.Errorf("expected name 'Harbour refit', got '%s'", found.Name)
	}
}

func TestProjectRepository_FindActiveExcludesArchived(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewProjectRepository(db)
	ctx := context.Background()

	active, _ := repo.Create(ctx, models.Project{Name: "Active"})
	archived, _ := repo.Create(ctx, models.Project{Name: "Old"})

	if err := repo.Archive(ctx, archived.ID); err != nil {
		t.Fatalf("archiving project: %v", err)
	}

	projects, err := repo.FindActive(ctx)
	if err != nil {
		t.Fatalf("finding active projects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected 1 active project, got %d", len(projects))
	}
	if projects[0].ID != active.ID {
		t.Error("expected the non-archived project")
	}
}

func TestProjectRepository_UpdateVehiclesReplacesSet(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewProjectRepository(db)
	ctx := context.Background()

	project := createTestProject(t, db, "Harbour refit")
	van := createTestVehicle(t, db, "van")
	truck := createTestVehicle(t, db, "truck")

	if err := repo.UpdateVehicles(ctx, project.ID, []string{van.ID, truck.ID}); err != nil {
		t.Fatalf("setting vehicles: %v", err)
	}

	found, _ := repo.FindByID(ctx, project.ID)
	if len(found.VehicleIDs) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(found.VehicleIDs))
	}

	if err := repo.UpdateVehicles(ctx, project.ID, []string{truck.ID}); err != nil {
		t.Fatalf("replacing vehicles: %v", err)
	}

	found, _ = repo.FindByID(ctx, project.ID)
	if len(found.VehicleIDs) != 1 {
		t.Fatalf("expected 1 vehicle after replace, got %d", len(found.VehicleIDs))
	}
	if found.VehicleIDs[0] != truck.ID {
		t.Error("expected only the truck to remain")
	}
}

func TestProjectRepository_UpdateStartTime(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewProjectRepository(db)
	ctx := context.Background()

	project := createTestProject(t, db, "Harbour refit")

	startTime := "07:30"
	if err := repo.UpdateStartTime(ctx, project.ID, &startTime); err != nil {
		t.Fatalf("setting start time: %v", err)
	}

	found, _ := repo.FindByID(ctx, project.ID)
	if found.DefaultStartTime == nil || *found.DefaultStartTime != "07:30" {
		t.Errorf("expected start time 07:30, got %v", found.DefaultStartTime)
	}

	if err := repo.UpdateStartTime(ctx, project.ID, nil); err != nil {
		t.Fatalf("clearing start time: %v", err)
	}

	found, _ = repo.FindByID(ctx, project.ID)
	if found.DefaultStartTime != nil {
		t.Errorf("expected cleared start time, got %v", *found.DefaultStartTime)
	}
}
