package repository_test

import (
	"context"
	"testing"

	"github.com/dverbeek/planboard/internal/models"
	"github.com/dverbeek/planboard/internal/repository"
	"github.com/dverbeek/planboard/internal/testutil"
)

func TestReportRepository_UpsertReplacesSlot(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewReportRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "ana")
	project := createTestProject(t, db, "Harbour refit")

	first, err := repo.Upsert(ctx, models.Report{
		UserID: user.ID, ProjectID: project.ID, Date: "2024-06-03", Hours: 4, Notes: "morning",
	})
	if err != nil {
		t.Fatalf("upserting report: %v", err)
	}

	second, err := repo.Upsert(ctx, models.Report{
		UserID: user.ID, ProjectID: project.ID, Date: "2024-06-03", Hours: 8, Notes: "full day",
	})
	if err != nil {
		t.Fatalf("upserting report again: %v", err)
	}

	if second.ID != first.ID {
		t.Error("expected the same report row to be updated")
	}
	if second.Hours != 8 {
		t.Errorf("expected 8 hours, got %v", second.Hours)
	}

	all, _ := repo.FindAll(ctx, repository.ReportFilter{UserID: user.ID})
	if len(all) != 1 {
		t.Fatalf("expected 1 report, got %d", len(all))
	}
}

func TestReportRepository_FindAllFilters(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewReportRepository(db)
	ctx := context.Background()

	ana := createTestUser(t, db, "ana")
	bram := createTestUser(t, db, "bram")
	projectA := createTestProject(t, db, "Harbour refit")
	projectB := createTestProject(t, db, "Depot paving")

	repo.Upsert(ctx, models.Report{UserID: ana.ID, ProjectID: projectA.ID, Date: "2024-06-03", Hours: 8})
	repo.Upsert(ctx, models.Report{UserID: ana.ID, ProjectID: projectB.ID, Date: "2024-06-04", Hours: 6})
	repo.Upsert(ctx, models.Report{UserID: bram.ID, ProjectID: projectA.ID, Date: "2024-06-03", Hours: 8})

	byProject, err := repo.FindAll(ctx, repository.ReportFilter{ProjectID: projectA.ID})
	if err != nil {
		t.Fatalf("filtering by project: %v", err)
	}
	if len(byProject) != 2 {
		t.Fatalf("expected 2 reports for project, got %d", len(byProject))
	}

	byUserAndRange, err := repo.FindAll(ctx, repository.ReportFilter{
		UserID: ana.ID, DateFrom: "2024-06-04", DateTo: "2024-06-04",
	})
	if err != nil {
		t.Fatalf("filtering by user and range: %v", err)
	}
	if len(byUserAndRange) != 1 {
		t.Fatalf("expected 1 report, got %d", len(byUserAndRange))
	}
	if byUserAndRange[0].ProjectID != projectB.ID {
		t.Error("expected the June 4th report")
	}
}

func TestReportRepository_Delete(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewReportRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "ana")
	project := createTestProject(t, db, "Harbour refit")

	report, _ := repo.Upsert(ctx, models.Report{
		UserID: user.ID, ProjectID: project.ID, Date: "2024-06-03", Hours: 8,
	})

	if err := repo.Delete(ctx, report.ID); err != nil {
		t.Fatalf("deleting report: %v", err)
	}

	all, _ := repo.FindAll(ctx, repository.ReportFilter{})
	if len(all) != 0 {
		t.Errorf("expected no reports, got %d", len(all))
	}
}
