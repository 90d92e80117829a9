package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/dverbeek/planboard/internal/models"
	"github.com/dverbeek/planboard/internal/planning"
	"github.com/dverbeek/planboard/internal/repository"
	"github.com/dverbeek/planboard/internal/services"
	"github.com/dverbeek/planboard/internal/testutil"
)

func TestExportService_WorkbookLayout(t *testing.T) {
	database := testutil.NewTestDatabase(t)
	backend := services.NewPlanningBackend(
		repository.NewAssignmentRepository(database),
		repository.NewProjectRepository(database),
		repository.NewUserRepository(database),
		repository.NewAbsenceRepository(database),
	)
	user, project := seedPlanningData(t, database)
	ctx := context.Background()

	reference := time.Date(2024, time.June, 5, 12, 0, 0, 0, time.UTC)
	if _, err := repository.NewAssignmentRepository(database).Create(ctx, models.Assignment{
		UserID: user.ID, ProjectID: project.ID, Date: "2024-06-03", CreatedByUserID: user.ID,
	}); err != nil {
		t.Fatalf("creating assignment: %v", err)
	}

	workbook, err := services.NewExportService(backend).Workbook(ctx, planning.SelectorCurrentWeek, reference)
	if err != nil {
		t.Fatalf("building workbook: %v", err)
	}
	defer workbook.Close()

	sheet := workbook.GetSheetName(0)

	header, err := workbook.GetCellValue(sheet, "A1")
	if err != nil {
		t.Fatalf("reading header: %v", err)
	}
	if header != "Employee" {
		t.Errorf("expected 'Employee' header, got %q", header)
	}

	firstDay, err := workbook.GetCellValue(sheet, "B1")
	if err != nil {
		t.Fatalf("reading first day header: %v", err)
	}
	if firstDay != "2024-06-03" {
		t.Errorf("expected Monday 2024-06-03 in first day column, got %q", firstDay)
	}

	name, err := workbook.GetCellValue(sheet, "A2")
	if err != nil {
		t.Fatalf("reading employee name: %v", err)
	}
	if name != "Ana" {
		t.Errorf("expected employee name 'Ana', got %q", name)
	}

	mondayCell, err := workbook.GetCellValue(sheet, "B2")
	if err != nil {
		t.Fatalf("reading assignment cell: %v", err)
	}
	if mondayCell != "Harbour refit" {
		t.Errorf("expected project title in Monday cell, got %q", mondayCell)
	}
}
