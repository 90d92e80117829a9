package planning_test

import (
	"context"
	"testing"

	"github.com/dverbeek/planboard/internal/models"
	"github.com/dverbeek/planboard/internal/planning"
)

func TestBuildWeekGrid_Shape(t *testing.T) {
	backend := newFakeBackend()
	ctx := context.Background()
	backend.CreateAssignment(ctx, "E1", "P1", "2024-06-03", "", "planner")
	backend.CreateAssignment(ctx, "E2", "P2", "2024-06-05", "", "planner")

	store := newTestStore(t, backend)
	loadWeek(t, store, []string{"E1", "E2"})

	start, end := planning.ResolveRange(planning.SelectorCurrentWeek, reference)
	days := planning.EnumerateDays(start, end, reference)
	employees := []models.User{{ID: "E1", Name: "Ana"}, {ID: "E2", Name: "Bram"}}

	grid := planning.BuildWeekGrid(employees, days, store, planning.NewPalette(), true)

	if grid.Mode != planning.ViewWeek {
		t.Errorf("expected week mode, got %s", grid.Mode)
	}
	if len(grid.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(grid.Rows))
	}
	for _, row := range grid.Rows {
		if len(row.Cells) != 7 {
			t.Fatalf("expected 7 cells per row, got %d", len(row.Cells))
		}
	}
	// Monday cell for E1 has the P1 assignment; everything else for E1 is empty.
	if got := grid.Rows[0].Cells[0].Assignments; len(got) != 1 || got[0].Title != "Harbour refit" {
		t.Errorf("expected Harbour refit in E1 Monday cell, got %v", got)
	}
	if got := grid.Rows[1].Cells[2].Assignments; len(got) != 1 || got[0].Title != "Depot paving" {
		t.Errorf("expected Depot paving in E2 Wednesday cell, got %v", got)
	}
}

func TestBuildWeekGrid_EditFlagFollowsRole(t *testing.T) {
	store := newTestStore(t, newFakeBackend())
	start, end := planning.ResolveRange(planning.SelectorCurrentWeek, reference)
	days := planning.EnumerateDays(start, end, reference)
	employees := []models.User{{ID: "E1", Name: "Ana"}}

	editable := planning.BuildWeekGrid(employees, days, store, planning.NewPalette(), true)
	inert := planning.BuildWeekGrid(employees, days, store, planning.NewPalette(), false)

	for index := range editable.Rows[0].Cells {
		if !editable.Rows[0].Cells[index].CanEdit {
			t.Fatal("expected planner cells to be editable")
		}
		if inert.Rows[0].Cells[index].CanEdit {
			t.Fatal("expected member cells to be inert")
		}
	}
}

func TestBuildMonthGrid_RequiresEmployee(t *testing.T) {
	store := newTestStore(t, newFakeBackend())
	grid := planning.BuildMonthGrid(nil, nil, store, planning.NewPalette(), true)

	if grid.Placeholder == "" {
		t.Error("expected explicit placeholder when no employee is selected")
	}
	if len(grid.Rows) != 0 {
		t.Errorf("expected no rows, got %d", len(grid.Rows))
	}
}

func TestBuildMonthGrid_PaddingCellsDisabled(t *testing.T) {
	backend := newFakeBackend()
	ctx := context.Background()
	backend.CreateAssignment(ctx, "E1", "P1", "2024-06-01", "", "planner")

	store := newTestStore(t, backend)
	start, end := planning.ResolveRange(planning.SelectorCurrentMonth, reference)
	if err := store.Load(ctx, []string{"E1"}, start, end); err != nil {
		t.Fatalf("loading store: %v", err)
	}

	days := planning.EnumerateDays(start, end, reference)
	weeks := planning.BuildCalendarWeeks(days)
	employee := models.User{ID: "E1", Name: "Ana"}

	grid := planning.BuildMonthGrid(&employee, weeks, store, planning.NewPalette(), false)

	if len(grid.Rows) != len(weeks) {
		t.Fatalf("expected %d rows, got %d", len(weeks), len(grid.Rows))
	}
	for rowIndex, row := range grid.Rows {
		if len(row.Cells) != 7 {
			t.Fatalf("expected 7 cells per week row, got %d", len(row.Cells))
		}
		for cellIndex, cell := range row.Cells {
			if weeks[rowIndex][cellIndex] == nil {
				if !cell.Disabled || cell.Day != nil || len(cell.Assignments) != 0 {
					t.Errorf("expected disabled empty padding cell at [%d][%d]", rowIndex, cellIndex)
				}
			} else if cell.Disabled {
				t.Errorf("expected real cell enabled at [%d][%d]", rowIndex, cellIndex)
			}
		}
	}

	// June 2024 starts on a Saturday: the assignment on the 1st sits in the
	// first row's Saturday column.
	saturday := grid.Rows[0].Cells[5]
	if len(saturday.Assignments) != 1 || saturday.Assignments[0].ProjectID != "P1" {
		t.Errorf("expected P1 on June 1st, got %v", saturday.Assignments)
	}
}

func TestPalette_StableFirstSeenColors(t *testing.T) {
	palette := planning.NewPalette()

	first := palette.ColorFor("P1")
	second := palette.ColorFor("P2")

	if first == second {
		t.Error("expected distinct colors for distinct projects")
	}
	if palette.ColorFor("P1") != first {
		t.Error("expected stable color for repeated lookups")
	}
	if palette.ColorFor("P2") != second {
		t.Error("expected stable color for repeated lookups")
	}
}

func TestBuildWeekGrid_UnknownProject(t *testing.T) {
	backend := newFakeBackend()
	ctx := context.Background()
	backend.CreateAssignment(ctx, "E1", "P-deleted", "2024-06-03", "", "planner")

	store := newTestStore(t, backend)
	loadWeek(t, store, []string{"E1"})

	start, end := planning.ResolveRange(planning.SelectorCurrentWeek, reference)
	days := planning.EnumerateDays(start, end, reference)
	employees := []models.User{{ID: "E1", Name: "Ana"}}

	grid := planning.BuildWeekGrid(employees, days, store, planning.NewPalette(), true)

	got := grid.Rows[0].Cells[0].Assignments
	if len(got) != 1 {
		t.Fatalf("expected dangling reference to render, got %d entries", len(got))
	}
	if got[0].Title != "Unknown project" {
		t.Errorf("expected unknown-project title, got %q", got[0].Title)
	}
}
