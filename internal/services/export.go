package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dverbeek/planboard/internal/planning"
	"github.com/xuri/excelize/v2"
)

// ExportService flattens the planning grid into a workbook: one row per
// employee, one column per day, cell text = joined assignment titles. It
// reads only the store's public API.
type ExportService struct {
	backend planning.Backend
}

func NewExportService(backend planning.Backend) *ExportService {
	return &ExportService{backend: backend}
}

func (service *ExportService) Workbook(ctx context.Context, selector planning.RangeSelector, reference time.Time) (*excelize.File, error) {
	if reference.IsZero() {
		reference = time.Now()
	}

	projects, err := service.backend.FetchActiveProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}
	employees, err := service.backend.FetchEmployees(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("loading employees: %w", err)
	}

	store := planning.NewStore(service.backend)
	store.SetCatalog(projects, employees)

	start, end := planning.ResolveRange(selector, reference)
	days := planning.EnumerateDays(start, end, reference)

	userIDs := make([]string, 0, len(employees))
	for _, employee := range employees {
		userIDs = append(userIDs, employee.ID)
	}
	if err := store.Load(ctx, userIDs, start, end); err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	sheet := file.GetSheetName(0)

	if err := file.SetCellValue(sheet, "A1", "Employee"); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	for index, day := range days {
		cell, err := excelize.CoordinatesToCellName(index+2, 1)
		if err != nil {
			return nil, fmt.Errorf("addressing header cell: %w", err)
		}
		if err := file.SetCellValue(sheet, cell, day.ISO); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for rowIndex, employee := range employees {
		nameCell, err := excelize.CoordinatesToCellName(1, rowIndex+2)
		if err != nil {
			return nil, fmt.Errorf("addressing name cell: %w", err)
		}
		if err := file.SetCellValue(sheet, nameCell, employee.Name); err != nil {
			return nil, fmt.Errorf("writing employee name: %w", err)
		}

		for columnIndex, day := range days {
			titles := assignmentTitles(store, employee.ID, day.ISO)
			if titles == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(columnIndex+2, rowIndex+2)
			if err != nil {
				return nil, fmt.Errorf("addressing cell: %w", err)
			}
			if err := file.SetCellValue(sheet, cell, titles); err != nil {
				return nil, fmt.Errorf("writing cell: %w", err)
			}
		}
	}

	return file, nil
}

func assignmentTitles(store *planning.Store, employeeID string, isoDate string) string {
	var titles []string
	for _, assignment := range store.Get(employeeID, isoDate) {
		title := "Unknown project"
		if project, ok := store.Project(assignment.ProjectID); ok {
			title = project.Name
		}
		titles = append(titles, title)
	}
	return strings.Join(titles, ", ")
}
