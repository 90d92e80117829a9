package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dverbeek/planboard/internal/models"
	"github.com/dverbeek/planboard/internal/planning"
)

// PlanningService orchestrates the planning subsystem per request: it
// resolves the range, loads a store against the backend and hands the grid
// to the caller. The color palette is shared so project colors stay stable
// across requests.
type PlanningService struct {
	backend planning.Backend
	palette *planning.Palette
}

func NewPlanningService(backend planning.Backend) *PlanningService {
	return &PlanningService{backend: backend, palette: planning.NewPalette()}
}

type GridRequest struct {
	Selector   planning.RangeSelector
	Mode       planning.ViewMode
	EmployeeID string
	Reference  time.Time
	CanEdit    bool
}

func (service *PlanningService) Grid(ctx context.Context, request GridRequest) (planning.Grid, error) {
	if request.Reference.IsZero() {
		request.Reference = time.Now()
	}

	if request.Mode == planning.ViewMonth && request.EmployeeID == "" {
		return planning.BuildMonthGrid(nil, nil, planning.NewStore(service.backend), service.palette, request.CanEdit), nil
	}

	store, employees, err := service.loadedStore(ctx, request)
	if err != nil {
		return planning.Grid{}, err
	}

	start, end := planning.ResolveRange(request.Selector, request.Reference)
	days := planning.EnumerateDays(start, end, request.Reference)

	var grid planning.Grid
	if request.Mode == planning.ViewMonth {
		employee, ok := store.Employee(request.EmployeeID)
		if !ok {
			return planning.Grid{}, fmt.Errorf("%w: unknown employee %s", planning.ErrValidation, request.EmployeeID)
		}
		weeks := planning.BuildCalendarWeeks(days)
		grid = planning.BuildMonthGrid(&employee, weeks, store, service.palette, request.CanEdit)
	} else {
		grid = planning.BuildWeekGrid(employees, days, store, service.palette, request.CanEdit)
	}

	service.applyAbsences(ctx, &grid, request, employees, start, end)
	return grid, nil
}

// applyAbsences decorates the grid with read-only absence context. A failed
// absence lookup degrades to a grid without markers rather than failing the
// whole request.
func (service *PlanningService) applyAbsences(ctx context.Context, grid *planning.Grid, request GridRequest, employees []models.User, start time.Time, end time.Time) {
	userIDs := make([]string, 0, len(employees))
	if request.Mode == planning.ViewMonth {
		userIDs = append(userIDs, request.EmployeeID)
	} else {
		for _, employee := range employees {
			userIDs = append(userIDs, employee.ID)
		}
	}

	absences, err := service.backend.FetchAbsences(ctx, userIDs,
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		slog.Warn("loading absence context", "error", err)
		return
	}
	grid.ApplyAbsences(absences)
}

func (service *PlanningService) loadedStore(ctx context.Context, request GridRequest) (*planning.Store, []models.User, error) {
	store, employees, err := service.catalogStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	userIDs := make([]string, 0, len(employees))
	if request.Mode == planning.ViewMonth {
		userIDs = append(userIDs, request.EmployeeID)
	} else {
		for _, employee := range employees {
			userIDs = append(userIDs, employee.ID)
		}
	}

	start, end := planning.ResolveRange(request.Selector, request.Reference)
	if err := store.Load(ctx, userIDs, start, end); err != nil {
		return nil, nil, err
	}
	return store, employees, nil
}

// catalogStore builds a store with the current project and employee
// catalogs, but no assignments loaded yet.
func (service *PlanningService) catalogStore(ctx context.Context) (*planning.Store, []models.User, error) {
	projects, err := service.backend.FetchActiveProjects(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading projects: %w", err)
	}
	employees, err := service.backend.FetchEmployees(ctx, "")
	if err != nil {
		return nil, nil, fmt.Errorf("loading employees: %w", err)
	}

	store := planning.NewStore(service.backend)
	store.SetCatalog(projects, employees)
	return store, employees, nil
}

// Assign runs the optimistic assign protocol for one cell.
func (service *PlanningService) Assign(ctx context.Context, projectID string, userID string, isoDate string, notes string, createdBy string) (models.Assignment, error) {
	store, _, err := service.catalogStore(ctx)
	if err != nil {
		return models.Assignment{}, err
	}
	return planning.NewMutator(store, service.backend).Assign(ctx, projectID, userID, isoDate, notes, createdBy)
}

// Remove deletes one assignment instance from its cell.
func (service *PlanningService) Remove(ctx context.Context, userID string, isoDate string, instanceID string) error {
	store, _, err := service.catalogStore(ctx)
	if err != nil {
		return err
	}

	day, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return fmt.Errorf("%w: invalid date %q", planning.ErrValidation, isoDate)
	}
	if err := store.Load(ctx, []string{userID}, day, day); err != nil {
		return err
	}
	return planning.NewMutator(store, service.backend).Remove(ctx, userID, isoDate, instanceID)
}

func (service *PlanningService) SetProjectVehicles(ctx context.Context, projectID string, vehicleIDs []string) (models.Project, error) {
	store, _, err := service.catalogStore(ctx)
	if err != nil {
		return models.Project{}, err
	}
	return planning.NewMutator(store, service.backend).SetProjectVehicles(ctx, projectID, vehicleIDs)
}

func (service *PlanningService) SetProjectStartTime(ctx context.Context, projectID string, startTime *string) (models.Project, error) {
	store, _, err := service.catalogStore(ctx)
	if err != nil {
		return models.Project{}, err
	}
	return planning.NewMutator(store, service.backend).SetProjectStartTime(ctx, projectID, startTime)
}
