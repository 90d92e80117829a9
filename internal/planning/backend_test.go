package planning_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dverbeek/planboard/internal/models"
)

// fakeBackend is an in-memory planning.Backend with switchable failures and
// an optional gate to hold a create in flight.
type fakeBackend struct {
	mu          sync.Mutex
	assignments []models.Assignment
	absences    []models.Absence
	projects    map[string]models.Project
	employees   []models.User
	nextID      int

	failFetch  error
	failCreate error
	failDelete error
	failUpdate error

	deleteMissing bool
	createGate    chan struct{}

	createCalls int
	deleteCalls int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{projects: make(map[string]models.Project)}
}

func (backend *fakeBackend) addProject(project models.Project) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.projects[project.ID] = project
}

func (backend *fakeBackend) FetchAssignments(ctx context.Context, userIDs []string, dateFrom string, dateTo string) ([]models.Assignment, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	if backend.failFetch != nil {
		return nil, backend.failFetch
	}

	wanted := make(map[string]bool, len(userIDs))
	for _, userID := range userIDs {
		wanted[userID] = true
	}

	var out []models.Assignment
	for _, assignment := range backend.assignments {
		if wanted[assignment.UserID] && assignment.Date >= dateFrom && assignment.Date <= dateTo {
			out = append(out, assignment)
		}
	}
	return out, nil
}

func (backend *fakeBackend) CreateAssignment(ctx context.Context, userID string, projectID string, date string, notes string, createdBy string) (models.Assignment, error) {
	if backend.createGate != nil {
		<-backend.createGate
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()

	backend.createCalls++
	if backend.failCreate != nil {
		return models.Assignment{}, backend.failCreate
	}

	backend.nextID++
	assignment := models.Assignment{
		ID:              fmt.Sprintf("assignment-%d", backend.nextID),
		UserID:          userID,
		ProjectID:       projectID,
		Date:            date,
		Position:        len(backend.assignments),
		Notes:           notes,
		CreatedByUserID: createdBy,
		CreatedAt:       time.Now(),
	}
	backend.assignments = append(backend.assignments, assignment)
	return assignment, nil
}

func (backend *fakeBackend) DeleteAssignment(ctx context.Context, instanceID string) (bool, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	backend.deleteCalls++
	if backend.failDelete != nil {
		return false, backend.failDelete
	}
	if backend.deleteMissing {
		return false, nil
	}

	for index, assignment := range backend.assignments {
		if assignment.ID == instanceID {
			backend.assignments = append(backend.assignments[:index], backend.assignments[index+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (backend *fakeBackend) UpdateProjectVehicles(ctx context.Context, projectID string, vehicleIDs []string) (models.Project, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	if backend.failUpdate != nil {
		return models.Project{}, backend.failUpdate
	}
	project, ok := backend.projects[projectID]
	if !ok {
		return models.Project{}, fmt.Errorf("project %s not found", projectID)
	}
	project.VehicleIDs = vehicleIDs
	project.UpdatedAt = time.Now()
	backend.projects[projectID] = project
	return project, nil
}

func (backend *fakeBackend) UpdateProjectStartTime(ctx context.Context, projectID string, startTime *string) (models.Project, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	if backend.failUpdate != nil {
		return models.Project{}, backend.failUpdate
	}
	project, ok := backend.projects[projectID]
	if !ok {
		return models.Project{}, fmt.Errorf("project %s not found", projectID)
	}
	project.DefaultStartTime = startTime
	project.UpdatedAt = time.Now()
	backend.projects[projectID] = project
	return project, nil
}

func (backend *fakeBackend) FetchEmployees(ctx context.Context, role models.Role) ([]models.User, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	if role == "" {
		return backend.employees, nil
	}
	var out []models.User
	for _, employee := range backend.employees {
		if employee.Role == role {
			out = append(out, employee)
		}
	}
	return out, nil
}

func (backend *fakeBackend) FetchAbsences(ctx context.Context, userIDs []string, dateFrom string, dateTo string) ([]models.Absence, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	wanted := make(map[string]bool, len(userIDs))
	for _, userID := range userIDs {
		wanted[userID] = true
	}

	var out []models.Absence
	for _, absence := range backend.absences {
		if wanted[absence.UserID] && absence.Date >= dateFrom && absence.Date <= dateTo {
			out = append(out, absence)
		}
	}
	return out, nil
}

func (backend *fakeBackend) FetchActiveProjects(ctx context.Context) ([]models.Project, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	var out []models.Project
	for _, project := range backend.projects {
		if project.Status == models.ProjectStatusActive {
			out = append(out, project)
		}
	}
	return out, nil
}
