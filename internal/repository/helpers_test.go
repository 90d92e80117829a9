package repository_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dverbeek/planboard/internal/models"
	"github.com/dverbeek/planboard/internal/repository"
)

func createTestUser(t *testing.T, db *sql.DB, name string) models.User {
	t.Helper()
	user, err := repository.NewUserRepository(db).Create(context.Background(), models.User{
		OIDCSubject: "sub-" + name,
		Email:       name + "@example.com",
		Name:        name,
		Role:        models.RoleMember,
	})
	if err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	return user
}

func createTestProject(t *testing.T, db *sql.DB, name string) models.Project {
	t.Helper()
	project, err := repository.NewProjectRepository(db).Create(context.Background(), models.Project{
		Name: name,
	})
	if err != nil {
		t.Fatalf("creating test project: %v", err)
	}
	return project
}

func createTestVehicle(t *testing.T, db *sql.DB, name string) models.Vehicle {
	t.Helper()
	vehicle, err := repository.NewVehicleRepository(db).Create(context.Background(), models.Vehicle{
		Name:         name,
		Registration: "REG-" + name,
	})
	if err != nil {
		t.Fatalf("creating test vehicle: %v", err)
	}
	return vehicle
}
