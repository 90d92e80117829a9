package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/dverbeek/planboard/internal/models"
	"github.com/dverbeek/planboard/internal/repository"
	"github.com/dverbeek/planboard/internal/services"
	"github.com/dverbeek/planboard/internal/testutil"
)

func TestTimerService_CloseStaleTimers(t *testing.T) {
	database := testutil.NewTestDatabase(t)
	timeEntryRepo := repository.NewTimeEntryRepository(database)
	ctx := context.Background()

	user, err := repository.NewUserRepository(database).Create(ctx, models.User{
		OIDCSubject: "sub-timer",
		Email:       "ana@example.com",
		Name:        "Ana",
		Role:        models.RoleMember,
	})
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}
	project, err := repository.NewProjectRepository(database).Create(ctx, models.Project{Name: "Harbour refit"})
	if err != nil {
		t.Fatalf("creating project: %v", err)
	}

	staleStart := time.Now().Add(-20 * time.Hour)
	stale, err := timeEntryRepo.Start(ctx, user.ID, project.ID, staleStart)
	if err != nil {
		t.Fatalf("starting stale timer: %v", err)
	}

	if err := services.NewTimerService(timeEntryRepo).CloseStaleTimers(ctx); err != nil {
		t.Fatalf("closing stale timers: %v", err)
	}

	closed, err := timeEntryRepo.FindByID(ctx, stale.ID)
	if err != nil {
		t.Fatalf("finding closed timer: %v", err)
	}
	if closed.EndTime == nil {
		t.Fatal("expected the stale timer to be closed")
	}

	// Closed at start + cap, not at sweep time.
	expected := staleStart.Add(16 * time.Hour)
	if closed.EndTime.Sub(expected) > time.Minute || expected.Sub(*closed.EndTime) > time.Minute {
		t.Errorf("expected end near %v, got %v", expected, *closed.EndTime)
	}
}

func TestTimerService_LeavesFreshTimersOpen(t *testing.T) {
	database := testutil.NewTestDatabase(t)
	timeEntryRepo := repository.NewTimeEntryRepository(database)
	ctx := context.Background()

	user, err := repository.NewUserRepository(database).Create(ctx, models.User{
		OIDCSubject: "sub-fresh",
		Email:       "bram@example.com",
		Name:        "Bram",
		Role:        models.RoleMember,
	})
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}
	project, err := repository.NewProjectRepository(database).Create(ctx, models.Project{Name: "Depot paving"})
	if err != nil {
		t.Fatalf("creating project: %v", err)
	}

	if _, err := timeEntryRepo.Start(ctx, user.ID, project.ID, time.Now().Add(-2*time.Hour)); err != nil {
		t.Fatalf("starting timer: %v", err)
	}

	if err := services.NewTimerService(timeEntryRepo).CloseStaleTimers(ctx); err != nil {
		t.Fatalf("closing stale timers: %v", err)
	}

	if _, err := timeEntryRepo.FindOpenByUser(ctx, user.ID); err != nil {
		t.Errorf("expected the fresh timer to stay open, got %v", err)
	}
}
