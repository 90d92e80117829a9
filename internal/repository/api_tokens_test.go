package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dverbeek/planboard/internal/models"
	"github.com/dverbeek/planboard/internal/repository"
	"github.com/dverbeek/planboard/internal/testutil"
)

func TestAPITokenRepository_CreateAndFindByHash(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewAPITokenRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "ana")
	hash := repository.HashToken("secret-token")

	created, err := repo.Create(ctx, models.APIToken{
		Name:            "integration",
		TokenHash:       hash,
		CreatedByUserID: user.ID,
	})
	if err != nil {
		t.Fatalf("creating token: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected non-empty ID")
	}

	found, err := repo.FindByTokenHash(ctx, hash)
	if err != nil {
		t.Fatalf("finding token by hash: %v", err)
	}
	if found.Name != "integration" {
		t.Errorf("expected name 'integration', got '%s'", found.Name)
	}
}

func TestAPITokenRepository_HashIsDeterministic(t *testing.T) {
	if repository.HashToken("abc") != repository.HashToken("abc") {
		t.Error("expected same input to hash identically")
	}
	if repository.HashToken("abc") == repository.HashToken("abd") {
		t.Error("expected different inputs to hash differently")
	}
}

func TestAPITokenRepository_Delete(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewAPITokenRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "ana")
	expires := time.Now().Add(24 * time.Hour)
	created, _ := repo.Create(ctx, models.APIToken{
		Name:            "temp",
		TokenHash:       repository.HashToken("temp-token"),
		CreatedByUserID: user.ID,
		ExpiresAt:       &expires,
	})

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("deleting token: %v", err)
	}

	_, err := repo.FindByTokenHash(ctx, repository.HashToken("temp-token"))
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows after delete, got %v", err)
	}
}
