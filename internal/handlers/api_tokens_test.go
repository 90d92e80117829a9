package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dverbeek/planboard/internal/middleware"
	"github.com/dverbeek/planboard/internal/models"
	"github.com/dverbeek/planboard/internal/repository"
	"github.com/dverbeek/planboard/internal/testutil"
	"github.com/go-chi/chi/v5"
)

func TestAPITokenHandler_CreateReturnsPlaintextOnce(t *testing.T) {
	database := testutil.NewTestDatabase(t)
	tokenRepo := repository.NewAPITokenRepository(database)
	userRepo := repository.NewUserRepository(database)
	ctx := context.Background()

	admin, err := userRepo.Create(ctx, models.User{
		OIDCSubject: "sub-admin",
		Email:       "admin@example.com",
		Name:        "Admin",
		Role:        models.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("creating admin: %v", err)
	}

	handler := NewAPITokenHandler(tokenRepo)

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), middleware.UserContextKey, admin)))
		})
	})
	router.Post("/api/tokens", handler.Create)
	router.Get("/api/tokens", handler.List)

	request := httptest.NewRequest(http.MethodPost, "/api/tokens", strings.NewReader(`{"name":"ci"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var created struct {
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&created); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if created.Token == "" {
		t.Fatal("expected plaintext token in create response")
	}

	stored, err := tokenRepo.FindByTokenHash(ctx, repository.HashToken(created.Token))
	if err != nil {
		t.Fatalf("finding stored token: %v", err)
	}
	if stored.ID != created.ID {
		t.Error("expected the stored hash to match the returned plaintext")
	}

	request = httptest.NewRequest(http.MethodGet, "/api/tokens", nil)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	if strings.Contains(recorder.Body.String(), created.Token) {
		t.Error("plaintext token must not appear in list responses")
	}
}

func TestAPITokenAuth_GuardsTokenRoutes(t *testing.T) {
	database := testutil.NewTestDatabase(t)
	tokenRepo := repository.NewAPITokenRepository(database)
	userRepo := repository.NewUserRepository(database)
	projectRepo := repository.NewProjectRepository(database)
	ctx := context.Background()

	user, err := userRepo.Create(ctx, models.User{
		OIDCSubject: "sub-api",
		Email:       "api@example.com",
		Name:        "API User",
		Role:        models.RoleMember,
	})
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}

	rawToken := "pb_test_token"
	if _, err := tokenRepo.Create(ctx, models.APIToken{
		Name:            "integration",
		TokenHash:       repository.HashToken(rawToken),
		CreatedByUserID: user.ID,
	}); err != nil {
		t.Fatalf("creating token: %v", err)
	}

	projectHandler := NewProjectHandler(projectRepo)

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(middleware.APITokenAuth(tokenRepo, userRepo))
		r.Get("/api/v1/projects", projectHandler.List)
	})

	request := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 without token, got %d", recorder.Code)
	}

	request = httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	request.Header.Set("Authorization", "Bearer "+rawToken)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("expected status 200 with valid token, got %d", recorder.Code)
	}

	request = httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	request.Header.Set("Authorization", "Bearer wrong-token")
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 with bad token, got %d", recorder.Code)
	}
}
