package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dverbeek/planboard/internal/middleware"
	"github.com/dverbeek/planboard/internal/models"
	"github.com/dverbeek/planboard/internal/repository"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler struct {
	userRepo repository.UserRepository
}

func NewEmployeeHandler(userRepo repository.UserRepository) *EmployeeHandler {
	return &EmployeeHandler{userRepo: userRepo}
}

func (handler *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		users []models.User
		err   error
	)
	if role := r.URL.Query().Get("role"); role != "" {
		users, err = handler.userRepo.FindByRole(r.Context(), models.Role(role))
	} else {
		users, err = handler.userRepo.FindAll(r.Context())
	}
	if err != nil {
		slog.Error("listing employees", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (handler *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := handler.userRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeErrorJSON(w, http.StatusNotFound, "employee not found")
			return
		}
		slog.Error("finding employee", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Me returns the authenticated user, so clients can learn their own role
// before deciding which controls to render.
func (handler *EmployeeHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, middleware.GetUser(r.Context()))
}
