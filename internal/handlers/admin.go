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

type AdminHandler struct {
	userRepo     repository.UserRepository
	settingsRepo repository.SettingsRepository
}

func NewAdminHandler(userRepo repository.UserRepository, settingsRepo repository.SettingsRepository) *AdminHandler {
	return &AdminHandler{userRepo: userRepo, settingsRepo: settingsRepo}
}

type roleRequest struct {
	Role models.Role `json:"role"`
}

func (handler *AdminHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var request roleRequest
	if err := decodeJSON(r, &request); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch request.Role {
	case models.RoleAdmin, models.RolePlanner, models.RoleMember:
	default:
		writeErrorJSON(w, http.StatusBadRequest, "unknown role")
		return
	}

	targetID := chi.URLParam(r, "id")
	caller := middleware.GetUser(r.Context())
	if targetID == caller.ID && request.Role != models.RoleAdmin {
		writeErrorJSON(w, http.StatusBadRequest, "cannot demote yourself")
		return
	}

	if _, err := handler.userRepo.FindByID(r.Context(), targetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeErrorJSON(w, http.StatusNotFound, "user not found")
			return
		}
		slog.Error("finding user", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := handler.userRepo.UpdateRole(r.Context(), targetID, request.Role); err != nil {
		slog.Error("updating role", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (handler *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	orgName, err := handler.settingsRepo.Get(r.Context(), repository.SettingOrgName)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		slog.Error("loading settings", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"org_name": orgName})
}

type settingsRequest struct {
	OrgName string `json:"org_name"`
}

func (handler *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var request settingsRequest
	if err := decodeJSON(r, &request); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := handler.settingsRepo.Set(r.Context(), repository.SettingOrgName, request.OrgName); err != nil {
		slog.Error("saving settings", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"org_name": request.OrgName})
}
