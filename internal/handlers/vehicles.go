package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dverbeek/planboard/internal/models"
	"github.com/dverbeek/planboard/internal/repository"
	"github.com/go-chi/chi/v5"
)

type VehicleHandler struct {
	vehicleRepo repository.VehicleRepository
}

func NewVehicleHandler(vehicleRepo repository.VehicleRepository) *VehicleHandler {
	return &VehicleHandler{vehicleRepo: vehicleRepo}
}

func (handler *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := handler.vehicleRepo.FindAll(r.Context())
	if err != nil {
		slog.Error("listing vehicles", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, vehicles)
}

type vehicleRequest struct {
	Name         string `json:"name"`
	Registration string `json:"registration"`
}

func (handler *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request vehicleRequest
	if err := decodeJSON(r, &request); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Name == "" {
		writeErrorJSON(w, http.StatusBadRequest, "name is required")
		return
	}

	vehicle, err := handler.vehicleRepo.Create(r.Context(), models.Vehicle{
		Name:         request.Name,
		Registration: request.Registration,
	})
	if err != nil {
		slog.Error("creating vehicle", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, vehicle)
}

func (handler *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var request vehicleRequest
	if err := decodeJSON(r, &request); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vehicle, err := handler.vehicleRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeErrorJSON(w, http.StatusNotFound, "vehicle not found")
			return
		}
		slog.Error("finding vehicle", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	vehicle.Name = request.Name
	vehicle.Registration = request.Registration
	if err := handler.vehicleRepo.Update(r.Context(), vehicle); err != nil {
		slog.Error("updating vehicle", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, vehicle)
}

func (handler *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := handler.vehicleRepo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("deleting vehicle", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
