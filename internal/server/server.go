package server

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/dverbeek/planboard/internal/config"
	"github.com/dverbeek/planboard/internal/handlers"
	"github.com/dverbeek/planboard/internal/middleware"
	"github.com/dverbeek/planboard/internal/repository"
	"github.com/dverbeek/planboard/internal/services"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	router *chi.Mux
	config config.Config
}

func New(database *sql.DB, cfg config.Config, authService *services.AuthService) *Server {
	userRepo := repository.NewUserRepository(database)
	projectRepo := repository.NewProjectRepository(database)
	vehicleRepo := repository.NewVehicleRepository(database)
	assignmentRepo := repository.NewAssignmentRepository(database)
	absenceRepo := repository.NewAbsenceRepository(database)
	reportRepo := repository.NewReportRepository(database)
	timeEntryRepo := repository.NewTimeEntryRepository(database)
	settingsRepo := repository.NewSettingsRepository(database)
	tokenRepo := repository.NewAPITokenRepository(database)

	backend := services.NewPlanningBackend(assignmentRepo, projectRepo, userRepo, absenceRepo)
	planningService := services.NewPlanningService(backend)
	exportService := services.NewExportService(backend)

	authHandler := handlers.NewAuthHandler(authService)
	planningHandler := handlers.NewPlanningHandler(planningService, exportService)
	projectHandler := handlers.NewProjectHandler(projectRepo)
	vehicleHandler := handlers.NewVehicleHandler(vehicleRepo)
	employeeHandler := handlers.NewEmployeeHandler(userRepo)
	absenceHandler := handlers.NewAbsenceHandler(absenceRepo)
	reportHandler := handlers.NewReportHandler(reportRepo)
	timeEntryHandler := handlers.NewTimeEntryHandler(timeEntryRepo)
	dashboardHandler := handlers.NewDashboardHandler(assignmentRepo, absenceRepo, timeEntryRepo, projectRepo)
	adminHandler := handlers.NewAdminHandler(userRepo, settingsRepo)
	tokenHandler := handlers.NewAPITokenHandler(tokenRepo)
	icalHandler := handlers.NewICalHandler(userRepo, projectRepo, assignmentRepo, absenceRepo)

	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Get("/login", authHandler.Login)
	router.Get("/auth/callback", authHandler.Callback)
	router.Get("/logout", authHandler.Logout)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(authService))

		r.Get("/", dashboardHandler.Today)
		r.Get("/me", employeeHandler.Me)

		r.Get("/planning/grid", planningHandler.Grid)
		r.Get("/planning/export", planningHandler.Export)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePlanner)

			r.Post("/planning/assignments", planningHandler.Assign)
			r.Delete("/planning/assignments/{id}", planningHandler.Remove)
			r.Put("/planning/projects/{id}/vehicles", planningHandler.ProjectVehicles)
			r.Put("/planning/projects/{id}/start-time", planningHandler.ProjectStartTime)

			r.Post("/absences", absenceHandler.Upsert)
			r.Delete("/absences/{userID}/{date}", absenceHandler.Delete)
		})

		r.Get("/projects", projectHandler.List)
		r.Get("/projects/{id}", projectHandler.Get)
		r.Get("/vehicles", vehicleHandler.List)
		r.Get("/employees", employeeHandler.List)
		r.Get("/employees/{id}", employeeHandler.Get)
		r.Get("/employees/{userID}/calendar.ics", icalHandler.Feed)
		r.Get("/absences", absenceHandler.List)

		r.Get("/reports", reportHandler.List)
		r.Post("/reports", reportHandler.Upsert)
		r.Delete("/reports/{id}", reportHandler.Delete)

		r.Get("/time-entries", timeEntryHandler.List)
		r.Post("/time-entries/start", timeEntryHandler.Start)
		r.Post("/time-entries/stop", timeEntryHandler.Stop)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Post("/projects", projectHandler.Create)
			r.Put("/projects/{id}", projectHandler.Update)
			r.Post("/projects/{id}/archive", projectHandler.Archive)

			r.Post("/vehicles", vehicleHandler.Create)
			r.Put("/vehicles/{id}", vehicleHandler.Update)
			r.Delete("/vehicles/{id}", vehicleHandler.Delete)

			r.Put("/admin/users/{id}/role", adminHandler.UpdateRole)
			r.Get("/admin/settings", adminHandler.GetSettings)
			r.Put("/admin/settings", adminHandler.UpdateSettings)

			r.Get("/api/tokens", tokenHandler.List)
			r.Post("/api/tokens", tokenHandler.Create)
			r.Delete("/api/tokens/{id}", tokenHandler.Delete)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.APITokenAuth(tokenRepo, userRepo))

		r.Get("/api/v1/grid", planningHandler.Grid)
		r.Get("/api/v1/projects", projectHandler.List)
		r.Get("/api/v1/employees", employeeHandler.List)
		r.Get("/api/v1/absences", absenceHandler.List)
		r.Get("/api/v1/employees/{userID}/calendar.ics", icalHandler.Feed)
	})

	return &Server{
		router: router,
		config: cfg,
	}
}

func (server *Server) Start() error {
	address := ":" + server.config.Port
	slog.Info("starting server", "address", address)
	return http.ListenAndServe(address, server.router)
}
