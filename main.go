package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/dverbeek/planboard/internal/config"
	"github.com/dverbeek/planboard/internal/database"
	"github.com/dverbeek/planboard/internal/repository"
	"github.com/dverbeek/planboard/internal/server"
	"github.com/dverbeek/planboard/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)

	ctx := context.Background()
	authService, err := services.NewAuthService(ctx, cfg, userRepo)
	if err != nil {
		slog.Error("creating auth service", "error", err)
		os.Exit(1)
	}

	timerService := services.NewTimerService(repository.NewTimeEntryRepository(db))
	go runTimerSweeper(timerService)

	srv := server.New(db, cfg, authService)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func parseLogLevel(value string) slog.Level {
	switch value {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runTimerSweeper(timerService *services.TimerService) {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for {
		ctx := context.Background()
		if err := timerService.CloseStaleTimers(ctx); err != nil {
			slog.Error("closing stale timers", "error", err)
		}
		<-ticker.C
	}
}
