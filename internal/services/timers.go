package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dverbeek/planboard/internal/repository"
)

// maxTimerDuration caps a running timer. Anything older is assumed to be a
// forgotten stop and is closed at the cap.
const maxTimerDuration = 16 * time.Hour

type TimerService struct {
	timeEntryRepo repository.TimeEntryRepository
}

func NewTimerService(timeEntryRepo repository.TimeEntryRepository) *TimerService {
	return &TimerService{timeEntryRepo: timeEntryRepo}
}

// CloseStaleTimers stops every timer running longer than the cap, setting
// its end to start + cap rather than now.
func (service *TimerService) CloseStaleTimers(ctx context.Context) error {
	cutoff := time.Now().Add(-maxTimerDuration)

	stale, err := service.timeEntryRepo.FindOpenBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("finding stale timers: %w", err)
	}

	for _, entry := range stale {
		endTime := entry.StartTime.Add(maxTimerDuration)
		if err := service.timeEntryRepo.Stop(ctx, entry.ID, endTime); err != nil {
			return fmt.Errorf("closing stale timer %s: %w", entry.ID, err)
		}
		slog.Info("closed stale timer", "entry_id", entry.ID, "user_id", entry.UserID)
	}
	return nil
}
