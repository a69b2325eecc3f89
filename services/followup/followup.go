package followup

import (
	"context"
	"fmt"
	"time"

	"taskmos/config"
	eventRepo "taskmos/database/repository/event"
	followupRepo "taskmos/database/repository/followup"
	taskRepo "taskmos/database/repository/task"
	"taskmos/models"

	"go.uber.org/zap"
)

// FollowupService records one followup_summary event per slot run. The
// renderer later turns the event into feed text like any other event.
type FollowupService interface {
	Run(ctx context.Context, slot string) error
}

// DefaultFollowupService implements FollowupService.
type DefaultFollowupService struct {
	Tasks  taskRepo.TaskRepository
	Events eventRepo.EventRepository
	Runs   followupRepo.FollowupRunRepository

	Now func() time.Time
}

// NewFollowupService wires the followup job with the configured timezone clock.
func NewFollowupService(
	tasks taskRepo.TaskRepository,
	events eventRepo.EventRepository,
	runs followupRepo.FollowupRunRepository,
) *DefaultFollowupService {
	loc := config.Location()
	return &DefaultFollowupService{
		Tasks:  tasks,
		Events: events,
		Runs:   runs,
		Now:    func() time.Time { return time.Now().In(loc) },
	}
}

// ValidSlot reports whether slot is one of morning/noon/evening.
func ValidSlot(slot string) bool {
	switch slot {
	case models.SlotMorning, models.SlotNoon, models.SlotEvening:
		return true
	}
	return false
}

// Run snapshots the current task situation for the slot and records the
// summary event plus an audit row.
func (s *DefaultFollowupService) Run(ctx context.Context, slot string) error {
	if !ValidSlot(slot) {
		return fmt.Errorf("invalid followup slot: %s", slot)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	now := s.Now()
	today := now.Format(models.DateLayout)

	overdue, err := s.Tasks.CountOverdue(today)
	if err != nil {
		return fmt.Errorf("failed to count overdue tasks: %w", err)
	}
	dueToday, err := s.Tasks.CountDueOn(today)
	if err != nil {
		return fmt.Errorf("failed to count tasks due today: %w", err)
	}
	doing, err := s.Tasks.CountByStatus(models.TaskStatusDoing)
	if err != nil {
		return fmt.Errorf("failed to count doing tasks: %w", err)
	}

	event := &models.NotificationEvent{
		Kind: models.KindFollowupSummary,
		Slot: slot,
		Payload: models.EventPayload{
			Kind: models.KindFollowupSummary,
			Slot: slot,
			Now:  now.Format(time.RFC3339),
			Counts: &models.FollowupCounts{
				Overdue:  int(overdue),
				DueToday: int(dueToday),
				Doing:    int(doing),
			},
		},
	}
	if err := s.Events.InsertEvent(event); err != nil {
		return fmt.Errorf("failed to record followup event: %w", err)
	}

	if err := s.Runs.Create(&models.FollowupRun{Slot: slot}); err != nil {
		// The event is already durable; losing the audit row is not fatal.
		zap.L().Warn("Failed to record followup run", zap.String("slot", slot), zap.Error(err))
	}

	zap.L().Info("Recorded followup summary event",
		zap.String("slot", slot),
		zap.Int64("overdue", overdue),
		zap.Int64("dueToday", dueToday),
		zap.Int64("doing", doing),
	)
	return nil
}
