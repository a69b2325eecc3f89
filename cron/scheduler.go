package cron

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"taskmos/config"
	"taskmos/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// StartScheduler enqueues the periodic pipeline jobs: reminder scans and
// notification renders on fixed intervals, followup summaries at the
// configured slot times. The worker side (Concurrency=1) guarantees the
// runs never overlap.
func StartScheduler() {
	loc := config.Location()
	scheduler := asynq.NewScheduler(redisOpts(), &asynq.SchedulerOpts{Location: loc})

	register := func(spec string, task *asynq.Task) {
		if _, err := scheduler.Register(spec, task); err != nil {
			log.Fatalf("failed to register %s (%s): %v", task.Type(), spec, err)
		}
	}

	register(
		fmt.Sprintf("@every %dm", config.AppConfig.ReminderScanIntervalMin),
		asynq.NewTask(TypeReminderScan, nil),
	)
	register(
		fmt.Sprintf("@every %dm", config.AppConfig.RenderIntervalMin),
		asynq.NewTask(TypeNotificationRender, nil),
	)

	slots := map[string]string{
		models.SlotMorning: config.AppConfig.FollowupMorning,
		models.SlotNoon:    config.AppConfig.FollowupNoon,
		models.SlotEvening: config.AppConfig.FollowupEvening,
	}
	for slot, clock := range slots {
		spec, err := cronSpecFromClock(clock)
		if err != nil {
			log.Fatalf("invalid followup time for %s: %v", slot, err)
		}
		payload, err := json.Marshal(followupPayload{Slot: slot})
		if err != nil {
			log.Fatalf("failed to encode followup payload: %v", err)
		}
		register(spec, asynq.NewTask(TypeFollowupRun, payload))
	}

	go func() {
		zap.L().Info("Starting pipeline scheduler",
			zap.Int("scanIntervalMin", config.AppConfig.ReminderScanIntervalMin),
			zap.Int("renderIntervalMin", config.AppConfig.RenderIntervalMin),
		)
		if err := scheduler.Run(); err != nil {
			log.Fatalf("pipeline scheduler stopped: %v", err)
		}
	}()
}

// cronSpecFromClock converts "HH:MM" into a daily cron expression.
func cronSpecFromClock(clock string) (string, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("expected HH:MM, got %q", clock)
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", fmt.Errorf("expected HH:MM, got %q: %w", clock, err)
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", fmt.Errorf("expected HH:MM, got %q: %w", clock, err)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return "", fmt.Errorf("out of range clock time %q", clock)
	}
	return fmt.Sprintf("%d %d * * *", mm, hh), nil
}
