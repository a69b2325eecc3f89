package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"taskmos/config"
	"taskmos/services/followup"
	"taskmos/services/notification"
	"taskmos/services/reminder"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Periodic job types.
const (
	TypeReminderScan       = "reminder:scan"
	TypeNotificationRender = "notification:render"
	TypeFollowupRun        = "followup:run"
)

type followupPayload struct {
	Slot string `json:"slot"`
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitPipelineWorker runs the async worker in background. Concurrency is
// fixed at 1 on a single queue: jobs run strictly sequentially, so no two
// scans, renders, or any mix of them ever overlap in this process.
func InitPipelineWorker(
	reminderSvc reminder.ReminderService,
	renderSvc notification.RenderService,
	followupSvc followup.FollowupService,
) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderScan, handleReminderScan(reminderSvc))
	mux.HandleFunc(TypeNotificationRender, handleNotificationRender(renderSvc))
	mux.HandleFunc(TypeFollowupRun, handleFollowupRun(followupSvc))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		zap.L().Info("Starting pipeline worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				zap.L().Error("Pipeline worker failed to start",
					zap.Int("attempt", attempts),
					zap.Int("maxAttempts", maxAttempts),
					zap.Error(err),
				)
				if attempts == maxAttempts {
					log.Fatal("pipeline worker: max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReminderScan(svc reminder.ReminderService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		started := time.Now()
		created, err := svc.Scan(ctx, config.AppConfig.ReminderScanLimit)
		if err != nil {
			zap.L().Error("Reminder scan failed", zap.Int("created", created), zap.Error(err))
			return err
		}
		zap.L().Info("Reminder scan finished",
			zap.Int("created", created),
			zap.Duration("took", time.Since(started)),
		)
		return nil
	}
}

func handleNotificationRender(svc notification.RenderService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		started := time.Now()
		rendered, err := svc.Render(ctx, config.AppConfig.RenderBatchSize)
		if err != nil {
			zap.L().Error("Notification render failed", zap.Int("rendered", rendered), zap.Error(err))
			return err
		}
		zap.L().Info("Notification render finished",
			zap.Int("rendered", rendered),
			zap.Duration("took", time.Since(started)),
		)
		return nil
	}
}

func handleFollowupRun(svc followup.FollowupService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p followupPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			zap.L().Error("Invalid followup payload", zap.Error(err))
			return err
		}
		if err := svc.Run(ctx, p.Slot); err != nil {
			zap.L().Error("Followup run failed", zap.String("slot", p.Slot), zap.Error(err))
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			zap.L().Warn("Redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
