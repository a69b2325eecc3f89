package reminder

import (
	"context"
	"fmt"
	"time"

	"taskmos/config"
	eventRepo "taskmos/database/repository/event"
	taskRepo "taskmos/database/repository/task"
	"taskmos/models"

	"go.uber.org/zap"
)

// candidateFetchLimit bounds how many due tasks one scan considers.
const candidateFetchLimit = 200

// ReminderService turns approaching deadlines into durable notification
// events, exactly once per (task, stage) pair.
type ReminderService interface {
	Scan(ctx context.Context, limitNewEvents int) (int, error)
}

// DefaultReminderService implements ReminderService.
type DefaultReminderService struct {
	Tasks  taskRepo.TaskRepository
	Events eventRepo.EventRepository

	// Now supplies the evaluation instant in the app timezone.
	Now func() time.Time
}

// NewReminderService wires the scanner with the configured timezone clock.
func NewReminderService(tasks taskRepo.TaskRepository, events eventRepo.EventRepository) *DefaultReminderService {
	loc := config.Location()
	return &DefaultReminderService{
		Tasks:  tasks,
		Events: events,
		Now:    func() time.Time { return time.Now().In(loc) },
	}
}

// Scan evaluates due tasks and records one event per (task, stage) pair.
// Duplicate pairs are absorbed by the event store's unique constraint, so
// repeated or concurrent scans are safe. limitNewEvents is a soft cap on
// genuinely new events per run; the same tasks are reconsidered next run.
func (s *DefaultReminderService) Scan(ctx context.Context, limitNewEvents int) (int, error) {
	now := s.Now()

	tasks, err := s.Tasks.ListDue(candidateFetchLimit)
	if err != nil {
		return 0, fmt.Errorf("failed to load due tasks: %w", err)
	}

	created := 0
	for i := range tasks {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		task := &tasks[i]

		for _, stage := range ComputeStages(task, now) {
			if created >= limitNewEvents {
				return created, nil
			}

			event := &models.NotificationEvent{
				TaskID: task.ID,
				Stage:  stage,
				Payload: models.EventPayload{
					Kind:  models.KindTaskDeadlineReminder,
					Stage: stage,
					Now:   now.Format(time.RFC3339),
					Task: &models.TaskSnapshot{
						ID:          task.ID,
						Title:       task.Title,
						Description: task.Description,
						Status:      task.Status,
						Priority:    task.Priority,
						DueDate:     task.DueDate,
						DueTime:     task.DueTime,
					},
				},
			}

			inserted, err := s.Events.InsertDeadlineEvent(event)
			if err != nil {
				// Storage errors abort the rest of the scan; events already
				// inserted stay valid and the next run retries safely.
				return created, fmt.Errorf("failed to record stage %s for task %s: %w", stage, task.ID, err)
			}
			if inserted {
				created++
				zap.L().Info("Created deadline reminder event",
					zap.String("taskId", task.ID),
					zap.String("stage", stage),
				)
			}
		}
	}

	return created, nil
}
