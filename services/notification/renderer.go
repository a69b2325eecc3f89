package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taskmos/config"
	eventRepo "taskmos/database/repository/event"
	"taskmos/models"

	"go.uber.org/zap"
)

// TextGenerator produces user-facing text from a system prompt and a
// structured payload. *llm.Caller satisfies it.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, userPayload string) (string, error)
}

// RenderService turns pending notification events into user-facing text
// and projects each success into a delivery record and a feed entry.
type RenderService interface {
	Render(ctx context.Context, batchSize int) (int, error)
}

// DefaultRenderService implements RenderService.
type DefaultRenderService struct {
	Events    eventRepo.EventRepository
	Generator TextGenerator

	// Now supplies rendered_at/sent_at timestamps in the app timezone.
	Now func() time.Time
}

// NewRenderService wires the renderer with the configured timezone clock.
func NewRenderService(events eventRepo.EventRepository, generator TextGenerator) *DefaultRenderService {
	loc := config.Location()
	return &DefaultRenderService{
		Events:    events,
		Generator: generator,
		Now:       func() time.Time { return time.Now().In(loc) },
	}
}

// Render processes up to batchSize pending events, oldest first. Each
// event is its own unit of work: a failure marks that event failed and
// the loop moves on, so one bad event never blocks or undoes the others.
// The return value counts successes only.
func (s *DefaultRenderService) Render(ctx context.Context, batchSize int) (int, error) {
	events, err := s.Events.ListOldestByStatus(models.EventStatusCreated, batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to load pending events: %w", err)
	}

	rendered := 0
	for i := range events {
		if err := ctx.Err(); err != nil {
			return rendered, err
		}
		event := &events[i]

		text, err := s.renderEventText(ctx, event)
		if err == nil && text == "" {
			err = fmt.Errorf("empty rendered text")
		}
		if err != nil {
			zap.L().Warn("Failed to render event",
				zap.String("eventId", event.ID),
				zap.String("kind", event.Kind),
				zap.Error(err),
			)
			s.markFailed(event.ID, err)
			continue
		}

		if err := s.Events.CompleteRender(event.ID, text, s.Now()); err != nil {
			zap.L().Error("Failed to project rendered event",
				zap.String("eventId", event.ID),
				zap.Error(err),
			)
			// Best effort; if this write fails too the event stays created
			// and the next run picks it up again.
			s.markFailed(event.ID, err)
			continue
		}

		rendered++
	}

	return rendered, nil
}

// renderEventText builds the payload and asks the backend for text, with
// the prompt selected by event kind.
func (s *DefaultRenderService) renderEventText(ctx context.Context, event *models.NotificationEvent) (string, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	switch event.Kind {
	case models.KindTaskDeadlineReminder:
		return s.Generator.GenerateText(ctx, reminderSystemPrompt, string(payload))
	case models.KindFollowupSummary:
		return s.Generator.GenerateText(ctx, followupSystemPrompt, string(payload))
	default:
		return "", fmt.Errorf("unknown event kind: %s", event.Kind)
	}
}

func (s *DefaultRenderService) markFailed(eventID string, cause error) {
	if err := s.Events.MarkFailed(eventID, cause.Error()); err != nil {
		zap.L().Error("Failed to mark event failed",
			zap.String("eventId", eventID),
			zap.Error(err),
		)
	}
}
