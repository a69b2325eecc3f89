package eventRepo

import (
	"time"

	"taskmos/models"
)

// EventRepository defines persistence for notification events. Event
// creation is idempotent for the deadline kind: the storage layer, not the
// caller, absorbs duplicate (task, stage) pairs.
type EventRepository interface {
	// InsertDeadlineEvent inserts a task_deadline_reminder event. It returns
	// false with a nil error when an event for the same (task, stage) pair
	// already exists, so duplicate scans are silent no-ops.
	InsertDeadlineEvent(event *models.NotificationEvent) (bool, error)

	// InsertEvent inserts an event without the deadline uniqueness contract
	// (used for followup_summary).
	InsertEvent(event *models.NotificationEvent) error

	// ListOldestByStatus returns up to limit events in the given status,
	// oldest created_at first.
	ListOldestByStatus(status string, limit int) ([]models.NotificationEvent, error)

	// ListByStatus returns up to limit events in the given status, newest
	// first (inspection endpoint).
	ListByStatus(status string, limit int) ([]models.NotificationEvent, error)

	GetByID(id string) (*models.NotificationEvent, error)

	// CompleteRender finishes one event's render in a single unit of work:
	// the event becomes rendered with its text, one in_app delivery row and
	// one assistant feed message are written, all or nothing. It fails if
	// the event is no longer pending.
	CompleteRender(eventID, text string, now time.Time) error

	// MarkFailed moves a pending event to the terminal failed status,
	// keeping a truncated error description in place of the rendered text.
	MarkFailed(eventID, errText string) error
}
