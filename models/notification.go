package models

import "time"

// Notification event kinds.
const (
	KindTaskDeadlineReminder = "task_deadline_reminder"
	KindFollowupSummary      = "followup_summary"
)

// Notification event statuses. An event is created by the scanner and moved
// exactly once to rendered or failed by the renderer; both are terminal.
const (
	EventStatusCreated  = "created"
	EventStatusRendered = "rendered"
	EventStatusFailed   = "failed"
)

// Escalation stages for deadline reminders.
const (
	StageOverdue = "OVERDUE"
	StageT30M    = "T-30M"
	StageT2H     = "T-2H"
	StageD0      = "D-0"
	StageD1      = "D-1"
	StageD3      = "D-3"
	StageD7      = "D-7"
)

// Followup summary slots.
const (
	SlotMorning = "morning"
	SlotNoon    = "noon"
	SlotEvening = "evening"
)

// Delivery channels and statuses. Only in_app is produced by this core;
// other channels plug in as additional delivery rows.
const (
	ChannelInApp = "in_app"

	DeliveryStatusSent   = "sent"
	DeliveryStatusFailed = "failed"
)

// TaskSnapshot is the immutable task state captured into an event payload
// at scan time, so rendering never depends on the live task row.
type TaskSnapshot struct {
	ID          string `bson:"id" json:"id"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Status      string `bson:"status" json:"status"`
	Priority    string `bson:"priority" json:"priority"`
	DueDate     string `bson:"dueDate,omitempty" json:"due_date,omitempty"`
	DueTime     string `bson:"dueTime,omitempty" json:"due_time,omitempty"`
}

// FollowupCounts summarizes the task situation for a followup slot.
type FollowupCounts struct {
	Overdue  int `bson:"overdue" json:"overdue"`
	DueToday int `bson:"dueToday" json:"due_today"`
	Doing    int `bson:"doing" json:"doing"`
}

// EventPayload is the structured snapshot used to render text. It is
// written once by the scanner (or followup service) and never mutated.
type EventPayload struct {
	Kind   string          `bson:"kind" json:"kind"`
	Stage  string          `bson:"stage,omitempty" json:"stage,omitempty"`
	Slot   string          `bson:"slot,omitempty" json:"slot,omitempty"`
	Now    string          `bson:"now" json:"now"`
	Task   *TaskSnapshot   `bson:"task,omitempty" json:"task,omitempty"`
	Counts *FollowupCounts `bson:"counts,omitempty" json:"counts,omitempty"`
}

// NotificationEvent is a durable record of a decision to notify. For the
// deadline kind, (taskId, stage) is unique among all events of that kind;
// the event collection enforces this with a partial unique index.
type NotificationEvent struct {
	ID           string       `bson:"id" json:"id"`
	Kind         string       `bson:"kind" json:"kind"`
	TaskID       string       `bson:"taskId,omitempty" json:"task_id,omitempty"`
	Stage        string       `bson:"stage,omitempty" json:"stage,omitempty"`
	Slot         string       `bson:"slot,omitempty" json:"slot,omitempty"`
	Payload      EventPayload `bson:"payload" json:"payload"`
	RenderedText string       `bson:"renderedText,omitempty" json:"rendered_text,omitempty"`
	Status       string       `bson:"status" json:"status"`
	CreatedAt    time.Time    `bson:"createdAt" json:"created_at"`
	RenderedAt   *time.Time   `bson:"renderedAt,omitempty" json:"rendered_at,omitempty"`
}

// NotificationDelivery records one delivery attempt for a rendered event.
type NotificationDelivery struct {
	ID          string     `bson:"id" json:"id"`
	EventID     string     `bson:"eventId" json:"event_id"`
	Channel     string     `bson:"channel" json:"channel"`
	Status      string     `bson:"status" json:"status"`
	Destination string     `bson:"destination,omitempty" json:"destination,omitempty"`
	Error       string     `bson:"error,omitempty" json:"error,omitempty"`
	SentAt      *time.Time `bson:"sentAt,omitempty" json:"sent_at,omitempty"`
	CreatedAt   time.Time  `bson:"createdAt" json:"created_at"`
}

// stageOrder is the fixed urgency order used to sort evaluated stages,
// most urgent first. The order is cosmetic/stable, not used for dedup.
var stageOrder = map[string]int{
	StageOverdue: 0,
	StageT30M:    1,
	StageT2H:     2,
	StageD0:      3,
	StageD1:      4,
	StageD3:      5,
	StageD7:      6,
}

// StageRank returns the urgency rank of a stage label, lower is more urgent.
func StageRank(stage string) int {
	if r, ok := stageOrder[stage]; ok {
		return r
	}
	return 999
}
