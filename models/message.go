package models

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a feed entry. Rendered notifications are projected here with
// role=assistant and a back-link to the originating event.
type Message struct {
	ID        string    `bson:"id" json:"id"`
	Role      string    `bson:"role" json:"role"`
	Content   string    `bson:"content" json:"content"`
	EventID   string    `bson:"eventId,omitempty" json:"event_id,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
}

// FollowupRun is an audit row recorded each time a followup slot fires.
type FollowupRun struct {
	ID        string    `bson:"id" json:"id"`
	Slot      string    `bson:"slot" json:"slot"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
}
