package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityType is the closed set of activity kinds in the audit trail.
type ActivityType string

const (
	ActivityCall         ActivityType = "call"
	ActivityEmail        ActivityType = "email"
	ActivityMeeting      ActivityType = "meeting"
	ActivityNote         ActivityType = "note"
	ActivityQuoteSent    ActivityType = "quote_sent"
	ActivityFollowUp     ActivityType = "follow_up"
	ActivityStatusChange ActivityType = "status_change"
)

func AllActivityTypes() []ActivityType {
	return []ActivityType{
		ActivityCall, ActivityEmail, ActivityMeeting, ActivityNote,
		ActivityQuoteSent, ActivityFollowUp, ActivityStatusChange,
	}
}

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityCall, ActivityEmail, ActivityMeeting, ActivityNote,
		ActivityQuoteSent, ActivityFollowUp, ActivityStatusChange:
		return true
	}
	return false
}

// ContactActivityTypes are the types that count as a first response to a lead.
func ContactActivityTypes() []ActivityType {
	return []ActivityType{ActivityCall, ActivityEmail, ActivityMeeting}
}

// Activity is one append-only audit record attached to a lead. A nil UserID
// marks a system-generated entry (form submissions). Status changes carry the
// transition as structured fields; Description keeps the human-readable text.
type Activity struct {
	ID     primitive.ObjectID  `json:"_id" bson:"_id"`
	LeadID primitive.ObjectID  `json:"lead_id" bson:"lead_id"`
	UserID *primitive.ObjectID `json:"user_id,omitempty" bson:"user_id,omitempty"`

	ActivityType    ActivityType `json:"activity_type" bson:"activity_type"`
	Title           string       `json:"title" bson:"title"`
	Description     string       `json:"description,omitempty" bson:"description,omitempty"`
	DurationMinutes *int         `json:"duration_minutes,omitempty" bson:"duration_minutes,omitempty"`
	Outcome         string       `json:"outcome,omitempty" bson:"outcome,omitempty"`

	// Set only on status_change activities.
	FromStatus LeadStatus `json:"from_status,omitempty" bson:"from_status,omitempty"`
	ToStatus   LeadStatus `json:"to_status,omitempty" bson:"to_status,omitempty"`

	ScheduledAt *time.Time `json:"scheduled_at,omitempty" bson:"scheduled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
}
