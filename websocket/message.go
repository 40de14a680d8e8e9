package websocket

import (
	"encoding/json"
	"time"

	"insurancecrm/models"
)

// Event types pushed over the feed.
const (
	EventLeadCreated   = "lead_created"
	EventLeadUpdated   = "lead_updated"
	EventLeadAssigned  = "lead_assigned"
	EventLeadDeleted   = "lead_deleted"
	EventActivityAdded = "activity_added"
)

// Message is the envelope for every feed event.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage wraps a payload in the event envelope.
func NewMessage(messageType string, payload interface{}) ([]byte, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	message := Message{
		Type:      messageType,
		Payload:   payloadJSON,
		Timestamp: time.Now().UTC(),
	}

	return json.Marshal(message)
}

// NewLeadEvent builds a lead lifecycle event.
func NewLeadEvent(eventType string, lead *models.Lead) ([]byte, error) {
	return NewMessage(eventType, lead)
}

// NewLeadDeletedEvent carries just the removed lead's id.
func NewLeadDeletedEvent(leadID string) ([]byte, error) {
	payload := struct {
		LeadID string `json:"lead_id"`
	}{LeadID: leadID}

	return NewMessage(EventLeadDeleted, payload)
}

// NewActivityEvent builds an activity-added event.
func NewActivityEvent(activity *models.Activity) ([]byte, error) {
	return NewMessage(EventActivityAdded, activity)
}
