package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"insurancecrm/models"
)

func TestNewLeadEvent(t *testing.T) {
	lead := &models.Lead{
		ID:        primitive.NewObjectID(),
		FirstName: "Alice",
		Status:    models.StatusNew,
	}

	raw, err := NewLeadEvent(EventLeadCreated, lead)
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, EventLeadCreated, msg.Type)
	assert.False(t, msg.Timestamp.IsZero())

	var payload models.Lead
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, "Alice", payload.FirstName)
	assert.Equal(t, lead.ID, payload.ID)
}

func TestNewLeadDeletedEvent(t *testing.T) {
	id := primitive.NewObjectID().Hex()

	raw, err := NewLeadDeletedEvent(id)
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, EventLeadDeleted, msg.Type)

	var payload struct {
		LeadID string `json:"lead_id"`
	}
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, id, payload.LeadID)
}
