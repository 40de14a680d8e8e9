package queries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"insurancecrm/models"
)

func TestBuildLeadFilterEmpty(t *testing.T) {
	filter := buildLeadFilter(LeadFilter{}, bson.M{})
	assert.Equal(t, bson.M{}, filter)
}

func TestBuildLeadFilterFields(t *testing.T) {
	agentID := primitive.NewObjectID()
	filter := buildLeadFilter(LeadFilter{
		Status:          models.StatusQualified,
		Source:          models.SourceReferral,
		AssignedAgentID: agentID.Hex(),
		Priority:        3,
	}, bson.M{})

	assert.Equal(t, models.StatusQualified, filter["status"])
	assert.Equal(t, models.SourceReferral, filter["source"])
	assert.Equal(t, agentID, filter["assigned_agent_id"])
	assert.Equal(t, 3, filter["priority"])
}

func TestBuildLeadFilterBadAgentIDIgnored(t *testing.T) {
	filter := buildLeadFilter(LeadFilter{AssignedAgentID: "not-an-id"}, bson.M{})
	_, present := filter["assigned_agent_id"]
	assert.False(t, present)
}

func TestBuildLeadFilterSearch(t *testing.T) {
	filter := buildLeadFilter(LeadFilter{Search: "smith"}, bson.M{})

	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 5, "search spans name, email, phone and city")

	first, ok := or[0].(bson.M)
	require.True(t, ok)
	regex, ok := first["first_name"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "smith", regex["$regex"])
	assert.Equal(t, "i", regex["$options"])
}

func TestBuildLeadFilterScopeWins(t *testing.T) {
	me := primitive.NewObjectID()
	other := primitive.NewObjectID()

	filter := buildLeadFilter(
		LeadFilter{AssignedAgentID: other.Hex()},
		bson.M{"assigned_agent_id": me},
	)
	assert.Equal(t, me, filter["assigned_agent_id"], "scope overrides request filters")
}
