package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"insurancecrm/models"
)

func TestNewScopePrivileged(t *testing.T) {
	id := primitive.NewObjectID()

	for _, role := range []models.UserRole{models.RoleAdmin, models.RoleManager} {
		scope := NewScope(role, id)
		assert.True(t, scope.Privileged())
		assert.Equal(t, bson.M{}, scope.LeadFilter(), "role %s should be unrestricted", role)
	}
}

func TestNewScopeAgent(t *testing.T) {
	id := primitive.NewObjectID()

	for _, role := range []models.UserRole{models.RoleAgent, models.RoleViewer} {
		scope := NewScope(role, id)
		assert.False(t, scope.Privileged())
		assert.Equal(t, bson.M{"assigned_agent_id": id}, scope.LeadFilter())
	}
}

func TestMergeScopeWins(t *testing.T) {
	id := primitive.NewObjectID()
	other := primitive.NewObjectID()
	scope := NewScope(models.RoleAgent, id)

	// A request-supplied agent filter cannot widen the scope.
	filter := merge(bson.M{"assigned_agent_id": other}, scope.LeadFilter())
	assert.Equal(t, id, filter["assigned_agent_id"])
}

func TestRate(t *testing.T) {
	assert.Equal(t, 0.0, rate(5, 0), "zero denominator yields zero, not panic")
	assert.Equal(t, 50.0, rate(1, 2))
	assert.Equal(t, 33.33, rate(1, 3))
	assert.Equal(t, 66.67, rate(2, 3))
	assert.Equal(t, 100.0, rate(7, 7))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 2750.0, round2(2750.0))
	assert.Equal(t, 1.23, round2(1.2349))
	assert.Equal(t, 1.24, round2(1.236))
}
