// Package analytics implements the read-model layer: the dashboard and
// reporting queries over the lead store. Every report takes an explicit
// Scope built once per request; nothing here writes to the store.
package analytics

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"insurancecrm/database/queries"
	"insurancecrm/models"
)

// Scope is the query restriction derived from the requesting actor. A
// privileged actor (admin or manager) gets an unrestricted scope; everyone
// else is pinned to the leads assigned to them.
type Scope struct {
	agentID    primitive.ObjectID
	privileged bool
}

// NewScope builds the scoping filter for an actor. Pure function of
// (role, identity); it issues no queries itself.
func NewScope(role models.UserRole, userID primitive.ObjectID) Scope {
	return Scope{agentID: userID, privileged: role.Privileged()}
}

// Unrestricted is the scope of a privileged actor.
func Unrestricted() Scope {
	return Scope{privileged: true}
}

// Privileged reports whether the scope imposes no restriction.
func (s Scope) Privileged() bool { return s.privileged }

// AgentID returns the actor the scope is pinned to.
func (s Scope) AgentID() primitive.ObjectID { return s.agentID }

// LeadFilter returns the restriction merged into lead-rooted queries.
func (s Scope) LeadFilter() bson.M {
	if s.privileged {
		return bson.M{}
	}
	return bson.M{"assigned_agent_id": s.agentID}
}

// ActivityFilter returns the restriction merged into activity-rooted
// queries: activities are scoped through their owning lead's assignment,
// so the agent's lead ids are resolved first.
func (s Scope) ActivityFilter(ctx context.Context) (bson.M, error) {
	if s.privileged {
		return bson.M{}, nil
	}
	ids, err := queries.LeadIDsForAgent(ctx, s.agentID)
	if err != nil {
		return nil, err
	}
	return bson.M{"lead_id": bson.M{"$in": ids}}, nil
}

// merge copies the extra restriction into filter and returns it.
func merge(filter, extra bson.M) bson.M {
	for k, v := range extra {
		filter[k] = v
	}
	return filter
}
