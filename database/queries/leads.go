package queries

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"insurancecrm/database"
	"insurancecrm/models"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
	queryTimeout    = 5 * time.Second
)

// LeadFilter carries the optional list filters from the leads endpoint.
type LeadFilter struct {
	Status          models.LeadStatus
	Source          models.LeadSource
	AssignedAgentID string
	Priority        int
	Search          string
	Skip            int
	Limit           int
}

// buildLeadFilter translates a LeadFilter plus the caller's scope into a
// Mongo filter document. The scope is ANDed in last so it can never be
// widened by request parameters.
func buildLeadFilter(f LeadFilter, scope bson.M) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Source != "" {
		filter["source"] = f.Source
	}
	if f.AssignedAgentID != "" {
		if id, err := primitive.ObjectIDFromHex(f.AssignedAgentID); err == nil {
			filter["assigned_agent_id"] = id
		}
	}
	if f.Priority != 0 {
		filter["priority"] = f.Priority
	}
	if f.Search != "" {
		regex := bson.M{"$regex": f.Search, "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"first_name": regex},
			bson.M{"last_name": regex},
			bson.M{"email": regex},
			bson.M{"phone_number": regex},
			bson.M{"city": regex},
		}
	}
	for k, v := range scope {
		filter[k] = v
	}
	return filter
}

// ListLeads returns one page of leads, newest first, plus the total count
// for the filter.
func ListLeads(ctx context.Context, f LeadFilter, scope bson.M) ([]models.Lead, int64, error) {
	if f.Limit < 1 || f.Limit > MaxPageSize {
		f.Limit = DefaultPageSize
	}
	if f.Skip < 0 {
		f.Skip = 0
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := buildLeadFilter(f, scope)

	total, err := database.Leads().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("ListLeads count: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(f.Skip)).
		SetLimit(int64(f.Limit))
	cursor, err := database.Leads().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("ListLeads find: %w", err)
	}

	leads := []models.Lead{}
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, 0, fmt.Errorf("ListLeads decode: %w", err)
	}
	return leads, total, nil
}

// GetLead fetches a single lead by id.
func GetLead(ctx context.Context, id primitive.ObjectID) (*models.Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var lead models.Lead
	if err := database.Leads().FindOne(ctx, bson.M{"_id": id}).Decode(&lead); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("GetLead: %w", err)
	}
	return &lead, nil
}

// FindLeadByEmail is used by the intake endpoint to detect re-submissions.
// A missing lead is returned as (nil, nil).
func FindLeadByEmail(ctx context.Context, email string) (*models.Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var lead models.Lead
	err := database.Leads().FindOne(ctx, bson.M{"email": email}).Decode(&lead)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindLeadByEmail: %w", err)
	}
	return &lead, nil
}

// InsertLead stores a new lead, stamping id and timestamps.
func InsertLead(ctx context.Context, lead *models.Lead) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	lead.ID = primitive.NewObjectID()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	if _, err := database.Leads().InsertOne(ctx, lead); err != nil {
		return fmt.Errorf("InsertLead: %w", err)
	}
	return nil
}

// UpdateLead applies a partial $set update and returns the updated document.
func UpdateLead(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	fields["updated_at"] = time.Now().UTC()
	res, err := database.Leads().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return nil, fmt.Errorf("UpdateLead: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, database.ErrNotFound
	}
	return GetLead(ctx, id)
}

// DeleteLeadCascade removes a lead together with its activities and quotes.
func DeleteLeadCascade(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := database.Leads().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("DeleteLeadCascade: %w", err)
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}

	if _, err := database.Activities().DeleteMany(ctx, bson.M{"lead_id": id}); err != nil {
		return fmt.Errorf("DeleteLeadCascade activities: %w", err)
	}
	if _, err := database.Quotes().DeleteMany(ctx, bson.M{"lead_id": id}); err != nil {
		return fmt.Errorf("DeleteLeadCascade quotes: %w", err)
	}
	return nil
}

// AssignLead points a lead at an agent.
func AssignLead(ctx context.Context, leadID, agentID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := database.Leads().UpdateOne(ctx, bson.M{"_id": leadID}, bson.M{"$set": bson.M{
		"assigned_agent_id": agentID,
		"updated_at":        time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("AssignLead: %w", err)
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

// PendingFollowUps returns open leads whose follow-up date has arrived,
// soonest first.
func PendingFollowUps(ctx context.Context, scope bson.M) ([]models.Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"next_follow_up_date": bson.M{"$lte": time.Now().UTC()},
		"status":              bson.M{"$in": models.OpenStatuses()},
	}
	for k, v := range scope {
		filter[k] = v
	}

	opts := options.Find().SetSort(bson.D{{Key: "next_follow_up_date", Value: 1}})
	cursor, err := database.Leads().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("PendingFollowUps: %w", err)
	}

	leads := []models.Lead{}
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, fmt.Errorf("PendingFollowUps decode: %w", err)
	}
	return leads, nil
}
