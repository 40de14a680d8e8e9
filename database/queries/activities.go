package queries

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"insurancecrm/database"
	"insurancecrm/models"
)

// InsertActivity appends one audit record, stamping id and creation time.
func InsertActivity(ctx context.Context, a *models.Activity) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	a.ID = primitive.NewObjectID()
	a.CreatedAt = time.Now().UTC()

	if _, err := database.Activities().InsertOne(ctx, a); err != nil {
		return fmt.Errorf("InsertActivity: %w", err)
	}
	return nil
}

// LeadActivities returns the full audit trail for a lead, newest first.
func LeadActivities(ctx context.Context, leadID primitive.ObjectID) ([]models.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.Activities().Find(ctx, bson.M{"lead_id": leadID}, opts)
	if err != nil {
		return nil, fmt.Errorf("LeadActivities: %w", err)
	}

	activities := []models.Activity{}
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("LeadActivities decode: %w", err)
	}
	return activities, nil
}

// LeadIDsForAgent lists the ids of every lead assigned to the agent. The
// scoping policy uses it to restrict activity-rooted queries.
func LeadIDsForAgent(ctx context.Context, agentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := database.Leads().Find(ctx, bson.M{"assigned_agent_id": agentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("LeadIDsForAgent: %w", err)
	}

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("LeadIDsForAgent decode: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// TouchLastContact stamps the lead's last contact date.
func TouchLastContact(ctx context.Context, leadID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := database.Leads().UpdateOne(ctx, bson.M{"_id": leadID}, bson.M{"$set": bson.M{
		"last_contact_date": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("TouchLastContact: %w", err)
	}
	return nil
}

// LogStatusChange records a structured status transition on the audit trail.
// The description keeps the legacy human-readable form for older consumers.
func LogStatusChange(ctx context.Context, leadID primitive.ObjectID, userID *primitive.ObjectID, from, to models.LeadStatus) error {
	return InsertActivity(ctx, &models.Activity{
		LeadID:       leadID,
		UserID:       userID,
		ActivityType: models.ActivityStatusChange,
		Title:        "Status Changed",
		Description:  fmt.Sprintf("Status changed from %s to %s", from, to),
		FromStatus:   from,
		ToStatus:     to,
	})
}
