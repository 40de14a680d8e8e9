package analytics

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"insurancecrm/database"
	"insurancecrm/models"
)

// TimelineReport maps day (YYYY-MM-DD) to per-activity-type counts.
type TimelineReport struct {
	TimelineData map[string]map[models.ActivityType]int64 `json:"timeline_data"`
	PeriodDays   int                                      `json:"period_days"`
}

// ActivityTimeline groups activities by day and type, optionally narrowed
// to one lead. With leadID set the per-lead filter replaces the scope's
// lead_id restriction, so the caller must check lead access first.
func ActivityTimeline(ctx context.Context, days int, leadID *primitive.ObjectID, scope Scope) (*TimelineReport, error) {
	filter := bson.M{"created_at": bson.M{"$gte": windowStart(days)}}

	scoped, err := scope.ActivityFilter(ctx)
	if err != nil {
		return nil, err
	}
	for k, v := range scoped {
		filter[k] = v
	}
	if leadID != nil {
		filter["lead_id"] = *leadID
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"date": bson.M{"$dateToString": bson.M{
					"format": "%Y-%m-%d",
					"date":   "$created_at",
				}},
				"activity_type": "$activity_type",
			},
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id.date", Value: 1}}}},
	}

	cursor, err := database.Activities().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("ActivityTimeline: %w", err)
	}

	var rows []struct {
		ID struct {
			Date         string              `bson:"date"`
			ActivityType models.ActivityType `bson:"activity_type"`
		} `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("ActivityTimeline decode: %w", err)
	}

	timeline := make(map[string]map[models.ActivityType]int64)
	for _, r := range rows {
		if timeline[r.ID.Date] == nil {
			timeline[r.ID.Date] = make(map[models.ActivityType]int64)
		}
		timeline[r.ID.Date][r.ID.ActivityType] = r.Count
	}

	return &TimelineReport{TimelineData: timeline, PeriodDays: days}, nil
}
