package analytics

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"insurancecrm/database"
	"insurancecrm/models"
)

// ResponseBucket is one row of the fixed response-time histogram.
type ResponseBucket struct {
	Range      string  `json:"range"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ResponseTimeReport summarizes how fast leads get their first contact.
type ResponseTimeReport struct {
	AverageResponseTimeHours float64          `json:"average_response_time_hours"`
	MedianResponseTimeHours  float64          `json:"median_response_time_hours"`
	FastestResponseHours     float64          `json:"fastest_response_hours"`
	SlowestResponseHours     float64          `json:"slowest_response_hours"`
	TotalRespondedLeads      int              `json:"total_responded_leads"`
	ResponseTimeBreakdown    []ResponseBucket `json:"response_time_breakdown"`
}

// summarizeResponseTimes computes mean/median/min/max and the fixed-bucket
// histogram from per-lead response times in hours. Median uses the
// lower-middle element on even counts.
func summarizeResponseTimes(hours []float64) *ResponseTimeReport {
	if len(hours) == 0 {
		return &ResponseTimeReport{ResponseTimeBreakdown: []ResponseBucket{}}
	}

	sorted := append([]float64(nil), hours...)
	sort.Float64s(sorted)
	total := len(sorted)

	var sum float64
	for _, h := range sorted {
		sum += h
	}

	median := sorted[total/2]
	if total%2 == 0 {
		median = sorted[total/2-1]
	}

	buckets := []struct {
		name     string
		min, max float64 // [min, max)
	}{
		{"< 1 hour", 0, 1},
		{"1-4 hours", 1, 4},
		{"4-24 hours", 4, 24},
		{"1-3 days", 24, 72},
		{"> 3 days", 72, -1},
	}

	breakdown := make([]ResponseBucket, 0, len(buckets))
	for _, b := range buckets {
		count := 0
		for _, h := range sorted {
			if h >= b.min && (b.max < 0 || h < b.max) {
				count++
			}
		}
		breakdown = append(breakdown, ResponseBucket{
			Range:      b.name,
			Count:      count,
			Percentage: rate(int64(count), int64(total)),
		})
	}

	return &ResponseTimeReport{
		AverageResponseTimeHours: round2(sum / float64(total)),
		MedianResponseTimeHours:  round2(median),
		FastestResponseHours:     round2(sorted[0]),
		SlowestResponseHours:     round2(sorted[total-1]),
		TotalRespondedLeads:      total,
		ResponseTimeBreakdown:    breakdown,
	}
}

// LeadResponseTime measures, per lead created in the window, the hours from
// creation to the earliest call/email/meeting activity. Leads with no
// qualifying activity are excluded.
func LeadResponseTime(ctx context.Context, days int, scope Scope) (*ResponseTimeReport, error) {
	base := merge(bson.M{"created_at": bson.M{"$gte": windowStart(days)}}, scope.LeadFilter())

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: base}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         database.CollectionActivities,
			"localField":   "_id",
			"foreignField": "lead_id",
			"as":           "activities",
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"first_contact": bson.M{"$min": bson.M{"$filter": bson.M{
				"input": "$activities",
				"cond":  bson.M{"$in": bson.A{"$$this.activity_type", models.ContactActivityTypes()}},
			}}},
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"response_time_hours": bson.M{"$cond": bson.M{
				"if": bson.M{"$ne": bson.A{"$first_contact", nil}},
				"then": bson.M{"$divide": bson.A{
					bson.M{"$subtract": bson.A{"$first_contact.created_at", "$created_at"}},
					3600000, // ms to hours
				}},
				"else": nil,
			}},
		}}},
		bson.D{{Key: "$match", Value: bson.M{"response_time_hours": bson.M{"$ne": nil}}}},
	}

	cursor, err := database.Leads().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("LeadResponseTime: %w", err)
	}

	var rows []struct {
		ResponseTimeHours float64 `bson:"response_time_hours"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("LeadResponseTime decode: %w", err)
	}

	hours := make([]float64, 0, len(rows))
	for _, r := range rows {
		hours = append(hours, r.ResponseTimeHours)
	}
	return summarizeResponseTimes(hours), nil
}
