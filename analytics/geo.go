package analytics

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"insurancecrm/database"
	"insurancecrm/models"
)

// StateStats is one state's row of the geographic report.
type StateStats struct {
	State               string  `json:"state"`
	Count               int64   `json:"count"`
	TotalEstimatedValue float64 `json:"total_estimated_value"`
	AvgEstimatedValue   float64 `json:"avg_estimated_value"`
	ClosedWon           int64   `json:"closed_won"`
	CloseRate           float64 `json:"close_rate"`
	Percentage          float64 `json:"percentage"`
}

// CityStats is one of the top cities by lead count.
type CityStats struct {
	City  string `json:"city"`
	State string `json:"state"`
	Count int64  `json:"count"`
}

// GeoReport is the geographic distribution of leads.
type GeoReport struct {
	ByState    []StateStats `json:"by_state"`
	TopCities  []CityStats  `json:"top_cities"`
	TotalLeads int64        `json:"total_leads"`
	PeriodDays int          `json:"period_days"`
}

// finishStateStats computes each state's share of the total.
func finishStateStats(rows []StateStats, total int64) []StateStats {
	for i := range rows {
		rows[i].Percentage = rate(rows[i].Count, total)
	}
	return rows
}

// GeographicDistribution groups leads by state (with value and close-rate
// aggregates) and lists the top 10 cities.
func GeographicDistribution(ctx context.Context, days int, scope Scope) (*GeoReport, error) {
	base := merge(bson.M{"created_at": bson.M{"$gte": windowStart(days)}}, scope.LeadFilter())

	statePipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: base}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":                   "$state",
			"count":                 bson.M{"$sum": 1},
			"total_estimated_value": bson.M{"$sum": "$estimated_value"},
			"avg_estimated_value":   bson.M{"$avg": "$estimated_value"},
			"closed_won": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.StatusClosedWon}}, 1, 0},
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}

	cursor, err := database.Leads().Aggregate(ctx, statePipeline)
	if err != nil {
		return nil, fmt.Errorf("GeographicDistribution states: %w", err)
	}

	var stateRows []struct {
		State               string  `bson:"_id"`
		Count               int64   `bson:"count"`
		TotalEstimatedValue float64 `bson:"total_estimated_value"`
		AvgEstimatedValue   float64 `bson:"avg_estimated_value"`
		ClosedWon           int64   `bson:"closed_won"`
	}
	if err := cursor.All(ctx, &stateRows); err != nil {
		return nil, fmt.Errorf("GeographicDistribution decode: %w", err)
	}

	var total int64
	states := make([]StateStats, 0, len(stateRows))
	for _, r := range stateRows {
		total += r.Count
		state := r.State
		if state == "" {
			state = "Unknown"
		}
		states = append(states, StateStats{
			State:               state,
			Count:               r.Count,
			TotalEstimatedValue: r.TotalEstimatedValue,
			AvgEstimatedValue:   round2(r.AvgEstimatedValue),
			ClosedWon:           r.ClosedWon,
			CloseRate:           rate(r.ClosedWon, r.Count),
		})
	}
	states = finishStateStats(states, total)

	cityPipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: base}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"city": "$city", "state": "$state"},
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		bson.D{{Key: "$limit", Value: 10}},
	}

	cityCursor, err := database.Leads().Aggregate(ctx, cityPipeline)
	if err != nil {
		return nil, fmt.Errorf("GeographicDistribution cities: %w", err)
	}

	var cityRows []struct {
		ID struct {
			City  string `bson:"city"`
			State string `bson:"state"`
		} `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cityCursor.All(ctx, &cityRows); err != nil {
		return nil, fmt.Errorf("GeographicDistribution cities decode: %w", err)
	}

	cities := make([]CityStats, 0, len(cityRows))
	for _, r := range cityRows {
		city, state := r.ID.City, r.ID.State
		if city == "" {
			city = "Unknown"
		}
		if state == "" {
			state = "Unknown"
		}
		cities = append(cities, CityStats{City: city, State: state, Count: r.Count})
	}

	return &GeoReport{
		ByState:    states,
		TopCities:  cities,
		TotalLeads: total,
		PeriodDays: days,
	}, nil
}
