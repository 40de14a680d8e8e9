package analytics

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"insurancecrm/database"
	"insurancecrm/models"
)

// statusWeight is the close probability assigned to an active pipeline
// status for forecasting.
type statusWeight struct {
	status      models.LeadStatus
	probability float64
}

// forecastWeights are fixed: the further along the pipeline, the likelier
// the close.
func forecastWeights() []statusWeight {
	return []statusWeight{
		{models.StatusNew, 0.10},
		{models.StatusContacted, 0.20},
		{models.StatusQualified, 0.50},
		{models.StatusProposalSent, 0.80},
	}
}

// StatusForecast is one per-status row of the revenue forecast.
type StatusForecast struct {
	Status        models.LeadStatus `json:"status"`
	LeadCount     int64             `json:"lead_count"`
	TotalValue    float64           `json:"total_value"`
	Probability   float64           `json:"probability"`
	WeightedValue float64           `json:"weighted_value"`
}

// ForecastReport is the pipeline revenue forecast.
type ForecastReport struct {
	ForecastData       []StatusForecast `json:"forecast_data"`
	TotalPipelineValue float64          `json:"total_pipeline_value"`
	WeightedForecast   float64          `json:"weighted_forecast"`
}

// buildForecast applies the probability weights to per-status pipeline
// totals and sums the weighted forecast.
func buildForecast(rows []StatusForecast) *ForecastReport {
	var pipeline, weighted float64
	for i := range rows {
		rows[i].WeightedValue = round2(rows[i].TotalValue * rows[i].Probability)
		pipeline += rows[i].TotalValue
		weighted += rows[i].TotalValue * rows[i].Probability
	}
	return &ForecastReport{
		ForecastData:       rows,
		TotalPipelineValue: round2(pipeline),
		WeightedForecast:   round2(weighted),
	}
}

// RevenueForecast sums the estimated value of valued leads in each active
// status and weights it by that status's close probability.
func RevenueForecast(ctx context.Context, scope Scope) (*ForecastReport, error) {
	base := merge(bson.M{
		"estimated_value": bson.M{"$ne": nil, "$gt": 0},
	}, scope.LeadFilter())

	rows := make([]StatusForecast, 0, 4)
	for _, w := range forecastWeights() {
		filter := bson.M{"status": w.status}
		for k, v := range base {
			filter[k] = v
		}

		pipeline := mongo.Pipeline{
			bson.D{{Key: "$match", Value: filter}},
			bson.D{{Key: "$group", Value: bson.M{
				"_id":         nil,
				"count":       bson.M{"$sum": 1},
				"total_value": bson.M{"$sum": "$estimated_value"},
			}}},
		}
		cursor, err := database.Leads().Aggregate(ctx, pipeline)
		if err != nil {
			return nil, fmt.Errorf("RevenueForecast %s: %w", w.status, err)
		}

		var grouped []struct {
			Count      int64   `bson:"count"`
			TotalValue float64 `bson:"total_value"`
		}
		if err := cursor.All(ctx, &grouped); err != nil {
			return nil, fmt.Errorf("RevenueForecast decode: %w", err)
		}

		row := StatusForecast{Status: w.status, Probability: w.probability}
		if len(grouped) > 0 {
			row.LeadCount = grouped[0].Count
			row.TotalValue = grouped[0].TotalValue
		}
		rows = append(rows, row)
	}

	return buildForecast(rows), nil
}
