package analytics

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"insurancecrm/database"
	"insurancecrm/models"
)

// MonthBucket is one month's lead count.
type MonthBucket struct {
	Month       string `json:"month"`
	Year        int    `json:"year"`
	MonthNumber int    `json:"month_number"`
	Count       int64  `json:"count"`
}

// MonthlyReport is lead intake grouped by calendar month.
type MonthlyReport struct {
	MonthlyData []MonthBucket `json:"monthly_data"`
}

// LeadsByMonth groups lead creation by year/month over the lookback window.
func LeadsByMonth(ctx context.Context, months int, scope Scope) (*MonthlyReport, error) {
	start := time.Now().UTC().AddDate(0, 0, -months*30)
	match := merge(bson.M{"created_at": bson.M{"$gte": start}}, scope.LeadFilter())

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$created_at"},
				"month": bson.M{"$month": "$created_at"},
			},
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.month", Value: 1},
		}}},
	}

	cursor, err := database.Leads().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("LeadsByMonth: %w", err)
	}

	var rows []struct {
		ID struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
		} `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("LeadsByMonth decode: %w", err)
	}

	buckets := make([]MonthBucket, 0, len(rows))
	for _, r := range rows {
		label := time.Date(r.ID.Year, time.Month(r.ID.Month), 1, 0, 0, 0, 0, time.UTC).
			Format("January 2006")
		buckets = append(buckets, MonthBucket{
			Month:       label,
			Year:        r.ID.Year,
			MonthNumber: r.ID.Month,
			Count:       r.Count,
		})
	}
	return &MonthlyReport{MonthlyData: buckets}, nil
}

// WeekTrend is one ISO-ish week's performance row.
type WeekTrend struct {
	Week              string  `json:"week"`
	TotalLeads        int64   `json:"total_leads"`
	QualifiedLeads    int64   `json:"qualified_leads"`
	ClosedWon         int64   `json:"closed_won"`
	QualificationRate float64 `json:"qualification_rate"`
	CloseRate         float64 `json:"close_rate"`
	TotalValue        float64 `json:"total_value"`
}

// TrendsReport is week-over-week performance.
type TrendsReport struct {
	Trends     []WeekTrend `json:"trends"`
	PeriodDays int         `json:"period_days"`
}

// PerformanceTrends groups lead outcomes by calendar week over the window.
// Close rate here is won over total for the week, matching the dashboard
// charting convention rather than the won/(won+lost) agent metric.
func PerformanceTrends(ctx context.Context, days int, scope Scope) (*TrendsReport, error) {
	match := merge(bson.M{"created_at": bson.M{"$gte": windowStart(days)}}, scope.LeadFilter())

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year": bson.M{"$year": "$created_at"},
				"week": bson.M{"$week": "$created_at"},
			},
			"total_leads": bson.M{"$sum": 1},
			"qualified_leads": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.StatusQualified}}, 1, 0},
			}},
			"closed_won": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.StatusClosedWon}}, 1, 0},
			}},
			"total_value": bson.M{"$sum": "$estimated_value"},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.week", Value: 1},
		}}},
	}

	cursor, err := database.Leads().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("PerformanceTrends: %w", err)
	}

	var rows []struct {
		ID struct {
			Year int `bson:"year"`
			Week int `bson:"week"`
		} `bson:"_id"`
		TotalLeads     int64   `bson:"total_leads"`
		QualifiedLeads int64   `bson:"qualified_leads"`
		ClosedWon      int64   `bson:"closed_won"`
		TotalValue     float64 `bson:"total_value"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("PerformanceTrends decode: %w", err)
	}

	trends := make([]WeekTrend, 0, len(rows))
	for _, r := range rows {
		trends = append(trends, WeekTrend{
			Week:              fmt.Sprintf("%d-W%02d", r.ID.Year, r.ID.Week),
			TotalLeads:        r.TotalLeads,
			QualifiedLeads:    r.QualifiedLeads,
			ClosedWon:         r.ClosedWon,
			QualificationRate: rate(r.QualifiedLeads, r.TotalLeads),
			CloseRate:         rate(r.ClosedWon, r.TotalLeads),
			TotalValue:        r.TotalValue,
		})
	}
	return &TrendsReport{Trends: trends, PeriodDays: days}, nil
}
