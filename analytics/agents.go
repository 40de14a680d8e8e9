package analytics

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"insurancecrm/database"
	"insurancecrm/database/queries"
	"insurancecrm/models"
)

// AgentStats is one agent's row in the performance report.
type AgentStats struct {
	AgentName         string  `json:"agent_name"`
	AgentID           string  `json:"agent_id"`
	TotalLeads        int64   `json:"total_leads"`
	QualifiedLeads    int64   `json:"qualified_leads"`
	ClosedWon         int64   `json:"closed_won"`
	ClosedLost        int64   `json:"closed_lost"`
	QualificationRate float64 `json:"qualification_rate"`
	CloseRate         float64 `json:"close_rate"`
	EstimatedValue    float64 `json:"estimated_value"`
	ActivityCount     int64   `json:"activity_count"`
}

// AgentPerformanceReport ranks active agents by lead volume.
type AgentPerformanceReport struct {
	PerformanceData []AgentStats `json:"performance_data"`
	PeriodDays      int          `json:"period_days"`
}

// finishAgentStats fills the derived rates and sorts descending by lead
// count.
func finishAgentStats(rows []AgentStats) []AgentStats {
	for i := range rows {
		rows[i].QualificationRate = rate(rows[i].QualifiedLeads, rows[i].TotalLeads)
		rows[i].CloseRate = rate(rows[i].ClosedWon, rows[i].ClosedWon+rows[i].ClosedLost)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalLeads > rows[j].TotalLeads
	})
	return rows
}

// AgentPerformance computes per-agent lead, qualification, close and
// activity metrics over the window. Manager+ only, so it is never scoped.
func AgentPerformance(ctx context.Context, days int) (*AgentPerformanceReport, error) {
	start := windowStart(days)

	agents, err := queries.ActiveAgents(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]AgentStats, 0, len(agents))
	for _, agent := range agents {
		base := bson.M{
			"assigned_agent_id": agent.ID,
			"created_at":        bson.M{"$gte": start},
		}

		stats := AgentStats{AgentName: agent.FullName, AgentID: agent.ID.Hex()}
		if stats.TotalLeads, err = countLeads(ctx, base, ""); err != nil {
			return nil, err
		}
		if stats.QualifiedLeads, err = countLeads(ctx, base, models.StatusQualified); err != nil {
			return nil, err
		}
		if stats.ClosedWon, err = countLeads(ctx, base, models.StatusClosedWon); err != nil {
			return nil, err
		}
		if stats.ClosedLost, err = countLeads(ctx, base, models.StatusClosedLost); err != nil {
			return nil, err
		}
		if stats.EstimatedValue, err = sumEstimatedValue(ctx, base); err != nil {
			return nil, err
		}

		stats.ActivityCount, err = database.Activities().CountDocuments(ctx, bson.M{
			"user_id":    agent.ID,
			"created_at": bson.M{"$gte": start},
		})
		if err != nil {
			return nil, fmt.Errorf("AgentPerformance activities: %w", err)
		}

		rows = append(rows, stats)
	}

	return &AgentPerformanceReport{PerformanceData: finishAgentStats(rows), PeriodDays: days}, nil
}

// countLeads counts leads matching the base filter, optionally narrowed to
// one status.
func countLeads(ctx context.Context, base bson.M, status models.LeadStatus) (int64, error) {
	filter := bson.M{}
	for k, v := range base {
		filter[k] = v
	}
	if status != "" {
		filter["status"] = status
	}
	n, err := database.Leads().CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("countLeads: %w", err)
	}
	return n, nil
}

// sumEstimatedValue totals estimated_value over the matching leads.
func sumEstimatedValue(ctx context.Context, filter bson.M) (float64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"total_value": bson.M{"$sum": "$estimated_value"},
		}}},
	}
	cursor, err := database.Leads().Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sumEstimatedValue: %w", err)
	}

	var grouped []struct {
		TotalValue float64 `bson:"total_value"`
	}
	if err := cursor.All(ctx, &grouped); err != nil {
		return 0, fmt.Errorf("sumEstimatedValue decode: %w", err)
	}
	if len(grouped) == 0 {
		return 0, nil
	}
	return grouped[0].TotalValue, nil
}

// avgEstimatedValue averages estimated_value over the matching leads.
func avgEstimatedValue(ctx context.Context, filter bson.M) (float64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":       nil,
			"avg_value": bson.M{"$avg": "$estimated_value"},
		}}},
	}
	cursor, err := database.Leads().Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("avgEstimatedValue: %w", err)
	}

	var grouped []struct {
		AvgValue float64 `bson:"avg_value"`
	}
	if err := cursor.All(ctx, &grouped); err != nil {
		return 0, fmt.Errorf("avgEstimatedValue decode: %w", err)
	}
	if len(grouped) == 0 {
		return 0, nil
	}
	return grouped[0].AvgValue, nil
}
