package analytics

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"insurancecrm/database"
	"insurancecrm/models"
)

// funnelStage defines one cumulative pipeline milestone: the set of statuses
// meaning "reached at least this stage".
type funnelStage struct {
	name     string
	statuses []models.LeadStatus
}

// funnelStages lists the milestones in order. Each stage's status set is a
// subset of the previous one's (plus closed_lost past "new"), so counts are
// non-increasing stage over stage.
func funnelStages() []funnelStage {
	return []funnelStage{
		{"New Leads", []models.LeadStatus{models.StatusNew}},
		{"Contacted", []models.LeadStatus{
			models.StatusContacted, models.StatusQualified,
			models.StatusProposalSent, models.StatusClosedWon, models.StatusClosedLost,
		}},
		{"Qualified", []models.LeadStatus{
			models.StatusQualified, models.StatusProposalSent, models.StatusClosedWon,
		}},
		{"Proposal Sent", []models.LeadStatus{models.StatusProposalSent, models.StatusClosedWon}},
		{"Closed Won", []models.LeadStatus{models.StatusClosedWon}},
	}
}

// FunnelStageResult is one row of the conversion funnel report.
type FunnelStageResult struct {
	Stage          string   `json:"stage"`
	Count          int64    `json:"count"`
	ConversionRate *float64 `json:"conversion_rate"`
}

// FunnelReport is the conversion funnel over a lookback window.
type FunnelReport struct {
	Funnel     []FunnelStageResult `json:"funnel"`
	PeriodDays int                 `json:"period_days"`
}

// buildFunnelRows derives per-stage conversion rates from raw counts. The
// first stage has no previous stage, so its rate is null.
func buildFunnelRows(names []string, counts []int64) []FunnelStageResult {
	rows := make([]FunnelStageResult, 0, len(names))
	for i, name := range names {
		row := FunnelStageResult{Stage: name, Count: counts[i]}
		if i > 0 && counts[i-1] > 0 {
			r := rate(counts[i], counts[i-1])
			row.ConversionRate = &r
		}
		rows = append(rows, row)
	}
	return rows
}

// ConversionFunnel counts leads that reached each cumulative stage within
// the window and computes stage-over-stage conversion rates.
func ConversionFunnel(ctx context.Context, days int, scope Scope) (*FunnelReport, error) {
	base := merge(bson.M{"created_at": bson.M{"$gte": windowStart(days)}}, scope.LeadFilter())

	stages := funnelStages()
	names := make([]string, 0, len(stages))
	counts := make([]int64, 0, len(stages))

	for _, stage := range stages {
		filter := bson.M{"status": bson.M{"$in": stage.statuses}}
		for k, v := range base {
			filter[k] = v
		}
		count, err := database.Leads().CountDocuments(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("ConversionFunnel %q: %w", stage.name, err)
		}
		names = append(names, stage.name)
		counts = append(counts, count)
	}

	return &FunnelReport{Funnel: buildFunnelRows(names, counts), PeriodDays: days}, nil
}
