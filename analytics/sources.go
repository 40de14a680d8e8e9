package analytics

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson"

	"insurancecrm/models"
)

// SourceStats is one lead source's row in the source analysis report.
type SourceStats struct {
	Source                models.LeadSource `json:"source"`
	TotalLeads            int64             `json:"total_leads"`
	QualifiedLeads        int64             `json:"qualified_leads"`
	ClosedWon             int64             `json:"closed_won"`
	ClosedLost            int64             `json:"closed_lost"`
	QualificationRate     float64           `json:"qualification_rate"`
	CloseRate             float64           `json:"close_rate"`
	AverageEstimatedValue float64           `json:"average_estimated_value"`
}

// SourceAnalysisReport compares lead sources over a lookback window.
type SourceAnalysisReport struct {
	SourceAnalysis []SourceStats `json:"source_analysis"`
	PeriodDays     int           `json:"period_days"`
}

// finishSourceStats fills the derived rates and sorts descending by lead
// count.
func finishSourceStats(rows []SourceStats) []SourceStats {
	for i := range rows {
		rows[i].QualificationRate = rate(rows[i].QualifiedLeads, rows[i].TotalLeads)
		rows[i].CloseRate = rate(rows[i].ClosedWon, rows[i].ClosedWon+rows[i].ClosedLost)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalLeads > rows[j].TotalLeads
	})
	return rows
}

// SourceAnalysis computes qualification/close rates and average estimated
// value per lead source. Every source gets a row, even when zero-count.
func SourceAnalysis(ctx context.Context, days int, scope Scope) (*SourceAnalysisReport, error) {
	base := merge(bson.M{"created_at": bson.M{"$gte": windowStart(days)}}, scope.LeadFilter())

	rows := make([]SourceStats, 0, len(models.AllLeadSources()))
	for _, source := range models.AllLeadSources() {
		filter := bson.M{"source": source}
		for k, v := range base {
			filter[k] = v
		}

		stats := SourceStats{Source: source}
		var err error
		if stats.TotalLeads, err = countLeads(ctx, filter, ""); err != nil {
			return nil, err
		}
		if stats.QualifiedLeads, err = countLeads(ctx, filter, models.StatusQualified); err != nil {
			return nil, err
		}
		if stats.ClosedWon, err = countLeads(ctx, filter, models.StatusClosedWon); err != nil {
			return nil, err
		}
		if stats.ClosedLost, err = countLeads(ctx, filter, models.StatusClosedLost); err != nil {
			return nil, err
		}

		avg, err := avgEstimatedValue(ctx, filter)
		if err != nil {
			return nil, err
		}
		stats.AverageEstimatedValue = round2(avg)

		rows = append(rows, stats)
	}

	return &SourceAnalysisReport{SourceAnalysis: finishSourceStats(rows), PeriodDays: days}, nil
}
