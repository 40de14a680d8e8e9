package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"insurancecrm/database"
	"insurancecrm/models"
)

// displayLabel turns an enum value like "phone_call" into "Phone Call".
func displayLabel(v string) string {
	words := strings.Split(v, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// DashboardStats is the headline card set on the dashboard.
type DashboardStats struct {
	TotalLeads          int64   `json:"total_leads"`
	NewLeads            int64   `json:"new_leads"`
	QualifiedLeads      int64   `json:"qualified_leads"`
	ClosedWon           int64   `json:"closed_won"`
	ClosedLost          int64   `json:"closed_lost"`
	ConversionRate      float64 `json:"conversion_rate"`
	TotalEstimatedValue float64 `json:"total_estimated_value"`
	LeadsThisWeek       int64   `json:"leads_this_week"`
	LeadsThisMonth      int64   `json:"leads_this_month"`
}

// Stats aggregates the headline dashboard numbers for the actor's scope.
func Stats(ctx context.Context, scope Scope) (*DashboardStats, error) {
	base := scope.LeadFilter()

	stats := &DashboardStats{}
	var err error
	if stats.TotalLeads, err = countLeads(ctx, base, ""); err != nil {
		return nil, err
	}
	if stats.NewLeads, err = countLeads(ctx, base, models.StatusNew); err != nil {
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
	stats.ConversionRate = rate(stats.ClosedWon, stats.ClosedWon+stats.ClosedLost)

	if stats.TotalEstimatedValue, err = sumEstimatedValue(ctx, base); err != nil {
		return nil, err
	}

	weekFilter := merge(bson.M{"created_at": bson.M{"$gte": windowStart(7)}}, base)
	if stats.LeadsThisWeek, err = countLeads(ctx, weekFilter, ""); err != nil {
		return nil, err
	}
	monthFilter := merge(bson.M{"created_at": bson.M{"$gte": windowStart(30)}}, base)
	if stats.LeadsThisMonth, err = countLeads(ctx, monthFilter, ""); err != nil {
		return nil, err
	}

	return stats, nil
}

// DistributionRow is one bucket of a status/source distribution.
type DistributionRow struct {
	Label      string  `json:"label"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DistributionReport is a labeled count distribution with share-of-total.
type DistributionReport struct {
	Distribution []DistributionRow `json:"distribution"`
	TotalLeads   int64             `json:"total_leads"`
}

// finishDistribution computes percentages and sorts descending by count.
func finishDistribution(rows []DistributionRow, total int64) []DistributionRow {
	for i := range rows {
		rows[i].Percentage = rate(rows[i].Count, total)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})
	return rows
}

// LeadsByStatus counts leads per pipeline status. Every status gets a
// bucket so a zero count is visible rather than missing.
func LeadsByStatus(ctx context.Context, scope Scope) (*DistributionReport, error) {
	base := scope.LeadFilter()
	total, err := countLeads(ctx, base, "")
	if err != nil {
		return nil, err
	}

	rows := make([]DistributionRow, 0, len(models.AllLeadStatuses()))
	for _, status := range models.AllLeadStatuses() {
		count, err := countLeads(ctx, base, status)
		if err != nil {
			return nil, err
		}
		rows = append(rows, DistributionRow{Label: displayLabel(string(status)), Count: count})
	}

	return &DistributionReport{Distribution: finishDistribution(rows, total), TotalLeads: total}, nil
}

// LeadsBySource counts leads per acquisition source.
func LeadsBySource(ctx context.Context, scope Scope) (*DistributionReport, error) {
	base := scope.LeadFilter()
	total, err := countLeads(ctx, base, "")
	if err != nil {
		return nil, err
	}

	rows := make([]DistributionRow, 0, len(models.AllLeadSources()))
	for _, source := range models.AllLeadSources() {
		filter := merge(bson.M{"source": source}, base)
		count, err := countLeads(ctx, filter, "")
		if err != nil {
			return nil, err
		}
		rows = append(rows, DistributionRow{Label: displayLabel(string(source)), Count: count})
	}

	return &DistributionReport{Distribution: finishDistribution(rows, total), TotalLeads: total}, nil
}

// ActivityTypeCount is one activity type's count in the summary.
type ActivityTypeCount struct {
	ActivityType string `json:"activity_type"`
	Count        int64  `json:"count"`
}

// ActivitySummaryReport is the recent-activity widget payload.
type ActivitySummaryReport struct {
	ActivitySummary     []ActivityTypeCount `json:"activity_summary"`
	TotalActivities     int64               `json:"total_activities"`
	PreviousPeriodCount int64               `json:"previous_period_count"`
	PeriodDays          int                 `json:"period_days"`
}

// ActivitySummary groups recent activities by type, with the preceding
// window's count for comparison.
func ActivitySummary(ctx context.Context, days int, scope Scope) (*ActivitySummaryReport, error) {
	start := windowStart(days)
	filter := bson.M{"created_at": bson.M{"$gte": start}}

	scoped, err := scope.ActivityFilter(ctx)
	if err != nil {
		return nil, err
	}
	for k, v := range scoped {
		filter[k] = v
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$activity_type",
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}
	cursor, err := database.Activities().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("ActivitySummary: %w", err)
	}

	var rows []struct {
		Type  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("ActivitySummary decode: %w", err)
	}

	summary := make([]ActivityTypeCount, 0, len(rows))
	var total int64
	for _, r := range rows {
		total += r.Count
		summary = append(summary, ActivityTypeCount{
			ActivityType: displayLabel(r.Type),
			Count:        r.Count,
		})
	}

	prevFilter := bson.M{"created_at": bson.M{
		"$gte": start.AddDate(0, 0, -days),
		"$lt":  start,
	}}
	for k, v := range scoped {
		prevFilter[k] = v
	}
	previous, err := database.Activities().CountDocuments(ctx, prevFilter)
	if err != nil {
		return nil, fmt.Errorf("ActivitySummary previous: %w", err)
	}

	return &ActivitySummaryReport{
		ActivitySummary:     summary,
		TotalActivities:     total,
		PreviousPeriodCount: previous,
		PeriodDays:          days,
	}, nil
}

// RecentLeads returns the newest leads in scope.
func RecentLeads(ctx context.Context, limit int, scope Scope) ([]models.Lead, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := database.Leads().Find(ctx, scope.LeadFilter(), opts)
	if err != nil {
		return nil, fmt.Errorf("RecentLeads: %w", err)
	}

	leads := []models.Lead{}
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, fmt.Errorf("RecentLeads decode: %w", err)
	}
	return leads, nil
}

// UpcomingFollowUps lists open leads due for follow-up within the next
// days, soonest first.
func UpcomingFollowUps(ctx context.Context, days int, scope Scope) ([]models.Lead, error) {
	now := time.Now().UTC()
	filter := merge(bson.M{
		"next_follow_up_date": bson.M{"$gte": now, "$lte": now.AddDate(0, 0, days)},
		"status":              bson.M{"$in": models.OpenStatuses()},
	}, scope.LeadFilter())

	return followUpLeads(ctx, filter)
}

// OverdueFollowUps lists open leads whose follow-up date has passed.
func OverdueFollowUps(ctx context.Context, scope Scope) ([]models.Lead, error) {
	filter := merge(bson.M{
		"next_follow_up_date": bson.M{"$lt": time.Now().UTC()},
		"status":              bson.M{"$in": models.OpenStatuses()},
	}, scope.LeadFilter())

	return followUpLeads(ctx, filter)
}

func followUpLeads(ctx context.Context, filter bson.M) ([]models.Lead, error) {
	opts := options.Find().SetSort(bson.D{{Key: "next_follow_up_date", Value: 1}})
	cursor, err := database.Leads().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("followUpLeads: %w", err)
	}

	leads := []models.Lead{}
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, fmt.Errorf("followUpLeads decode: %w", err)
	}
	return leads, nil
}

// TopSource is one row of the top-performing-sources widget.
type TopSource struct {
	Source         string  `json:"source"`
	TotalLeads     int64   `json:"total_leads"`
	Qualified      int64   `json:"qualified"`
	ClosedWon      int64   `json:"closed_won"`
	ConversionRate float64 `json:"conversion_rate"`
	TotalValue     float64 `json:"total_value"`
}

// TopSourcesReport ranks sources by conversion rate.
type TopSourcesReport struct {
	TopSources []TopSource `json:"top_sources"`
	PeriodDays int         `json:"period_days"`
}

// TopPerformingSources returns the five best-converting sources over the
// window.
func TopPerformingSources(ctx context.Context, days int, scope Scope) (*TopSourcesReport, error) {
	match := merge(bson.M{"created_at": bson.M{"$gte": windowStart(days)}}, scope.LeadFilter())

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":         "$source",
			"total_leads": bson.M{"$sum": 1},
			"qualified": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.StatusQualified}}, 1, 0},
			}},
			"closed_won": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.StatusClosedWon}}, 1, 0},
			}},
			"total_value": bson.M{"$sum": "$estimated_value"},
		}}},
	}
	cursor, err := database.Leads().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("TopPerformingSources: %w", err)
	}

	var rows []struct {
		Source     string  `bson:"_id"`
		TotalLeads int64   `bson:"total_leads"`
		Qualified  int64   `bson:"qualified"`
		ClosedWon  int64   `bson:"closed_won"`
		TotalValue float64 `bson:"total_value"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("TopPerformingSources decode: %w", err)
	}

	sources := make([]TopSource, 0, len(rows))
	for _, r := range rows {
		sources = append(sources, TopSource{
			Source:         displayLabel(r.Source),
			TotalLeads:     r.TotalLeads,
			Qualified:      r.Qualified,
			ClosedWon:      r.ClosedWon,
			ConversionRate: rate(r.ClosedWon, r.TotalLeads),
			TotalValue:     r.TotalValue,
		})
	}
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].ConversionRate > sources[j].ConversionRate
	})
	if len(sources) > 5 {
		sources = sources[:5]
	}

	return &TopSourcesReport{TopSources: sources, PeriodDays: days}, nil
}

// MetricsReport is the key-performance widget payload.
type MetricsReport struct {
	TotalLeads        int64   `json:"total_leads"`
	QualificationRate float64 `json:"qualification_rate"`
	CloseRate         float64 `json:"close_rate"`
	AverageDealSize   float64 `json:"average_deal_size"`
	TotalActivities   int64   `json:"total_activities"`
	ActivitiesPerLead float64 `json:"activities_per_lead"`
	PeriodDays        int     `json:"period_days"`
}

// PerformanceMetrics computes the aggregate KPIs over the window.
func PerformanceMetrics(ctx context.Context, days int, scope Scope) (*MetricsReport, error) {
	start := windowStart(days)
	base := merge(bson.M{"created_at": bson.M{"$gte": start}}, scope.LeadFilter())

	report := &MetricsReport{PeriodDays: days}
	var err error
	if report.TotalLeads, err = countLeads(ctx, base, ""); err != nil {
		return nil, err
	}

	qualified, err := countLeads(ctx, base, models.StatusQualified)
	if err != nil {
		return nil, err
	}
	won, err := countLeads(ctx, base, models.StatusClosedWon)
	if err != nil {
		return nil, err
	}
	lost, err := countLeads(ctx, base, models.StatusClosedLost)
	if err != nil {
		return nil, err
	}
	report.QualificationRate = rate(qualified, report.TotalLeads)
	report.CloseRate = rate(won, won+lost)

	avgDeal, err := avgEstimatedValue(ctx, merge(bson.M{"status": models.StatusClosedWon}, base))
	if err != nil {
		return nil, err
	}
	report.AverageDealSize = round2(avgDeal)

	activityFilter := bson.M{"created_at": bson.M{"$gte": start}}
	scoped, err := scope.ActivityFilter(ctx)
	if err != nil {
		return nil, err
	}
	for k, v := range scoped {
		activityFilter[k] = v
	}
	report.TotalActivities, err = database.Activities().CountDocuments(ctx, activityFilter)
	if err != nil {
		return nil, fmt.Errorf("PerformanceMetrics activities: %w", err)
	}

	if report.TotalLeads > 0 {
		report.ActivitiesPerLead = round2(float64(report.TotalActivities) / float64(report.TotalLeads))
	}
	return report, nil
}

// TrendPoint is one day's lead count for the trend chart.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// LeadsTrend returns per-day lead creation counts for charting.
func LeadsTrend(ctx context.Context, days int, scope Scope) ([]TrendPoint, error) {
	match := merge(bson.M{"created_at": bson.M{"$gte": windowStart(days)}}, scope.LeadFilter())

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$created_at",
			}},
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cursor, err := database.Leads().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("LeadsTrend: %w", err)
	}

	var rows []struct {
		Date  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("LeadsTrend decode: %w", err)
	}

	points := make([]TrendPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, TrendPoint{Date: r.Date, Count: r.Count})
	}
	return points, nil
}

// ChartStage is one per-status bucket of the funnel chart, with a stable
// display color.
type ChartStage struct {
	Stage string `json:"stage"`
	Count int64  `json:"count"`
	Color string `json:"color"`
}

// FunnelChart returns per-status (non-cumulative) counts for the funnel
// visualization.
func FunnelChart(ctx context.Context, scope Scope) ([]ChartStage, error) {
	stages := []struct {
		name   string
		status models.LeadStatus
		color  string
	}{
		{"New", models.StatusNew, "#3B82F6"},
		{"Contacted", models.StatusContacted, "#8B5CF6"},
		{"Qualified", models.StatusQualified, "#10B981"},
		{"Proposal", models.StatusProposalSent, "#F59E0B"},
		{"Closed Won", models.StatusClosedWon, "#EF4444"},
	}

	base := scope.LeadFilter()
	out := make([]ChartStage, 0, len(stages))
	for _, s := range stages {
		count, err := countLeads(ctx, base, s.status)
		if err != nil {
			return nil, err
		}
		out = append(out, ChartStage{Stage: s.name, Count: count, Color: s.color})
	}
	return out, nil
}

// Notification is one dashboard alert.
type Notification struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Count    int64  `json:"count"`
	Priority string `json:"priority"`
}

// Notifications builds the alert list: overdue follow-ups, today's new
// leads and high-priority qualified prospects, highest priority first.
func Notifications(ctx context.Context, scope Scope) ([]Notification, error) {
	base := scope.LeadFilter()
	now := time.Now().UTC()

	notifications := []Notification{}

	overdue, err := countLeads(ctx, merge(bson.M{
		"next_follow_up_date": bson.M{"$lt": now},
		"status":              bson.M{"$in": models.OpenStatuses()},
	}, base), "")
	if err != nil {
		return nil, err
	}
	if overdue > 0 {
		notifications = append(notifications, Notification{
			Type:     "warning",
			Title:    "Overdue Follow-ups",
			Message:  fmt.Sprintf("You have %d overdue %s", overdue, plural(overdue, "follow-up")),
			Count:    overdue,
			Priority: "high",
		})
	}

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	newToday, err := countLeads(ctx, merge(bson.M{
		"created_at": bson.M{"$gte": todayStart},
	}, base), models.StatusNew)
	if err != nil {
		return nil, err
	}
	if newToday > 0 {
		notifications = append(notifications, Notification{
			Type:     "info",
			Title:    "New Leads Today",
			Message:  fmt.Sprintf("%d new %s received today", newToday, plural(newToday, "lead")),
			Count:    newToday,
			Priority: "medium",
		})
	}

	hot, err := countLeads(ctx, merge(bson.M{
		"priority": bson.M{"$gte": 3},
	}, base), models.StatusQualified)
	if err != nil {
		return nil, err
	}
	if hot > 0 {
		notifications = append(notifications, Notification{
			Type:     "success",
			Title:    "Hot Prospects",
			Message:  fmt.Sprintf("%d high-priority qualified %s", hot, plural(hot, "lead")),
			Count:    hot,
			Priority: "high",
		})
	}

	order := map[string]int{"high": 3, "medium": 2, "low": 1}
	sort.SliceStable(notifications, func(i, j int) bool {
		return order[notifications[i].Priority] > order[notifications[j].Priority]
	})
	return notifications, nil
}

func plural(n int64, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
