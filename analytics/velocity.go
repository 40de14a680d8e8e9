package analytics

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"insurancecrm/database"
	"insurancecrm/models"
)

// StageVelocity is one pipeline stage's dwell-time summary.
type StageVelocity struct {
	Stage            models.LeadStatus `json:"stage"`
	AverageTimeHours float64           `json:"average_time_hours"`
	AverageTimeDays  float64           `json:"average_time_days"`
	SampleSize       int               `json:"sample_size"`
	MinTimeHours     float64           `json:"min_time_hours"`
	MaxTimeHours     float64           `json:"max_time_hours"`
}

// VelocityReport reports how long leads sit in each active stage.
type VelocityReport struct {
	VelocityData []StageVelocity `json:"velocity_data"`
}

// transitionOrigin recovers the status a status_change activity moved away
// from. Newer records carry it as a structured field; legacy records only
// have the "Status changed from X to Y" description, which is parsed and
// silently skipped when malformed.
func transitionOrigin(a models.Activity) (models.LeadStatus, bool) {
	if a.FromStatus != "" {
		return a.FromStatus, true
	}
	return parseLegacyTransition(a.Description)
}

func parseLegacyTransition(desc string) (models.LeadStatus, bool) {
	if !strings.Contains(desc, "Status changed from") {
		return "", false
	}
	parts := strings.Split(desc, " to ")
	if len(parts) != 2 {
		return "", false
	}
	fromParts := strings.Split(parts[0], "from ")
	from := models.LeadStatus(strings.TrimSpace(fromParts[len(fromParts)-1]))
	if !from.Valid() {
		return "", false
	}
	return from, true
}

// stageDurations walks each lead's status changes in chronological order
// and accumulates the hours between consecutive transitions, keyed by the
// status the lead was leaving.
func stageDurations(byLead map[string][]models.Activity) map[models.LeadStatus][]float64 {
	samples := map[models.LeadStatus][]float64{
		models.StatusNew:          nil,
		models.StatusContacted:    nil,
		models.StatusQualified:    nil,
		models.StatusProposalSent: nil,
	}

	for _, activities := range byLead {
		if len(activities) < 2 {
			continue
		}
		for i := 0; i < len(activities)-1; i++ {
			origin, ok := transitionOrigin(activities[i])
			if !ok {
				continue
			}
			if _, tracked := samples[origin]; !tracked {
				continue
			}
			hours := activities[i+1].CreatedAt.Sub(activities[i].CreatedAt).Hours()
			samples[origin] = append(samples[origin], hours)
		}
	}
	return samples
}

// summarizeVelocity reduces duration samples to a fixed-order report, with
// zero-filled rows for stages that have no samples.
func summarizeVelocity(samples map[models.LeadStatus][]float64) *VelocityReport {
	stages := []models.LeadStatus{
		models.StatusNew, models.StatusContacted,
		models.StatusQualified, models.StatusProposalSent,
	}

	rows := make([]StageVelocity, 0, len(stages))
	for _, stage := range stages {
		row := StageVelocity{Stage: stage}
		times := samples[stage]
		if len(times) > 0 {
			minT, maxT, sum := times[0], times[0], 0.0
			for _, t := range times {
				if t < minT {
					minT = t
				}
				if t > maxT {
					maxT = t
				}
				sum += t
			}
			avg := sum / float64(len(times))
			row.AverageTimeHours = round2(avg)
			row.AverageTimeDays = round2(avg / 24)
			row.SampleSize = len(times)
			row.MinTimeHours = round2(minT)
			row.MaxTimeHours = round2(maxT)
		}
		rows = append(rows, row)
	}
	return &VelocityReport{VelocityData: rows}
}

// PipelineVelocity reconstructs per-stage dwell times from the
// status_change audit trail.
func PipelineVelocity(ctx context.Context, scope Scope) (*VelocityReport, error) {
	filter := bson.M{"activity_type": models.ActivityStatusChange}
	scoped, err := scope.ActivityFilter(ctx)
	if err != nil {
		return nil, err
	}
	for k, v := range scoped {
		filter[k] = v
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "lead_id", Value: 1},
		{Key: "created_at", Value: 1},
	})
	cursor, err := database.Activities().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("PipelineVelocity: %w", err)
	}

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("PipelineVelocity decode: %w", err)
	}

	byLead := make(map[string][]models.Activity)
	for _, a := range activities {
		key := a.LeadID.Hex()
		byLead[key] = append(byLead[key], a)
	}

	return summarizeVelocity(stageDurations(byLead)), nil
}
