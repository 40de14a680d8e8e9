package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurancecrm/models"
)

func TestParseLegacyTransition(t *testing.T) {
	from, ok := parseLegacyTransition("Status changed from new to contacted")
	require.True(t, ok)
	assert.Equal(t, models.StatusNew, from)

	from, ok = parseLegacyTransition("Status changed from proposal_sent to closed_won")
	require.True(t, ok)
	assert.Equal(t, models.StatusProposalSent, from)
}

func TestParseLegacyTransitionMalformed(t *testing.T) {
	cases := []string{
		"",
		"Lead assigned to Jordan Smith",
		"Status changed from nowhere to contacted",
		"Status changed from new",
		"Status changed from a to b to c",
	}
	for _, desc := range cases {
		_, ok := parseLegacyTransition(desc)
		assert.False(t, ok, "expected %q to be skipped", desc)
	}
}

func TestTransitionOriginPrefersStructuredField(t *testing.T) {
	a := models.Activity{
		FromStatus:  models.StatusQualified,
		Description: "Status changed from new to contacted",
	}
	origin, ok := transitionOrigin(a)
	require.True(t, ok)
	assert.Equal(t, models.StatusQualified, origin)

	legacy := models.Activity{Description: "Status changed from new to contacted"}
	origin, ok = transitionOrigin(legacy)
	require.True(t, ok)
	assert.Equal(t, models.StatusNew, origin)
}

func TestStageDurations(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	byLead := map[string][]models.Activity{
		"lead1": {
			{FromStatus: models.StatusNew, ToStatus: models.StatusContacted, CreatedAt: base},
			{FromStatus: models.StatusContacted, ToStatus: models.StatusQualified, CreatedAt: base.Add(10 * time.Hour)},
			{FromStatus: models.StatusQualified, ToStatus: models.StatusClosedWon, CreatedAt: base.Add(34 * time.Hour)},
		},
		"lead2": {
			// Single transition, no dwell time measurable.
			{FromStatus: models.StatusNew, ToStatus: models.StatusContacted, CreatedAt: base},
		},
	}

	samples := stageDurations(byLead)

	require.Len(t, samples[models.StatusNew], 1)
	assert.Equal(t, 10.0, samples[models.StatusNew][0])
	require.Len(t, samples[models.StatusContacted], 1)
	assert.Equal(t, 24.0, samples[models.StatusContacted][0])
	assert.Empty(t, samples[models.StatusQualified])
	assert.Empty(t, samples[models.StatusProposalSent])
}

func TestSummarizeVelocity(t *testing.T) {
	report := summarizeVelocity(map[models.LeadStatus][]float64{
		models.StatusNew:       {10, 20, 30},
		models.StatusContacted: {48},
	})

	require.Len(t, report.VelocityData, 4)

	newRow := report.VelocityData[0]
	assert.Equal(t, models.StatusNew, newRow.Stage)
	assert.Equal(t, 20.0, newRow.AverageTimeHours)
	assert.Equal(t, 0.83, newRow.AverageTimeDays)
	assert.Equal(t, 3, newRow.SampleSize)
	assert.Equal(t, 10.0, newRow.MinTimeHours)
	assert.Equal(t, 30.0, newRow.MaxTimeHours)

	contacted := report.VelocityData[1]
	assert.Equal(t, 48.0, contacted.AverageTimeHours)
	assert.Equal(t, 2.0, contacted.AverageTimeDays)

	// Stages without samples are zero-filled, not omitted.
	assert.Equal(t, models.StatusQualified, report.VelocityData[2].Stage)
	assert.Zero(t, report.VelocityData[2].SampleSize)
	assert.Equal(t, models.StatusProposalSent, report.VelocityData[3].Stage)
}
