package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurancecrm/models"
)

func TestBuildFunnelRows(t *testing.T) {
	names := []string{"New Leads", "Contacted", "Qualified", "Proposal Sent", "Closed Won"}
	counts := []int64{100, 80, 40, 20, 10}

	rows := buildFunnelRows(names, counts)
	require.Len(t, rows, 5)

	assert.Nil(t, rows[0].ConversionRate, "first stage has no previous stage")
	assert.Equal(t, int64(100), rows[0].Count)

	require.NotNil(t, rows[1].ConversionRate)
	assert.Equal(t, 80.0, *rows[1].ConversionRate)
	require.NotNil(t, rows[2].ConversionRate)
	assert.Equal(t, 50.0, *rows[2].ConversionRate)
	require.NotNil(t, rows[4].ConversionRate)
	assert.Equal(t, 50.0, *rows[4].ConversionRate)
}

func TestBuildFunnelRowsZeroPrevious(t *testing.T) {
	rows := buildFunnelRows([]string{"A", "B"}, []int64{0, 0})
	require.Len(t, rows, 2)

	assert.Nil(t, rows[0].ConversionRate)
	assert.Nil(t, rows[1].ConversionRate, "zero previous stage yields no rate")
}

func TestFunnelStagesCumulative(t *testing.T) {
	stages := funnelStages()
	require.Len(t, stages, 5)

	assert.Equal(t, "New Leads", stages[0].name)
	assert.Equal(t, []models.LeadStatus{models.StatusNew}, stages[0].statuses)

	// Contacted counts every lead that got past "new", including lost ones.
	assert.Contains(t, stages[1].statuses, models.StatusClosedLost)
	assert.Contains(t, stages[1].statuses, models.StatusClosedWon)

	// Qualified and beyond exclude closed_lost.
	assert.NotContains(t, stages[2].statuses, models.StatusClosedLost)
	assert.Equal(t, []models.LeadStatus{models.StatusClosedWon}, stages[4].statuses)
}
