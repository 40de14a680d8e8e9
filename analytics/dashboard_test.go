package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayLabel(t *testing.T) {
	assert.Equal(t, "Phone Call", displayLabel("phone_call"))
	assert.Equal(t, "New", displayLabel("new"))
	assert.Equal(t, "Closed Won", displayLabel("closed_won"))
	assert.Equal(t, "", displayLabel(""))
}

func TestFinishDistribution(t *testing.T) {
	rows := []DistributionRow{
		{Label: "New", Count: 1},
		{Label: "Contacted", Count: 3},
	}

	out := finishDistribution(rows, 4)
	require.Len(t, out, 2)

	assert.Equal(t, "Contacted", out[0].Label, "sorted descending by count")
	assert.Equal(t, 75.0, out[0].Percentage)
	assert.Equal(t, 25.0, out[1].Percentage)
}

func TestFinishDistributionZeroTotal(t *testing.T) {
	out := finishDistribution([]DistributionRow{{Label: "New"}}, 0)
	assert.Zero(t, out[0].Percentage)
}

func TestFinishStateStats(t *testing.T) {
	rows := []StateStats{
		{State: "TX", Count: 6},
		{State: "FL", Count: 2},
	}
	out := finishStateStats(rows, 8)
	assert.Equal(t, 75.0, out[0].Percentage)
	assert.Equal(t, 25.0, out[1].Percentage)
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "lead", plural(1, "lead"))
	assert.Equal(t, "leads", plural(2, "lead"))
	assert.Equal(t, "follow-ups", plural(0, "follow-up"))
}
