package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinishAgentStats(t *testing.T) {
	rows := []AgentStats{
		{AgentName: "Low Volume", TotalLeads: 5, QualifiedLeads: 2, ClosedWon: 3, ClosedLost: 1},
		{AgentName: "High Volume", TotalLeads: 10, QualifiedLeads: 4, ClosedWon: 3, ClosedLost: 2},
	}

	out := finishAgentStats(rows)
	require.Len(t, out, 2)

	assert.Equal(t, "High Volume", out[0].AgentName, "sorted by lead count descending")
	assert.Equal(t, 40.0, out[0].QualificationRate)
	assert.Equal(t, 60.0, out[0].CloseRate, "close rate is won over won+lost")

	assert.Equal(t, "Low Volume", out[1].AgentName)
	assert.Equal(t, 40.0, out[1].QualificationRate)
	assert.Equal(t, 75.0, out[1].CloseRate)
}

func TestFinishAgentStatsRates(t *testing.T) {
	out := finishAgentStats([]AgentStats{
		{AgentName: "Busy", TotalLeads: 10, QualifiedLeads: 4, ClosedWon: 3, ClosedLost: 1},
	})
	require.Len(t, out, 1)
	assert.Equal(t, 40.0, out[0].QualificationRate)
	assert.Equal(t, 75.0, out[0].CloseRate)
}

func TestFinishAgentStatsNoOutcomes(t *testing.T) {
	out := finishAgentStats([]AgentStats{{AgentName: "Idle"}})
	require.Len(t, out, 1)
	assert.Zero(t, out[0].QualificationRate)
	assert.Zero(t, out[0].CloseRate)
}
