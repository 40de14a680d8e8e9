package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurancecrm/models"
)

func TestFinishSourceStats(t *testing.T) {
	rows := []SourceStats{
		{Source: models.SourceEmail, TotalLeads: 2, QualifiedLeads: 1, ClosedWon: 1, ClosedLost: 1},
		{Source: models.SourceWebsite, TotalLeads: 8, QualifiedLeads: 4, ClosedWon: 2, ClosedLost: 2},
		{Source: models.SourceWalkIn},
	}

	out := finishSourceStats(rows)
	require.Len(t, out, 3)

	assert.Equal(t, models.SourceWebsite, out[0].Source)
	assert.Equal(t, 50.0, out[0].QualificationRate)
	assert.Equal(t, 50.0, out[0].CloseRate)

	assert.Equal(t, models.SourceEmail, out[1].Source)
	assert.Equal(t, 50.0, out[1].CloseRate)

	assert.Equal(t, models.SourceWalkIn, out[2].Source)
	assert.Zero(t, out[2].QualificationRate, "zero-count source keeps zero rates")
}
