package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeResponseTimes(t *testing.T) {
	hours := []float64{0.5, 2, 12, 48, 100}

	report := summarizeResponseTimes(hours)

	assert.Equal(t, 5, report.TotalRespondedLeads)
	assert.Equal(t, 32.5, report.AverageResponseTimeHours)
	assert.Equal(t, 12.0, report.MedianResponseTimeHours)
	assert.Equal(t, 0.5, report.FastestResponseHours)
	assert.Equal(t, 100.0, report.SlowestResponseHours)

	require.Len(t, report.ResponseTimeBreakdown, 5)
	var total int
	for _, bucket := range report.ResponseTimeBreakdown {
		assert.Equal(t, 1, bucket.Count)
		assert.Equal(t, 20.0, bucket.Percentage)
		total += bucket.Count
	}
	assert.Equal(t, 5, total, "every sample lands in exactly one bucket")
}

func TestSummarizeResponseTimesMedianEvenCount(t *testing.T) {
	report := summarizeResponseTimes([]float64{1, 2, 3, 4})
	assert.Equal(t, 2.0, report.MedianResponseTimeHours, "lower-middle element on even count")
}

func TestSummarizeResponseTimesBucketBoundaries(t *testing.T) {
	// Boundary values belong to the upper bucket: [min, max).
	report := summarizeResponseTimes([]float64{1, 4, 24, 72})

	assert.Equal(t, 0, report.ResponseTimeBreakdown[0].Count)
	assert.Equal(t, 1, report.ResponseTimeBreakdown[1].Count)
	assert.Equal(t, 1, report.ResponseTimeBreakdown[2].Count)
	assert.Equal(t, 1, report.ResponseTimeBreakdown[3].Count)
	assert.Equal(t, 1, report.ResponseTimeBreakdown[4].Count)
}

func TestSummarizeResponseTimesEmpty(t *testing.T) {
	report := summarizeResponseTimes(nil)

	assert.Zero(t, report.TotalRespondedLeads)
	assert.Zero(t, report.AverageResponseTimeHours)
	assert.Empty(t, report.ResponseTimeBreakdown)
}
