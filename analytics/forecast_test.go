package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurancecrm/models"
)

func TestForecastWeights(t *testing.T) {
	weights := forecastWeights()
	require.Len(t, weights, 4)

	assert.Equal(t, 0.10, weights[0].probability)
	assert.Equal(t, models.StatusNew, weights[0].status)
	assert.Equal(t, 0.20, weights[1].probability)
	assert.Equal(t, 0.50, weights[2].probability)
	assert.Equal(t, 0.80, weights[3].probability)
}

func TestBuildForecast(t *testing.T) {
	rows := []StatusForecast{
		{Status: models.StatusNew, LeadCount: 5, TotalValue: 1000, Probability: 0.10},
		{Status: models.StatusContacted, LeadCount: 3, TotalValue: 2000, Probability: 0.20},
		{Status: models.StatusQualified, LeadCount: 2, TotalValue: 3000, Probability: 0.50},
		{Status: models.StatusProposalSent, LeadCount: 1, TotalValue: 1000, Probability: 0.80},
	}

	report := buildForecast(rows)

	assert.Equal(t, 100.0, report.ForecastData[0].WeightedValue)
	assert.Equal(t, 400.0, report.ForecastData[1].WeightedValue)
	assert.Equal(t, 1500.0, report.ForecastData[2].WeightedValue)
	assert.Equal(t, 800.0, report.ForecastData[3].WeightedValue)

	assert.Equal(t, 7000.0, report.TotalPipelineValue)
	assert.Equal(t, 2800.0, report.WeightedForecast)
}

func TestBuildForecastThreeLeadPipeline(t *testing.T) {
	rows := []StatusForecast{
		{Status: models.StatusNew, LeadCount: 1, TotalValue: 2500, Probability: 0.10},
		{Status: models.StatusContacted, LeadCount: 1, TotalValue: 5000, Probability: 0.20},
		{Status: models.StatusQualified, LeadCount: 1, TotalValue: 3000, Probability: 0.50},
		{Status: models.StatusProposalSent, Probability: 0.80},
	}

	report := buildForecast(rows)
	assert.Equal(t, 2750.0, report.WeightedForecast)
	assert.Equal(t, 10500.0, report.TotalPipelineValue)
}

func TestBuildForecastEmpty(t *testing.T) {
	report := buildForecast([]StatusForecast{})
	assert.Zero(t, report.TotalPipelineValue)
	assert.Zero(t, report.WeightedForecast)
	assert.Empty(t, report.ForecastData)
}

func TestBuildForecastRounding(t *testing.T) {
	rows := []StatusForecast{
		{Status: models.StatusQualified, TotalValue: 333.335, Probability: 0.50},
	}
	report := buildForecast(rows)
	assert.Equal(t, 166.67, report.ForecastData[0].WeightedValue)
}
