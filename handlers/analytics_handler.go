package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"insurancecrm/analytics"
	"insurancecrm/database"
	"insurancecrm/database/queries"
)

// AnalyticsConversionFunnel returns the cumulative five-stage funnel.
func AnalyticsConversionFunnel(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	report, err := analytics.ConversionFunnel(c.Request.Context(), daysParam(c, 30), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// AnalyticsLeadsByMonth returns lead intake by calendar month.
func AnalyticsLeadsByMonth(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	months := 12
	if raw := c.Query("months"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 && v <= 36 {
			months = v
		}
	}

	report, err := analytics.LeadsByMonth(c.Request.Context(), months, scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// AnalyticsAgentPerformance returns per-agent outcomes. Manager+ (route
// middleware); intentionally unscoped since it compares agents.
func AnalyticsAgentPerformance(c *gin.Context) {
	report, err := analytics.AgentPerformance(c.Request.Context(), daysParam(c, 30))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// AnalyticsSourceAnalysis returns per-source conversion and value stats.
func AnalyticsSourceAnalysis(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	report, err := analytics.SourceAnalysis(c.Request.Context(), daysParam(c, 90), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// AnalyticsActivityTimeline returns daily activity counts by type,
// optionally narrowed to a single lead.
func AnalyticsActivityTimeline(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	var leadID *primitive.ObjectID
	if raw := c.Query("lead_id"); raw != "" {
		id, err := database.ParseID(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		lead, err := queries.GetLead(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if !canAccessLead(c, lead) {
			respondError(c, database.ErrForbidden)
			return
		}
		leadID = &id
	}

	report, err := analytics.ActivityTimeline(c.Request.Context(), daysParam(c, 30), leadID, scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// AnalyticsRevenueForecast returns the probability-weighted pipeline value.
func AnalyticsRevenueForecast(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	report, err := analytics.RevenueForecast(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// AnalyticsLeadResponseTime returns first-response latency statistics.
func AnalyticsLeadResponseTime(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	report, err := analytics.LeadResponseTime(c.Request.Context(), daysParam(c, 30), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// AnalyticsGeographicDistribution returns the state/city breakdown.
func AnalyticsGeographicDistribution(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	report, err := analytics.GeographicDistribution(c.Request.Context(), daysParam(c, 90), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// AnalyticsPipelineVelocity returns per-stage dwell-time statistics.
func AnalyticsPipelineVelocity(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	report, err := analytics.PipelineVelocity(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// AnalyticsPerformanceTrends returns week-over-week outcomes.
func AnalyticsPerformanceTrends(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	report, err := analytics.PerformanceTrends(c.Request.Context(), daysParam(c, 30), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
