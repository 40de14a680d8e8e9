package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"insurancecrm/analytics"
)

// DashboardStats returns the headline card numbers.
func DashboardStats(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	stats, err := analytics.Stats(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// DashboardLeadsByStatus returns the status distribution.
func DashboardLeadsByStatus(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	report, err := analytics.LeadsByStatus(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// DashboardLeadsBySource returns the source distribution.
func DashboardLeadsBySource(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	report, err := analytics.LeadsBySource(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// DashboardActivitySummary returns recent activity counts by type.
func DashboardActivitySummary(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	report, err := analytics.ActivitySummary(c.Request.Context(), daysParam(c, 7), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// DashboardRecentLeads returns the newest leads in scope.
func DashboardRecentLeads(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	leads, err := analytics.RecentLeads(c.Request.Context(), limit, scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

// DashboardUpcomingFollowUps returns follow-ups due in the coming days.
func DashboardUpcomingFollowUps(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	leads, err := analytics.UpcomingFollowUps(c.Request.Context(), daysParam(c, 7), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

// DashboardOverdueFollowUps returns follow-ups already past due.
func DashboardOverdueFollowUps(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	leads, err := analytics.OverdueFollowUps(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

// DashboardTopSources ranks the best-converting sources.
func DashboardTopSources(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	report, err := analytics.TopPerformingSources(c.Request.Context(), daysParam(c, 30), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// DashboardPerformanceMetrics returns the aggregate KPI widget.
func DashboardPerformanceMetrics(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	report, err := analytics.PerformanceMetrics(c.Request.Context(), daysParam(c, 30), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// DashboardLeadsTrend returns per-day lead counts for the trend chart.
func DashboardLeadsTrend(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	points, err := analytics.LeadsTrend(c.Request.Context(), daysParam(c, 30), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trend_data": points})
}

// DashboardFunnelChart returns per-status buckets for the funnel chart.
func DashboardFunnelChart(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	stages, err := analytics.FunnelChart(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"funnel_data": stages})
}

// DashboardNotifications returns the alert list.
func DashboardNotifications(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	notifications, err := analytics.Notifications(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}
