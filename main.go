package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"insurancecrm/database"
	"insurancecrm/handlers"
	"insurancecrm/middleware"
	"insurancecrm/models"
	"insurancecrm/websocket"
)

const version = "1.0.0"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := database.Init(); err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	defer database.Close()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	allowOrigins := []string{"http://localhost:3000"}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowOrigins = []string{frontendURL}
	}
	if additional := os.Getenv("ADDITIONAL_ALLOWED_ORIGINS"); additional != "" {
		for _, url := range strings.Split(additional, ",") {
			if url = strings.TrimSpace(url); url != "" {
				allowOrigins = append(allowOrigins, url)
			}
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	hub := websocket.NewHub()
	go hub.Run()
	handlers.SetWebSocketHub(hub)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", handlers.Login)
			auth.POST("/create-admin", handlers.CreateAdmin)

			authed := auth.Group("/")
			authed.Use(middleware.AuthMiddleware())
			{
				authed.POST("/register", middleware.RequireRole(), handlers.Register)
				authed.GET("/me", handlers.Me)
				authed.PUT("/me", handlers.UpdateMe)
				authed.GET("/users", middleware.RequireRole(), handlers.ListUsers)
				authed.PUT("/users/:id", middleware.RequireRole(), handlers.UpdateUser)
				authed.DELETE("/users/:id", middleware.RequireRole(), handlers.DeleteUser)
			}
		}

		leads := api.Group("/leads")
		{
			// Public intake from the quote form.
			leads.POST("", handlers.CreateLead)

			authed := leads.Group("/")
			authed.Use(middleware.AuthMiddleware())
			{
				authed.GET("", handlers.ListLeads)
				authed.GET("/:id", handlers.GetLead)
				authed.PUT("/:id", handlers.UpdateLead)
				authed.DELETE("/:id", middleware.RequireRole(), handlers.DeleteLead)
				authed.POST("/:id/assign/:agentId", middleware.RequireRole(models.RoleManager), handlers.AssignLead)
				authed.POST("/:id/activities", handlers.CreateActivity)
				authed.GET("/:id/activities", handlers.ListActivities)
				authed.POST("/:id/quotes", handlers.CreateQuote)
				authed.GET("/:id/quotes", handlers.ListQuotes)
				authed.GET("/followup/pending", handlers.PendingFollowUps)
			}
		}

		dashboard := api.Group("/dashboard")
		dashboard.Use(middleware.AuthMiddleware())
		{
			dashboard.GET("/stats", handlers.DashboardStats)
			dashboard.GET("/leads-by-status", handlers.DashboardLeadsByStatus)
			dashboard.GET("/leads-by-source", handlers.DashboardLeadsBySource)
			dashboard.GET("/activity-summary", handlers.DashboardActivitySummary)
			dashboard.GET("/recent-leads", handlers.DashboardRecentLeads)
			dashboard.GET("/upcoming-followups", handlers.DashboardUpcomingFollowUps)
			dashboard.GET("/overdue-followups", handlers.DashboardOverdueFollowUps)
			dashboard.GET("/top-performing-sources", handlers.DashboardTopSources)
			dashboard.GET("/performance-metrics", handlers.DashboardPerformanceMetrics)
			dashboard.GET("/chart-data/leads-trend", handlers.DashboardLeadsTrend)
			dashboard.GET("/chart-data/conversion-funnel", handlers.DashboardFunnelChart)
			dashboard.GET("/notifications", handlers.DashboardNotifications)
		}

		analyticsGroup := api.Group("/analytics")
		analyticsGroup.Use(middleware.AuthMiddleware())
		{
			analyticsGroup.GET("/conversion-funnel", handlers.AnalyticsConversionFunnel)
			analyticsGroup.GET("/leads-by-month", handlers.AnalyticsLeadsByMonth)
			analyticsGroup.GET("/agent-performance", middleware.RequireRole(models.RoleManager), handlers.AnalyticsAgentPerformance)
			analyticsGroup.GET("/lead-sources-analysis", handlers.AnalyticsSourceAnalysis)
			analyticsGroup.GET("/activity-timeline", handlers.AnalyticsActivityTimeline)
			analyticsGroup.GET("/revenue-forecast", handlers.AnalyticsRevenueForecast)
			analyticsGroup.GET("/lead-response-time", handlers.AnalyticsLeadResponseTime)
			analyticsGroup.GET("/geographic-distribution", handlers.AnalyticsGeographicDistribution)
			analyticsGroup.GET("/pipeline-velocity", handlers.AnalyticsPipelineVelocity)
			analyticsGroup.GET("/performance-trends", handlers.AnalyticsPerformanceTrends)
		}
	}

	r.GET("/ws", handlers.ServeWs)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    "Insurance CRM API",
			"version": version,
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server listening on port :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
