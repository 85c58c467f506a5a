// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medstock/backend-go/internal/ai"
	"github.com/medstock/backend-go/internal/api/handlers"
	"github.com/medstock/backend-go/internal/api/middleware"
	"github.com/medstock/backend-go/internal/report"
	"github.com/medstock/backend-go/internal/service"
)

type Services struct {
	Inventory *service.InventoryService
	Analytics *service.AnalyticsService
	Agent     *ai.Agent       // nil when the assistant is disabled
	Reports   *report.Service // nil when reporting is disabled
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.Metrics())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Report-Records", "X-Report-Object-Key"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Inventory != nil {
			inventoryHandler := handlers.NewInventoryHandler(services.Inventory, services.Analytics)
			inventoryGroup := apiGroup.Group("/inventory")
			{
				inventoryGroup.POST("/transactions", inventoryHandler.CreateTransaction)
				inventoryGroup.POST("/transactions/batch", inventoryHandler.CreateBatch)
				inventoryGroup.GET("/locations", inventoryHandler.ListLocations)
				inventoryGroup.POST("/locations", inventoryHandler.CreateLocation)
				inventoryGroup.GET("/locations/:id/stock", inventoryHandler.GetLocationStock)
				inventoryGroup.GET("/items", inventoryHandler.ListItems)
				inventoryGroup.POST("/items", inventoryHandler.CreateItem)
				inventoryGroup.GET("/stock", inventoryHandler.GetCurrentStock)
				inventoryGroup.POST("/reset", inventoryHandler.Reset)
			}
		}

		if services.Analytics != nil {
			analyticsHandler := handlers.NewAnalyticsHandler(services.Analytics)
			analyticsGroup := apiGroup.Group("/analytics")
			{
				analyticsGroup.GET("/stock_health", analyticsHandler.GetStockHealth)
				analyticsGroup.GET("/alerts", analyticsHandler.GetAlerts)
				analyticsGroup.GET("/reorder", analyticsHandler.GetReorderSuggestions)
				analyticsGroup.GET("/heatmap", analyticsHandler.GetHeatmap)
				analyticsGroup.GET("/summary", analyticsHandler.GetSummary)
				analyticsGroup.GET("/dashboard", analyticsHandler.GetDashboard)
				analyticsGroup.GET("/overview", analyticsHandler.GetOverview)
				analyticsGroup.GET("/trends", analyticsHandler.GetTrends)
				analyticsGroup.GET("/locations/summary", analyticsHandler.GetLocationSummary)
				analyticsGroup.GET("/categories", analyticsHandler.GetCategoryAnalysis)
			}
		}

		if services.Agent != nil {
			chatHandler := handlers.NewChatHandler(services.Agent)
			apiGroup.POST("/ai/chat", chatHandler.Chat)
		}

		if services.Reports != nil {
			reportHandler := handlers.NewReportHandler(services.Reports)
			reportGroup := apiGroup.Group("/reports")
			{
				reportGroup.POST("/stock_health", reportHandler.Generate)
				reportGroup.GET("", reportHandler.ListArchived)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
