package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medstock/backend-go/internal/service"
)

type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) GetStockHealth(c *gin.Context) {
	records, err := h.analytics.StockHealth(c.Request.Context(), c.Query("item"), c.Query("location"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "total": len(records)})
}

func (h *AnalyticsHandler) GetAlerts(c *gin.Context) {
	severity := c.DefaultQuery("severity", "CRITICAL")
	alerts, err := h.analytics.Alerts(c.Request.Context(), severity, c.Query("location"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "total": len(alerts)})
}

func (h *AnalyticsHandler) GetReorderSuggestions(c *gin.Context) {
	suggestions, err := h.analytics.ReorderSuggestions(c.Request.Context(), c.Query("location"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions, "total": len(suggestions)})
}

func (h *AnalyticsHandler) GetHeatmap(c *gin.Context) {
	heatmap, err := h.analytics.Heatmap(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, heatmap)
}

func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	summary, err := h.analytics.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	stats, err := h.analytics.DashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AnalyticsHandler) GetOverview(c *gin.Context) {
	overview, err := h.analytics.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *AnalyticsHandler) GetTrends(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "14"))

	trend, err := h.analytics.ConsumptionTrends(c.Request.Context(), c.Query("item"), c.Query("location"), days)
	if err != nil {
		respondError(c, err)
		return
	}
	if trend == nil {
		c.JSON(http.StatusOK, gin.H{
			"has_data": false,
			"message":  "no consumption recorded in the requested window",
		})
		return
	}
	c.JSON(http.StatusOK, trend)
}

func (h *AnalyticsHandler) GetLocationSummary(c *gin.Context) {
	summary, err := h.analytics.LocationSummary(c.Request.Context(), c.Query("location"))
	if err != nil {
		respondError(c, err)
		return
	}
	if summary == nil {
		c.JSON(http.StatusOK, gin.H{
			"has_data": false,
			"message":  "no location matched the given name",
		})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *AnalyticsHandler) GetCategoryAnalysis(c *gin.Context) {
	records, err := h.analytics.CategoryAnalysis(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "total": len(records)})
}
