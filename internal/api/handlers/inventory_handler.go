package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medstock/backend-go/internal/domain"
	"github.com/medstock/backend-go/internal/service"
)

const dateLayout = "2006-01-02"

type InventoryHandler struct {
	inventory *service.InventoryService
	analytics *service.AnalyticsService
}

func NewInventoryHandler(inventory *service.InventoryService, analytics *service.AnalyticsService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, analytics: analytics}
}

type transactionRequest struct {
	LocationID int64  `json:"location_id" binding:"required"`
	ItemID     int64  `json:"item_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Received   int    `json:"received"`
	Issued     int    `json:"issued"`
	Notes      string `json:"notes"`
	EnteredBy  string `json:"entered_by"`
}

func (h *InventoryHandler) CreateTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be in YYYY-MM-DD format"})
		return
	}

	result, err := h.inventory.AppendTransaction(c.Request.Context(),
		req.LocationID, req.ItemID, date, req.Received, req.Issued, req.Notes, req.EnteredBy)
	if err != nil {
		respondError(c, err)
		return
	}

	h.analytics.InvalidateCache(c.Request.Context())
	c.JSON(http.StatusCreated, result)
}

type batchRequest struct {
	LocationID int64              `json:"location_id" binding:"required"`
	Date       string             `json:"date" binding:"required"`
	EnteredBy  string             `json:"entered_by"`
	Items      []domain.BatchItem `json:"items" binding:"required,min=1"`
}

func (h *InventoryHandler) CreateBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be in YYYY-MM-DD format"})
		return
	}

	report, err := h.inventory.AppendBatch(c.Request.Context(), req.LocationID, date, req.Items, req.EnteredBy)
	if err != nil {
		respondError(c, err)
		return
	}

	h.analytics.InvalidateCache(c.Request.Context())
	c.JSON(http.StatusOK, report)
}

type locationRequest struct {
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"required"`
	Region  string `json:"region" binding:"required"`
	Address string `json:"address"`
}

func (h *InventoryHandler) CreateLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	loc, err := h.inventory.CreateLocation(c.Request.Context(), req.Name, req.Type, req.Region, req.Address)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loc)
}

func (h *InventoryHandler) ListLocations(c *gin.Context) {
	locations, err := h.inventory.ListLocations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations, "total": len(locations)})
}

type itemRequest struct {
	Name         string `json:"name" binding:"required"`
	Category     string `json:"category" binding:"required"`
	Unit         string `json:"unit" binding:"required"`
	LeadTimeDays int    `json:"lead_time_days" binding:"required"`
	MinStock     int    `json:"min_stock"`
}

func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	item, err := h.inventory.CreateItem(c.Request.Context(),
		req.Name, req.Category, req.Unit, req.LeadTimeDays, req.MinStock)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandler) ListItems(c *gin.Context) {
	items, err := h.inventory.ListItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (h *InventoryHandler) GetLocationStock(c *gin.Context) {
	locationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location id must be an integer"})
		return
	}

	location, stocks, err := h.inventory.LocationItems(c.Request.Context(), locationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": location, "items": stocks})
}

func (h *InventoryHandler) GetCurrentStock(c *gin.Context) {
	locationID, err := strconv.ParseInt(c.Query("location_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location_id is required and must be an integer"})
		return
	}
	itemID, err := strconv.ParseInt(c.Query("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_id is required and must be an integer"})
		return
	}

	stock, err := h.inventory.CurrentStock(c.Request.Context(), locationID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	if stock == nil {
		c.JSON(http.StatusOK, gin.H{
			"location_id": locationID,
			"item_id":     itemID,
			"has_history": false,
			"message":     "no transactions recorded for this location/item pair",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"location_id":   locationID,
		"item_id":       itemID,
		"has_history":   true,
		"current_stock": *stock,
	})
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

func (h *InventoryHandler) Reset(c *gin.Context) {
	var req resetRequest
	// A missing or malformed body leaves confirm false; the service rejects it.
	_ = c.ShouldBindJSON(&req)

	report, err := h.inventory.ResetAll(c.Request.Context(), req.Confirm)
	if err != nil {
		respondError(c, err)
		return
	}

	h.analytics.InvalidateCache(c.Request.Context())
	c.JSON(http.StatusOK, report)
}
