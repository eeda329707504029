package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"site-ops-api-server/internal/models"
	"site-ops-api-server/internal/warehouse"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StockHandler struct {
	Service *warehouse.Service
	Ledger  warehouse.StockLedger
}

type CreateStockItemPayload struct {
	ItemName     string  `json:"itemName" binding:"required"`
	Category     string  `json:"category" binding:"required,oneof=cement steel electrical plumbing safety tools other"`
	Unit         string  `json:"unit" binding:"required"`
	UnitPrice    float64 `json:"unitPrice" binding:"required,gte=0"`
	Quantity     int     `json:"quantity" binding:"required,gte=0"`
	ReorderLevel int     `json:"reorderLevel" binding:"gte=0"`
	Notes        string  `json:"notes"`
	CompanyID    string  `json:"companyID" binding:"required"`
}

// CreateStockItem records a stock intake.
func (h *StockHandler) CreateStockItem(c *gin.Context) {
	var payload CreateStockItemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	newItem := models.StockItem{
		ItemCode:      fmt.Sprintf("MAT-%s", uuid.New().String()[:8]),
		ItemName:      payload.ItemName,
		Category:      payload.Category,
		Unit:          payload.Unit,
		UnitPrice:     payload.UnitPrice,
		Quantity:      payload.Quantity,
		ReorderLevel:  payload.ReorderLevel,
		Notes:         payload.Notes,
		ReceivedBy:    c.GetString("user_employee_id"),
		ReceivingDate: now,
		CompanyID:     payload.CompanyID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.Ledger.Insert(context.Background(), &newItem); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create stock item"})
		return
	}

	c.JSON(http.StatusCreated, newItem)
}

// GetAllStockItems lists stock, optionally filtered by category or low stock.
func (h *StockHandler) GetAllStockItems(c *gin.Context) {
	filter := warehouse.StockFilter{
		Category: c.Query("category"),
		LowStock: c.Query("lowStock") == "true",
	}

	items, err := h.Ledger.List(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query stock items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetStockItemByID returns one stock item.
func (h *StockHandler) GetStockItemByID(c *gin.Context) {
	item, err := h.Ledger.Get(context.Background(), c.Param("id"))
	if err != nil {
		respondWarehouseError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

type RestockPayload struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// RestockItem increases quantity on hand.
func (h *StockHandler) RestockItem(c *gin.Context) {
	var payload RestockPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	itemCode := c.Param("id")
	if err := h.Service.Restock(context.Background(), itemCode, payload.Quantity); err != nil {
		respondWarehouseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "itemCode": itemCode})
}

type AdjustStockPayload struct {
	Delta int `json:"delta" binding:"required"`
}

// AdjustStock applies a manual stock correction. Negative deltas fail with
// "insufficient stock" rather than driving the quantity negative.
func (h *StockHandler) AdjustStock(c *gin.Context) {
	var payload AdjustStockPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	itemCode := c.Param("id")
	if err := h.Service.AdjustStock(context.Background(), itemCode, payload.Delta); err != nil {
		respondWarehouseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "itemCode": itemCode})
}

// GetWarehouseMetrics returns the dashboard aggregates, recomputed by
// scanning the collections on every read.
func (h *StockHandler) GetWarehouseMetrics(c *gin.Context) {
	metrics, err := h.Service.Metrics(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute metrics"})
		return
	}
	c.JSON(http.StatusOK, metrics)
}
