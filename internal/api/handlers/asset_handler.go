package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"site-ops-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AssetHandler struct {
	DB *mongo.Database
}

type CreateAssetPayload struct {
	Name         string    `json:"name" binding:"required"`
	Type         string    `json:"type" binding:"required,oneof=laptop phone monitor printer other"`
	SerialNumber string    `json:"serialNumber" binding:"required"`
	PurchaseDate time.Time `json:"purchaseDate" binding:"required"`
}

// CreateAsset registers a new IT asset.
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var payload CreateAssetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("it_assets")
	count, err := collection.CountDocuments(context.Background(), bson.M{"serialNumber": payload.SerialNumber})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for asset"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Asset with this serial number already exists"})
		return
	}

	newAsset := models.ITAsset{
		AssetID:      fmt.Sprintf("AST-%s", uuid.New().String()[:8]),
		Name:         payload.Name,
		Type:         payload.Type,
		SerialNumber: payload.SerialNumber,
		Status:       "in_stock",
		PurchaseDate: payload.PurchaseDate,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	result, err := collection.InsertOne(context.Background(), newAsset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create asset"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newAsset.ID = oid
	}

	c.JSON(http.StatusCreated, newAsset)
}

// GetAllAssets lists IT assets, optionally filtered by status or type.
func (h *AssetHandler) GetAllAssets(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if assetType := c.Query("type"); assetType != "" {
		filter["type"] = assetType
	}

	cursor, err := h.DB.Collection("it_assets").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query assets"})
		return
	}
	defer cursor.Close(context.Background())

	var assets []models.ITAsset
	if err = cursor.All(context.Background(), &assets); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode assets"})
		return
	}

	if assets == nil {
		assets = []models.ITAsset{}
	}

	c.JSON(http.StatusOK, assets)
}

type AssignAssetPayload struct {
	EmployeeID string `json:"employeeID" binding:"required"`
}

// AssignAsset hands an in-stock asset to an employee.
func (h *AssetHandler) AssignAsset(c *gin.Context) {
	var payload AssignAssetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var employee models.User
	if err := h.DB.Collection("users").FindOne(context.Background(), bson.M{"employeeID": payload.EmployeeID}).Decode(&employee); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Employee does not exist"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check employee"})
		}
		return
	}

	result, err := h.DB.Collection("it_assets").UpdateOne(context.Background(),
		bson.M{"assetID": c.Param("id"), "status": "in_stock"},
		bson.M{"$set": bson.M{
			"status":     "assigned",
			"assignedTo": payload.EmployeeID,
			"updatedAt":  time.Now(),
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign asset"})
		return
	}
	if result.ModifiedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Asset is not in stock"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// UnassignAsset returns an assigned asset to stock.
func (h *AssetHandler) UnassignAsset(c *gin.Context) {
	result, err := h.DB.Collection("it_assets").UpdateOne(context.Background(),
		bson.M{"assetID": c.Param("id"), "status": "assigned"},
		bson.M{
			"$set":   bson.M{"status": "in_stock", "updatedAt": time.Now()},
			"$unset": bson.M{"assignedTo": ""},
		})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unassign asset"})
		return
	}
	if result.ModifiedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Asset is not assigned"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
