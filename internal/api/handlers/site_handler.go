package handlers

import (
	"context"
	"net/http"
	"time"

	"site-ops-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type SiteHandler struct {
	DB *mongo.Database
}

type CreateSiteRequest struct {
	SiteID    string `json:"siteID" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Address   string `json:"address" binding:"required"`
	ManagerID string `json:"managerID"`
}

// CreateSite registers a new company site.
func (h *SiteHandler) CreateSite(c *gin.Context) {
	var req CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("sites")

	count, err := collection.CountDocuments(context.Background(), bson.M{"siteID": req.SiteID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for site"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Site with this ID already exists"})
		return
	}

	newSite := models.Site{
		SiteID:    req.SiteID,
		Name:      req.Name,
		Address:   req.Address,
		ManagerID: req.ManagerID,
		Status:    "active",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	result, err := collection.InsertOne(context.Background(), newSite)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create site"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newSite.ID = oid
	}

	c.JSON(http.StatusCreated, newSite)
}

// GetAllSites lists all sites.
func (h *SiteHandler) GetAllSites(c *gin.Context) {
	cursor, err := h.DB.Collection("sites").Find(context.Background(), bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query sites"})
		return
	}
	defer cursor.Close(context.Background())

	var sites []models.Site
	if err = cursor.All(context.Background(), &sites); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode sites"})
		return
	}

	if sites == nil {
		sites = []models.Site{}
	}

	c.JSON(http.StatusOK, sites)
}

// GetSiteByID returns one site.
func (h *SiteHandler) GetSiteByID(c *gin.Context) {
	var site models.Site
	err := h.DB.Collection("sites").FindOne(context.Background(), bson.M{"siteID": c.Param("id")}).Decode(&site)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve site"})
		}
		return
	}
	c.JSON(http.StatusOK, site)
}

type UpdateSiteRequest struct {
	Name      string `json:"name" binding:"required"`
	Address   string `json:"address" binding:"required"`
	ManagerID string `json:"managerID"`
	Status    string `json:"status" binding:"required,oneof=active paused closed"`
}

// UpdateSite updates site details.
func (h *SiteHandler) UpdateSite(c *gin.Context) {
	var req UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Collection("sites").UpdateOne(context.Background(),
		bson.M{"siteID": c.Param("id")},
		bson.M{"$set": bson.M{
			"name":      req.Name,
			"address":   req.Address,
			"managerID": req.ManagerID,
			"status":    req.Status,
			"updatedAt": time.Now(),
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update site"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Site updated successfully"})
}
