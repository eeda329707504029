package handlers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"site-ops-api-server/internal/models"
	"site-ops-api-server/internal/s3"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type VehicleHandler struct {
	DB       *mongo.Database
	Uploader *s3.Uploader
}

type CreateVehiclePayload struct {
	PlateNumber string `json:"plateNumber" binding:"required"`
	Model       string `json:"model" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=truck van pickup car"`
	AssignedTo  string `json:"assignedTo"`
}

// CreateVehicle registers a new fleet vehicle.
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var payload CreateVehiclePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if payload.AssignedTo != "" {
		var driver models.User
		if err := h.DB.Collection("users").FindOne(context.Background(), bson.M{"employeeID": payload.AssignedTo}).Decode(&driver); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Assigned employee does not exist"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check employee"})
			}
			return
		}
	}

	newVehicle := models.Vehicle{
		VehicleID:   fmt.Sprintf("VEH-%s", uuid.New().String()[:8]),
		PlateNumber: payload.PlateNumber,
		Model:       payload.Model,
		Type:        payload.Type,
		AssignedTo:  payload.AssignedTo,
		Status:      "available",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	result, err := h.DB.Collection("vehicles").InsertOne(context.Background(), newVehicle)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vehicleID": newVehicle.VehicleID, "id": result.InsertedID})
}

// GetAllVehicles lists the fleet, optionally filtered by status.
func (h *VehicleHandler) GetAllVehicles(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := h.DB.Collection("vehicles").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query vehicles"})
		return
	}
	defer cursor.Close(context.Background())

	var vehicles []models.Vehicle
	if err = cursor.All(context.Background(), &vehicles); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode vehicles"})
		return
	}

	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}

	c.JSON(http.StatusOK, vehicles)
}

// GetVehicleByID returns one vehicle.
func (h *VehicleHandler) GetVehicleByID(c *gin.Context) {
	var vehicle models.Vehicle
	err := h.DB.Collection("vehicles").FindOne(context.Background(), bson.M{"vehicleID": c.Param("id")}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve vehicle"})
		}
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

type UpdateVehicleStatusPayload struct {
	Status     string `json:"status" binding:"required,oneof=available in_use maintenance"`
	AssignedTo string `json:"assignedTo"`
}

// UpdateVehicleStatus changes the availability of a vehicle.
func (h *VehicleHandler) UpdateVehicleStatus(c *gin.Context) {
	var payload UpdateVehicleStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := bson.M{"status": payload.Status, "updatedAt": time.Now()}
	if payload.AssignedTo != "" {
		update["assignedTo"] = payload.AssignedTo
	}

	result, err := h.DB.Collection("vehicles").UpdateOne(context.Background(),
		bson.M{"vehicleID": c.Param("id")}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vehicle"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// UploadRegistrationDoc stores a registration document on S3 and appends a
// pointer to it on the vehicle record.
func (h *VehicleHandler) UploadRegistrationDoc(c *gin.Context) {
	vehicleID := c.Param("id")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	defer file.Close()

	docID := uuid.New().String()
	objectKey := fmt.Sprintf("vehicles/%s/%s%s", vehicleID, docID, filepath.Ext(header.Filename))
	url, err := h.Uploader.UploadFile(context.Background(), file, objectKey, header.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload document"})
		return
	}

	pointer := models.MediaPointer{
		ID:       docID,
		URL:      url,
		FileName: header.Filename,
		FileType: header.Header.Get("Content-Type"),
	}

	result, err := h.DB.Collection("vehicles").UpdateOne(context.Background(),
		bson.M{"vehicleID": vehicleID},
		bson.M{"$push": bson.M{"registrationDocs": pointer}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save document reference"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	c.JSON(http.StatusCreated, pointer)
}
