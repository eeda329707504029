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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type SafetyHandler struct {
	DB       *mongo.Database
	Uploader *s3.Uploader
}

type CreateSafetyReportPayload struct {
	SiteID      string `json:"siteID" binding:"required"`
	Description string `json:"description" binding:"required"`
	Severity    string `json:"severity" binding:"required,oneof=low medium high critical"`
}

// CreateSafetyReport files a new site incident report.
func (h *SafetyHandler) CreateSafetyReport(c *gin.Context) {
	var payload CreateSafetyReportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newReport := models.SafetyReport{
		ReportID:    fmt.Sprintf("SAF-%s", uuid.New().String()[:8]),
		SiteID:      payload.SiteID,
		ReportedBy:  c.GetString("user_employee_id"),
		Description: payload.Description,
		Severity:    payload.Severity,
		Status:      "open",
		CreatedAt:   time.Now(),
	}

	result, err := h.DB.Collection("safety_reports").InsertOne(context.Background(), newReport)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create safety report"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newReport.ID = oid
	}

	c.JSON(http.StatusCreated, newReport)
}

// GetAllSafetyReports lists reports, optionally filtered by status or site.
func (h *SafetyHandler) GetAllSafetyReports(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if siteID := c.Query("siteID"); siteID != "" {
		filter["siteID"] = siteID
	}

	cursor, err := h.DB.Collection("safety_reports").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query safety reports"})
		return
	}
	defer cursor.Close(context.Background())

	var reports []models.SafetyReport
	if err = cursor.All(context.Background(), &reports); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode safety reports"})
		return
	}

	if reports == nil {
		reports = []models.SafetyReport{}
	}

	c.JSON(http.StatusOK, reports)
}

// UploadIncidentPhoto stores an evidence photo on S3 and appends a pointer
// to it on the report.
func (h *SafetyHandler) UploadIncidentPhoto(c *gin.Context) {
	reportID := c.Param("id")

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo file is required"})
		return
	}
	defer file.Close()

	photoID := uuid.New().String()
	objectKey := fmt.Sprintf("safety-reports/%s/%s%s", reportID, photoID, filepath.Ext(header.Filename))
	url, err := h.Uploader.UploadFile(context.Background(), file, objectKey, header.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		return
	}

	pointer := models.MediaPointer{
		ID:       photoID,
		URL:      url,
		FileName: header.Filename,
		FileType: header.Header.Get("Content-Type"),
	}

	result, err := h.DB.Collection("safety_reports").UpdateOne(context.Background(),
		bson.M{"reportID": reportID},
		bson.M{"$push": bson.M{"photos": pointer}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save photo reference"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Safety report not found"})
		return
	}

	c.JSON(http.StatusCreated, pointer)
}

// CloseSafetyReport closes an open report.
func (h *SafetyHandler) CloseSafetyReport(c *gin.Context) {
	now := time.Now()
	result, err := h.DB.Collection("safety_reports").UpdateOne(context.Background(),
		bson.M{"reportID": c.Param("id"), "status": "open"},
		bson.M{"$set": bson.M{
			"status":   "closed",
			"closedBy": c.GetString("user_employee_id"),
			"closedAt": now,
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close safety report"})
		return
	}
	if result.ModifiedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Safety report is not open"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
