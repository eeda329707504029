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

type FinanceHandler struct {
	DB *mongo.Database
}

type CreateFinanceRequestPayload struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency" binding:"required,len=3"`
	Purpose  string  `json:"purpose" binding:"required,oneof=reimbursement advance purchase other"`
	Notes    string  `json:"notes"`
}

// CreateFinanceRequest submits a finance request for the caller.
func (h *FinanceHandler) CreateFinanceRequest(c *gin.Context) {
	var payload CreateFinanceRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newRequest := models.FinanceRequest{
		RequestID:    fmt.Sprintf("FREQ-%s", uuid.New().String()[:8]),
		EmployeeID:   c.GetString("user_employee_id"),
		EmployeeName: c.GetString("user_name"),
		Amount:       payload.Amount,
		Currency:     payload.Currency,
		Purpose:      payload.Purpose,
		Notes:        payload.Notes,
		Status:       models.StatusSubmitted,
		CreatedAt:    time.Now(),
	}

	result, err := h.DB.Collection("finance_requests").InsertOne(context.Background(), newRequest)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create finance request"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newRequest.ID = oid
	}

	c.JSON(http.StatusCreated, newRequest)
}

// GetAllFinanceRequests lists finance requests, optionally filtered by status.
func (h *FinanceHandler) GetAllFinanceRequests(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := h.DB.Collection("finance_requests").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query finance requests"})
		return
	}
	defer cursor.Close(context.Background())

	var requests []models.FinanceRequest
	if err = cursor.All(context.Background(), &requests); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode finance requests"})
		return
	}

	if requests == nil {
		requests = []models.FinanceRequest{}
	}

	c.JSON(http.StatusOK, requests)
}

// GetMyFinanceRequests lists the caller's own finance requests.
func (h *FinanceHandler) GetMyFinanceRequests(c *gin.Context) {
	filter := bson.M{"employeeID": c.GetString("user_employee_id")}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := h.DB.Collection("finance_requests").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query finance requests"})
		return
	}
	defer cursor.Close(context.Background())

	var requests []models.FinanceRequest
	if err = cursor.All(context.Background(), &requests); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode finance requests"})
		return
	}

	if requests == nil {
		requests = []models.FinanceRequest{}
	}

	c.JSON(http.StatusOK, requests)
}

// ApproveFinanceRequest approves a submitted finance request.
func (h *FinanceHandler) ApproveFinanceRequest(c *gin.Context) {
	h.decideFinanceRequest(c, models.StatusApproved)
}

// RejectFinanceRequest rejects a submitted finance request.
func (h *FinanceHandler) RejectFinanceRequest(c *gin.Context) {
	h.decideFinanceRequest(c, models.StatusRejected)
}

func (h *FinanceHandler) decideFinanceRequest(c *gin.Context, decision models.RequestStatus) {
	requestID := c.Param("id")

	result, err := h.DB.Collection("finance_requests").UpdateOne(context.Background(),
		bson.M{"requestID": requestID, "status": models.StatusSubmitted},
		bson.M{"$set": bson.M{
			"status":       decision,
			"approver":     c.GetString("user_employee_id"),
			"approvedDate": time.Now(),
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update finance request"})
		return
	}
	if result.ModifiedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Finance request is not awaiting a decision"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "requestID": requestID})
}
