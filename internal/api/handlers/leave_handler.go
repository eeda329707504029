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

type LeaveHandler struct {
	DB *mongo.Database
}

type CreateLeaveRequestPayload struct {
	LeaveType string    `json:"leaveType" binding:"required,oneof=annual sick unpaid other"`
	FromDate  time.Time `json:"fromDate" binding:"required"`
	ToDate    time.Time `json:"toDate" binding:"required"`
	Reason    string    `json:"reason"`
}

// CreateLeaveRequest submits a leave request for the caller.
func (h *LeaveHandler) CreateLeaveRequest(c *gin.Context) {
	var payload CreateLeaveRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if payload.ToDate.Before(payload.FromDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "toDate must not be before fromDate"})
		return
	}

	newRequest := models.LeaveRequest{
		RequestID:    fmt.Sprintf("LREQ-%s", uuid.New().String()[:8]),
		EmployeeID:   c.GetString("user_employee_id"),
		EmployeeName: c.GetString("user_name"),
		LeaveType:    payload.LeaveType,
		FromDate:     payload.FromDate,
		ToDate:       payload.ToDate,
		Reason:       payload.Reason,
		Status:       models.StatusSubmitted,
		CreatedAt:    time.Now(),
	}

	result, err := h.DB.Collection("leave_requests").InsertOne(context.Background(), newRequest)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create leave request"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newRequest.ID = oid
	}

	c.JSON(http.StatusCreated, newRequest)
}

// GetAllLeaveRequests lists leave requests, optionally filtered by status.
func (h *LeaveHandler) GetAllLeaveRequests(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := h.DB.Collection("leave_requests").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query leave requests"})
		return
	}
	defer cursor.Close(context.Background())

	var requests []models.LeaveRequest
	if err = cursor.All(context.Background(), &requests); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode leave requests"})
		return
	}

	if requests == nil {
		requests = []models.LeaveRequest{}
	}

	c.JSON(http.StatusOK, requests)
}

// GetMyLeaveRequests lists the caller's own leave requests.
func (h *LeaveHandler) GetMyLeaveRequests(c *gin.Context) {
	filter := bson.M{"employeeID": c.GetString("user_employee_id")}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := h.DB.Collection("leave_requests").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query leave requests"})
		return
	}
	defer cursor.Close(context.Background())

	var requests []models.LeaveRequest
	if err = cursor.All(context.Background(), &requests); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode leave requests"})
		return
	}

	if requests == nil {
		requests = []models.LeaveRequest{}
	}

	c.JSON(http.StatusOK, requests)
}

// ApproveLeaveRequest approves a submitted leave request. The filter carries
// the expected status, so a concurrent decision wins only once.
func (h *LeaveHandler) ApproveLeaveRequest(c *gin.Context) {
	h.decideLeaveRequest(c, models.StatusApproved)
}

// RejectLeaveRequest rejects a submitted leave request.
func (h *LeaveHandler) RejectLeaveRequest(c *gin.Context) {
	h.decideLeaveRequest(c, models.StatusRejected)
}

func (h *LeaveHandler) decideLeaveRequest(c *gin.Context, decision models.RequestStatus) {
	requestID := c.Param("id")

	result, err := h.DB.Collection("leave_requests").UpdateOne(context.Background(),
		bson.M{"requestID": requestID, "status": models.StatusSubmitted},
		bson.M{"$set": bson.M{
			"status":       decision,
			"approver":     c.GetString("user_employee_id"),
			"approvedDate": time.Now(),
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update leave request"})
		return
	}
	if result.ModifiedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Leave request is not awaiting a decision"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "requestID": requestID})
}
