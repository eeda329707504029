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

type TicketHandler struct {
	DB *mongo.Database
}

type CreateTicketPayload struct {
	Subject     string          `json:"subject" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Category    string          `json:"category" binding:"required,oneof=hardware software network access other"`
	Priority    models.Priority `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
}

// CreateTicket opens an IT ticket for the caller.
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var payload CreateTicketPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if payload.Priority == "" {
		payload.Priority = models.PriorityMedium
	}

	newTicket := models.ITTicket{
		TicketID:    fmt.Sprintf("TIC-%s", uuid.New().String()[:8]),
		ReportedBy:  c.GetString("user_employee_id"),
		Subject:     payload.Subject,
		Description: payload.Description,
		Category:    payload.Category,
		Priority:    payload.Priority,
		Status:      "open",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	result, err := h.DB.Collection("it_tickets").InsertOne(context.Background(), newTicket)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ticket"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newTicket.ID = oid
	}

	c.JSON(http.StatusCreated, newTicket)
}

// GetAllTickets lists IT tickets, optionally filtered by status.
func (h *TicketHandler) GetAllTickets(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := h.DB.Collection("it_tickets").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query tickets"})
		return
	}
	defer cursor.Close(context.Background())

	var tickets []models.ITTicket
	if err = cursor.All(context.Background(), &tickets); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode tickets"})
		return
	}

	if tickets == nil {
		tickets = []models.ITTicket{}
	}

	c.JSON(http.StatusOK, tickets)
}

// GetMyTickets lists the caller's own tickets.
func (h *TicketHandler) GetMyTickets(c *gin.Context) {
	filter := bson.M{"reportedBy": c.GetString("user_employee_id")}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := h.DB.Collection("it_tickets").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query tickets"})
		return
	}
	defer cursor.Close(context.Background())

	var tickets []models.ITTicket
	if err = cursor.All(context.Background(), &tickets); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode tickets"})
		return
	}

	if tickets == nil {
		tickets = []models.ITTicket{}
	}

	c.JSON(http.StatusOK, tickets)
}

type AssignTicketPayload struct {
	AssignedTo string `json:"assignedTo" binding:"required"`
}

// AssignTicket puts an open ticket in progress with an assignee.
func (h *TicketHandler) AssignTicket(c *gin.Context) {
	var payload AssignTicketPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Collection("it_tickets").UpdateOne(context.Background(),
		bson.M{"ticketID": c.Param("id"), "status": "open"},
		bson.M{"$set": bson.M{
			"status":     "in_progress",
			"assignedTo": payload.AssignedTo,
			"updatedAt":  time.Now(),
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign ticket"})
		return
	}
	if result.ModifiedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Ticket is not open"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ResolveTicket closes an in-progress ticket.
func (h *TicketHandler) ResolveTicket(c *gin.Context) {
	now := time.Now()
	result, err := h.DB.Collection("it_tickets").UpdateOne(context.Background(),
		bson.M{"ticketID": c.Param("id"), "status": "in_progress"},
		bson.M{"$set": bson.M{
			"status":     "resolved",
			"resolvedAt": now,
			"updatedAt":  now,
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve ticket"})
		return
	}
	if result.ModifiedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Ticket is not in progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
