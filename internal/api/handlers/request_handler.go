package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"site-ops-api-server/internal/models"
	"site-ops-api-server/internal/socket"
	"site-ops-api-server/internal/warehouse"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RequestHandler struct {
	Service *warehouse.Service
	Hub     *socket.Hub
	Log     *zap.Logger
}

// actorFromContext reads the identity placed there by the Authenticate
// middleware. The lifecycle engine requires it explicitly on every call.
func actorFromContext(c *gin.Context) warehouse.Actor {
	return warehouse.Actor{
		ID:   c.GetString("user_employee_id"),
		Name: c.GetString("user_name"),
		Role: c.GetString("user_role"),
	}
}

// warehouseErrorStatus maps lifecycle engine errors to HTTP status codes.
func warehouseErrorStatus(err error) int {
	switch {
	case errors.Is(err, warehouse.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, warehouse.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, warehouse.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, warehouse.ErrInvalidState), errors.Is(err, warehouse.ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondWarehouseError(c *gin.Context, err error) {
	status := warehouseErrorStatus(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "Operation failed"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

type RequestItemPayload struct {
	MaterialID string `json:"materialID" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
}

type CreateMaterialRequestPayload struct {
	SiteID   string               `json:"siteID" binding:"required"`
	SiteName string               `json:"siteName" binding:"required"`
	Priority models.Priority      `json:"priority"`
	Notes    string               `json:"notes"`
	Items    []RequestItemPayload `json:"items" binding:"required,dive"`
}

// CreateMaterialRequest submits a new request on behalf of the caller.
func (h *RequestHandler) CreateMaterialRequest(c *gin.Context) {
	var payload CreateMaterialRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := warehouse.CreateRequestInput{
		SiteID:   payload.SiteID,
		SiteName: payload.SiteName,
		Priority: payload.Priority,
		Notes:    payload.Notes,
	}
	for _, item := range payload.Items {
		input.Items = append(input.Items, warehouse.CreateRequestItem{
			MaterialID: item.MaterialID,
			Quantity:   item.Quantity,
		})
	}

	req, err := h.Service.CreateRequest(context.Background(), input, actorFromContext(c))
	if err != nil {
		respondWarehouseError(c, err)
		return
	}

	h.notifyRole("manager", "material_request_submitted", req)

	c.JSON(http.StatusCreated, req)
}

// GetAllMaterialRequests lists requests, optionally filtered by status or site.
func (h *RequestHandler) GetAllMaterialRequests(c *gin.Context) {
	filter := warehouse.RequestFilter{
		Status: models.RequestStatus(c.Query("status")),
		SiteID: c.Query("siteID"),
	}

	requests, err := h.Service.ListRequests(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query material requests"})
		return
	}

	c.JSON(http.StatusOK, requests)
}

// GetMyMaterialRequests lists the caller's own requests.
func (h *RequestHandler) GetMyMaterialRequests(c *gin.Context) {
	filter := warehouse.RequestFilter{
		RequestedBy: c.GetString("user_employee_id"),
		Status:      models.RequestStatus(c.Query("status")),
	}

	requests, err := h.Service.ListRequests(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query material requests"})
		return
	}

	c.JSON(http.StatusOK, requests)
}

// GetMaterialRequestByID returns one request.
func (h *RequestHandler) GetMaterialRequestByID(c *gin.Context) {
	req, err := h.Service.GetRequest(context.Background(), c.Param("id"))
	if err != nil {
		respondWarehouseError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// ApproveMaterialRequest moves a submitted request to approved.
func (h *RequestHandler) ApproveMaterialRequest(c *gin.Context) {
	h.transition(c, models.StatusApproved)
}

// RejectMaterialRequest moves a non-terminal request to rejected.
func (h *RequestHandler) RejectMaterialRequest(c *gin.Context) {
	h.transition(c, models.StatusRejected)
}

// IssueMaterialRequest dispatches an approved request against warehouse
// stock. The decrement and the status flip are one atomic operation.
func (h *RequestHandler) IssueMaterialRequest(c *gin.Context) {
	h.transition(c, models.StatusIssued)
}

func (h *RequestHandler) transition(c *gin.Context, to models.RequestStatus) {
	requestID := c.Param("id")

	req, err := h.Service.Transition(context.Background(), requestID, to, actorFromContext(c))
	if err != nil {
		respondWarehouseError(c, err)
		return
	}

	switch to {
	case models.StatusApproved:
		h.notifyRole("warehouse", "material_request_approved", req)
	case models.StatusIssued, models.StatusRejected:
		h.notifyUser(req.RequestedBy, "material_request_"+string(to), req)
	}

	c.JSON(http.StatusOK, req)
}

func (h *RequestHandler) notifyRole(role, event string, req *models.MaterialRequest) {
	message, err := json.Marshal(gin.H{"event": event, "request": req})
	if err != nil {
		return
	}
	h.Hub.SendToRole(role, message)
}

func (h *RequestHandler) notifyUser(employeeID, event string, req *models.MaterialRequest) {
	message, err := json.Marshal(gin.H{"event": event, "request": req})
	if err != nil {
		return
	}
	if err := h.Hub.Send(employeeID, message); err != nil {
		h.Log.Warn("failed to notify requester", zap.String("employeeID", employeeID), zap.Error(err))
	}
}
