package warehouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"site-ops-api-server/internal/models"

	"github.com/google/uuid"
)

// StockFilter narrows down stock listings. Predicates are evaluated against
// the full collection; there is no pagination contract.
type StockFilter struct {
	Category string
	LowStock bool
}

// RequestFilter narrows down material request listings.
type RequestFilter struct {
	RequestedBy string
	SiteID      string
	Status      models.RequestStatus
}

// StockLedger reads and mutates warehouse stock records.
type StockLedger interface {
	Get(ctx context.Context, itemCode string) (*models.StockItem, error)
	List(ctx context.Context, filter StockFilter) ([]models.StockItem, error)
	Insert(ctx context.Context, item *models.StockItem) error
	// Restock increases quantity on hand. delta must be positive.
	Restock(ctx context.Context, itemCode string, delta int) error
	// Dispatch decreases quantity on hand, failing with ErrInsufficientStock
	// if the decrement would drive the quantity negative. delta must be positive.
	Dispatch(ctx context.Context, itemCode string, delta int) error
}

// RequestStore reads and mutates material request documents. Transition
// writes are conditional on the expected source status, so a concurrent
// writer that got there first causes ErrInvalidState rather than a blind
// overwrite.
type RequestStore interface {
	Insert(ctx context.Context, req *models.MaterialRequest) error
	Get(ctx context.Context, requestID string) (*models.MaterialRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]models.MaterialRequest, error)
	// Approve flips submitted -> approved and stamps the approver.
	Approve(ctx context.Context, requestID string, actor Actor, at time.Time) error
	// Reject flips submitted|approved -> rejected. No stock effect.
	Reject(ctx context.Context, requestID string, actor Actor, at time.Time) error
	// Issue flips approved -> issued, stamps the issuer and decrements every
	// line item's stock quantity in a single transaction. Any line whose
	// requested quantity exceeds current stock aborts the whole transition
	// with ErrInsufficientStock and no partial mutation.
	Issue(ctx context.Context, req *models.MaterialRequest, actor Actor, at time.Time) error
}

// Service is the request lifecycle engine: it validates legal status
// transitions, stamps actor/time metadata and applies stock side effects
// through the ledger.
type Service struct {
	ledger StockLedger
	store  RequestStore
	now    func() time.Time
}

func NewService(ledger StockLedger, store RequestStore) *Service {
	return &Service{ledger: ledger, store: store, now: time.Now}
}

// CreateRequestInput is the caller-supplied portion of a new request.
type CreateRequestInput struct {
	SiteID   string
	SiteName string
	Priority models.Priority
	Notes    string
	Items    []CreateRequestItem
}

type CreateRequestItem struct {
	MaterialID string
	Quantity   int
}

// CreateRequest validates the input, denormalizes material names and unit
// prices from the stock ledger and stores the request as submitted.
func (s *Service) CreateRequest(ctx context.Context, input CreateRequestInput, actor Actor) (*models.MaterialRequest, error) {
	if actor.ID == "" {
		return nil, ErrUnauthenticated
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: request has no items", ErrInvalidState)
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !models.ValidPriority(input.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidState, input.Priority)
	}

	var lines []models.RequestLineItem
	var total float64
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for %s", ErrInvalidState, item.MaterialID)
		}
		stock, err := s.ledger.Get(ctx, item.MaterialID)
		if err != nil {
			return nil, fmt.Errorf("material %s: %w", item.MaterialID, err)
		}
		lineCost := float64(item.Quantity) * stock.UnitPrice
		lines = append(lines, models.RequestLineItem{
			MaterialID:        stock.ItemCode,
			MaterialName:      stock.ItemName,
			RequestedQuantity: item.Quantity,
			UnitPrice:         stock.UnitPrice,
			TotalCost:         lineCost,
		})
		total += lineCost
	}

	req := &models.MaterialRequest{
		RequestID:           fmt.Sprintf("MREQ-%s", strings.ToLower(uuid.New().String()[:8])),
		SiteID:              input.SiteID,
		SiteName:            input.SiteName,
		RequestedBy:         actor.ID,
		RequestedByUsername: actor.Name,
		RequestorRole:       actor.Role,
		Priority:            input.Priority,
		Status:              models.StatusSubmitted,
		Items:               lines,
		TotalCost:           total,
		Notes:               input.Notes,
		RequestDate:         s.now(),
	}
	if err := s.store.Insert(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// GetRequest returns a single request by its requestID.
func (s *Service) GetRequest(ctx context.Context, requestID string) (*models.MaterialRequest, error) {
	return s.store.Get(ctx, requestID)
}

// ListRequests returns all requests matching the filter, unordered.
func (s *Service) ListRequests(ctx context.Context, filter RequestFilter) ([]models.MaterialRequest, error) {
	return s.store.List(ctx, filter)
}

// Transition moves a request to the target status on behalf of the actor.
// It rejects illegal transitions, missing identities and roles without the
// required capability before any write happens; the store's conditional
// writes then guard against concurrent transitions of the same request.
func (s *Service) Transition(ctx context.Context, requestID string, to models.RequestStatus, actor Actor) (*models.MaterialRequest, error) {
	if actor.ID == "" {
		return nil, ErrUnauthenticated
	}
	if !RoleCanTransition(actor.Role, to) {
		return nil, ErrForbidden
	}

	req, err := s.store.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(req.Status, to) {
		return nil, fmt.Errorf("%w: cannot move %s from %s to %s", ErrInvalidState, requestID, req.Status, to)
	}

	at := s.now()
	switch to {
	case models.StatusApproved:
		err = s.store.Approve(ctx, requestID, actor, at)
	case models.StatusRejected:
		err = s.store.Reject(ctx, requestID, actor, at)
	case models.StatusIssued:
		err = s.store.Issue(ctx, req, actor, at)
	default:
		err = fmt.Errorf("%w: unknown target status %q", ErrInvalidState, to)
	}
	if err != nil {
		return nil, err
	}

	return s.store.Get(ctx, requestID)
}

// Restock adds stock to an item. delta must be positive.
func (s *Service) Restock(ctx context.Context, itemCode string, delta int) error {
	if delta <= 0 {
		return fmt.Errorf("%w: restock delta must be positive", ErrInvalidState)
	}
	return s.ledger.Restock(ctx, itemCode, delta)
}

// AdjustStock applies a manual correction outside the request workflow.
// Positive deltas restock, negative deltas dispatch against current stock.
func (s *Service) AdjustStock(ctx context.Context, itemCode string, delta int) error {
	switch {
	case delta > 0:
		return s.ledger.Restock(ctx, itemCode, delta)
	case delta < 0:
		return s.ledger.Dispatch(ctx, itemCode, -delta)
	default:
		return fmt.Errorf("%w: adjustment delta must be non-zero", ErrInvalidState)
	}
}

// DashboardMetrics is a read-time projection over the full collections.
// Nothing maintains these numbers incrementally; callers that need a
// materialized view can replace this method without touching call sites.
type DashboardMetrics struct {
	TotalRequests    int                          `json:"totalRequests"`
	RequestsByStatus map[models.RequestStatus]int `json:"requestsByStatus"`
	StockItems       int                          `json:"stockItems"`
	TotalStockValue  float64                      `json:"totalStockValue"`
	LowStockItems    int                          `json:"lowStockItems"`
}

// Metrics recomputes dashboard aggregates by scanning both collections.
func (s *Service) Metrics(ctx context.Context) (*DashboardMetrics, error) {
	requests, err := s.store.List(ctx, RequestFilter{})
	if err != nil {
		return nil, err
	}
	items, err := s.ledger.List(ctx, StockFilter{})
	if err != nil {
		return nil, err
	}

	metrics := &DashboardMetrics{
		TotalRequests:    len(requests),
		RequestsByStatus: make(map[models.RequestStatus]int),
		StockItems:       len(items),
	}
	for _, req := range requests {
		metrics.RequestsByStatus[req.Status]++
	}
	for _, item := range items {
		metrics.TotalStockValue += float64(item.Quantity) * item.UnitPrice
		if item.LowOnStock() {
			metrics.LowStockItems++
		}
	}
	return metrics, nil
}
