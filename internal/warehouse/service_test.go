package warehouse

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"site-ops-api-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memLedger is an in-memory StockLedger with the same conditional-decrement
// contract as the Mongo implementation.
type memLedger struct {
	mu    sync.Mutex
	items map[string]*models.StockItem
}

func newMemLedger() *memLedger {
	return &memLedger{items: make(map[string]*models.StockItem)}
}

func (l *memLedger) Get(_ context.Context, itemCode string) (*models.StockItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	item, ok := l.items[itemCode]
	if !ok {
		return nil, fmt.Errorf("stock item %s: %w", itemCode, ErrNotFound)
	}
	copied := *item
	return &copied, nil
}

func (l *memLedger) List(_ context.Context, filter StockFilter) ([]models.StockItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []models.StockItem{}
	for _, item := range l.items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.LowStock && !item.LowOnStock() {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (l *memLedger) Insert(_ context.Context, item *models.StockItem) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	copied := *item
	l.items[item.ItemCode] = &copied
	return nil
}

func (l *memLedger) Restock(_ context.Context, itemCode string, delta int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	item, ok := l.items[itemCode]
	if !ok {
		return fmt.Errorf("stock item %s: %w", itemCode, ErrNotFound)
	}
	item.Quantity += delta
	return nil
}

func (l *memLedger) Dispatch(_ context.Context, itemCode string, delta int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dispatchLocked(itemCode, delta)
}

func (l *memLedger) dispatchLocked(itemCode string, delta int) error {
	item, ok := l.items[itemCode]
	if !ok {
		return fmt.Errorf("stock item %s: %w", itemCode, ErrNotFound)
	}
	if item.Quantity < delta {
		return fmt.Errorf("stock item %s: %w", itemCode, ErrInsufficientStock)
	}
	item.Quantity -= delta
	return nil
}

// memStore is an in-memory RequestStore. Issue holds the ledger lock across
// the guard checks and the decrements, mirroring the Mongo transaction.
type memStore struct {
	mu       sync.Mutex
	ledger   *memLedger
	requests map[string]*models.MaterialRequest
}

func newMemStore(ledger *memLedger) *memStore {
	return &memStore{ledger: ledger, requests: make(map[string]*models.MaterialRequest)}
}

func (s *memStore) Insert(_ context.Context, req *models.MaterialRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *req
	s.requests[req.RequestID] = &copied
	return nil
}

func (s *memStore) Get(_ context.Context, requestID string) (*models.MaterialRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", requestID, ErrNotFound)
	}
	copied := *req
	return &copied, nil
}

func (s *memStore) List(_ context.Context, filter RequestFilter) ([]models.MaterialRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.MaterialRequest{}
	for _, req := range s.requests {
		if filter.RequestedBy != "" && req.RequestedBy != filter.RequestedBy {
			continue
		}
		if filter.SiteID != "" && req.SiteID != filter.SiteID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		out = append(out, *req)
	}
	return out, nil
}

func (s *memStore) Approve(_ context.Context, requestID string, actor Actor, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok || req.Status != models.StatusSubmitted {
		return fmt.Errorf("request %s: %w", requestID, ErrInvalidState)
	}
	req.Status = models.StatusApproved
	req.Approver = actor.ID
	req.ApproverRole = actor.Role
	req.ApprovedDate = &at
	return nil
}

func (s *memStore) Reject(_ context.Context, requestID string, actor Actor, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok || (req.Status != models.StatusSubmitted && req.Status != models.StatusApproved) {
		return fmt.Errorf("request %s: %w", requestID, ErrInvalidState)
	}
	req.Status = models.StatusRejected
	req.Approver = actor.ID
	req.ApproverRole = actor.Role
	req.ApprovedDate = &at
	return nil
}

func (s *memStore) Issue(_ context.Context, req *models.MaterialRequest, actor Actor, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.mu.Lock()
	defer s.ledger.mu.Unlock()

	stored, ok := s.requests[req.RequestID]
	if !ok || stored.Status != models.StatusApproved {
		return fmt.Errorf("request %s: %w", req.RequestID, ErrInvalidState)
	}
	for _, item := range stored.Items {
		stock, ok := s.ledger.items[item.MaterialID]
		if !ok {
			return fmt.Errorf("stock item %s: %w", item.MaterialID, ErrNotFound)
		}
		if stock.Quantity < item.RequestedQuantity {
			return fmt.Errorf("stock item %s: %w", item.MaterialID, ErrInsufficientStock)
		}
	}
	for _, item := range stored.Items {
		s.ledger.items[item.MaterialID].Quantity -= item.RequestedQuantity
	}
	stored.Status = models.StatusIssued
	stored.IssuedBy = actor.ID
	stored.FulfilledDate = &at
	return nil
}

var (
	supervisor = Actor{ID: "EMP-sup1", Name: "Site Supervisor", Role: "supervisor"}
	manager    = Actor{ID: "EMP-mgr1", Name: "Ops Manager", Role: "manager"}
	storekeep  = Actor{ID: "EMP-whs1", Name: "Storekeeper", Role: "warehouse"}
)

func newTestService(t *testing.T, items ...*models.StockItem) (*Service, *memLedger, *memStore) {
	t.Helper()
	ledger := newMemLedger()
	store := newMemStore(ledger)
	for _, item := range items {
		require.NoError(t, ledger.Insert(context.Background(), item))
	}
	return NewService(ledger, store), ledger, store
}

func stockItem(code string, quantity int, unitPrice float64) *models.StockItem {
	return &models.StockItem{
		ItemCode:     code,
		ItemName:     "Item " + code,
		Category:     "cement",
		Unit:         "bag",
		UnitPrice:    unitPrice,
		Quantity:     quantity,
		ReorderLevel: 5,
	}
}

func submitRequest(t *testing.T, svc *Service, items ...CreateRequestItem) *models.MaterialRequest {
	t.Helper()
	req, err := svc.CreateRequest(context.Background(), CreateRequestInput{
		SiteID:   "site-north-01",
		SiteName: "North Site",
		Priority: models.PriorityHigh,
		Items:    items,
	}, supervisor)
	require.NoError(t, err)
	return req
}

func TestCreateRequest_DenormalizesAndTotals(t *testing.T) {
	svc, _, _ := newTestService(t, stockItem("mat-1", 40, 12.5), stockItem("mat-2", 100, 3))

	req := submitRequest(t, svc,
		CreateRequestItem{MaterialID: "mat-1", Quantity: 4},
		CreateRequestItem{MaterialID: "mat-2", Quantity: 10},
	)

	assert.Equal(t, models.StatusSubmitted, req.Status)
	assert.Equal(t, supervisor.ID, req.RequestedBy)
	assert.Equal(t, "supervisor", req.RequestorRole)
	assert.False(t, req.RequestDate.IsZero())
	require.Len(t, req.Items, 2)
	assert.Equal(t, "Item mat-1", req.Items[0].MaterialName)
	assert.Equal(t, 12.5, req.Items[0].UnitPrice)
	assert.Equal(t, 50.0, req.Items[0].TotalCost)
	assert.Equal(t, 80.0, req.TotalCost)
}

func TestCreateRequest_Validation(t *testing.T) {
	svc, _, _ := newTestService(t, stockItem("mat-1", 40, 12.5))

	_, err := svc.CreateRequest(context.Background(), CreateRequestInput{
		Items: []CreateRequestItem{{MaterialID: "mat-1", Quantity: 1}},
	}, Actor{})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.CreateRequest(context.Background(), CreateRequestInput{}, supervisor)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.CreateRequest(context.Background(), CreateRequestInput{
		Items: []CreateRequestItem{{MaterialID: "mat-1", Quantity: 0}},
	}, supervisor)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.CreateRequest(context.Background(), CreateRequestInput{
		Items: []CreateRequestItem{{MaterialID: "mat-404", Quantity: 1}},
	}, supervisor)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApprove_StampsApprover(t *testing.T) {
	svc, _, _ := newTestService(t, stockItem("mat-1", 40, 10))
	req := submitRequest(t, svc, CreateRequestItem{MaterialID: "mat-1", Quantity: 15})

	updated, err := svc.Transition(context.Background(), req.RequestID, models.StatusApproved, manager)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)
	assert.Equal(t, manager.ID, updated.Approver)
	assert.Equal(t, "manager", updated.ApproverRole)
	require.NotNil(t, updated.ApprovedDate)
}

func TestTransition_ActorChecks(t *testing.T) {
	svc, _, _ := newTestService(t, stockItem("mat-1", 40, 10))
	req := submitRequest(t, svc, CreateRequestItem{MaterialID: "mat-1", Quantity: 15})

	_, err := svc.Transition(context.Background(), req.RequestID, models.StatusApproved, Actor{})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Transition(context.Background(), req.RequestID, models.StatusApproved, supervisor)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Transition(context.Background(), req.RequestID, models.StatusIssued, manager)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestIssue_DecrementsStock(t *testing.T) {
	svc, ledger, _ := newTestService(t, stockItem("mat-1", 40, 10))
	req := submitRequest(t, svc, CreateRequestItem{MaterialID: "mat-1", Quantity: 15})

	_, err := svc.Transition(context.Background(), req.RequestID, models.StatusApproved, manager)
	require.NoError(t, err)

	updated, err := svc.Transition(context.Background(), req.RequestID, models.StatusIssued, storekeep)
	require.NoError(t, err)
	assert.Equal(t, models.StatusIssued, updated.Status)
	assert.Equal(t, storekeep.ID, updated.IssuedBy)
	require.NotNil(t, updated.FulfilledDate)

	stock, err := ledger.Get(context.Background(), "mat-1")
	require.NoError(t, err)
	assert.Equal(t, 25, stock.Quantity)
}

func TestIssue_InsufficientStockIsANoOp(t *testing.T) {
	svc, ledger, _ := newTestService(t, stockItem("mat-1", 10, 10))
	req := submitRequest(t, svc, CreateRequestItem{MaterialID: "mat-1", Quantity: 15})

	_, err := svc.Transition(context.Background(), req.RequestID, models.StatusApproved, manager)
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), req.RequestID, models.StatusIssued, storekeep)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	current, err := svc.GetRequest(context.Background(), req.RequestID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, current.Status)
	assert.Nil(t, current.FulfilledDate)

	stock, err := ledger.Get(context.Background(), "mat-1")
	require.NoError(t, err)
	assert.Equal(t, 10, stock.Quantity)
}

func TestIssue_PartialLineFailureRollsBackEverything(t *testing.T) {
	svc, ledger, _ := newTestService(t, stockItem("mat-1", 100, 10), stockItem("mat-2", 5, 10))
	req := submitRequest(t, svc,
		CreateRequestItem{MaterialID: "mat-1", Quantity: 20},
		CreateRequestItem{MaterialID: "mat-2", Quantity: 8},
	)

	_, err := svc.Transition(context.Background(), req.RequestID, models.StatusApproved, manager)
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), req.RequestID, models.StatusIssued, storekeep)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	first, err := ledger.Get(context.Background(), "mat-1")
	require.NoError(t, err)
	assert.Equal(t, 100, first.Quantity, "first line must not be decremented when a later line fails")

	second, err := ledger.Get(context.Background(), "mat-2")
	require.NoError(t, err)
	assert.Equal(t, 5, second.Quantity)

	current, err := svc.GetRequest(context.Background(), req.RequestID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, current.Status)
}

func TestIssue_DirectFromSubmittedRejected(t *testing.T) {
	svc, ledger, _ := newTestService(t, stockItem("mat-1", 40, 10))
	req := submitRequest(t, svc, CreateRequestItem{MaterialID: "mat-1", Quantity: 15})

	_, err := svc.Transition(context.Background(), req.RequestID, models.StatusIssued, storekeep)
	assert.ErrorIs(t, err, ErrInvalidState)

	current, err := svc.GetRequest(context.Background(), req.RequestID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, current.Status)

	stock, err := ledger.Get(context.Background(), "mat-1")
	require.NoError(t, err)
	assert.Equal(t, 40, stock.Quantity)
}

func TestReject_TerminalNoStockEffect(t *testing.T) {
	svc, ledger, _ := newTestService(t, stockItem("mat-1", 40, 10))
	req := submitRequest(t, svc, CreateRequestItem{MaterialID: "mat-1", Quantity: 15})

	_, err := svc.Transition(context.Background(), req.RequestID, models.StatusApproved, manager)
	require.NoError(t, err)

	updated, err := svc.Transition(context.Background(), req.RequestID, models.StatusRejected, manager)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.Status)

	stock, err := ledger.Get(context.Background(), "mat-1")
	require.NoError(t, err)
	assert.Equal(t, 40, stock.Quantity)

	// Terminal: nothing moves a rejected request.
	_, err = svc.Transition(context.Background(), req.RequestID, models.StatusApproved, manager)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = svc.Transition(context.Background(), req.RequestID, models.StatusIssued, storekeep)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestConcurrentApprove_FirstWriterWins(t *testing.T) {
	svc, _, _ := newTestService(t, stockItem("mat-1", 40, 10))
	req := submitRequest(t, svc, CreateRequestItem{MaterialID: "mat-1", Quantity: 15})

	otherManager := Actor{ID: "EMP-mgr2", Name: "Second Manager", Role: "manager"}
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, actor := range []Actor{manager, otherManager} {
		wg.Add(1)
		go func(a Actor) {
			defer wg.Done()
			_, err := svc.Transition(context.Background(), req.RequestID, models.StatusApproved, a)
			errs <- err
		}(actor)
	}
	wg.Wait()
	close(errs)

	var failures int
	for err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrInvalidState)
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one approver must lose the race")
}

func TestConcurrentDispatch_ExactlyOneFails(t *testing.T) {
	svc, ledger, _ := newTestService(t, stockItem("mat-1", 40, 10))

	first := submitRequest(t, svc, CreateRequestItem{MaterialID: "mat-1", Quantity: 30})
	second := submitRequest(t, svc, CreateRequestItem{MaterialID: "mat-1", Quantity: 30})
	for _, req := range []*models.MaterialRequest{first, second} {
		_, err := svc.Transition(context.Background(), req.RequestID, models.StatusApproved, manager)
		require.NoError(t, err)
	}

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, req := range []*models.MaterialRequest{first, second} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := svc.Transition(context.Background(), id, models.StatusIssued, storekeep)
			errs <- err
		}(req.RequestID)
	}
	wg.Wait()
	close(errs)

	var failures int
	for err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrInsufficientStock)
			failures++
		}
	}
	assert.Equal(t, 1, failures, "combined deltas exceed stock, exactly one dispatch must fail")

	stock, err := ledger.Get(context.Background(), "mat-1")
	require.NoError(t, err)
	assert.Equal(t, 10, stock.Quantity)
}

func TestLedgerConservation(t *testing.T) {
	svc, ledger, _ := newTestService(t, stockItem("mat-1", 40, 10))
	ctx := context.Background()

	require.NoError(t, svc.Restock(ctx, "mat-1", 25))         // 65
	require.NoError(t, svc.AdjustStock(ctx, "mat-1", -5))     // 60
	assert.ErrorIs(t, svc.AdjustStock(ctx, "mat-1", -100), ErrInsufficientStock)
	assert.ErrorIs(t, svc.Restock(ctx, "mat-1", -1), ErrInvalidState)
	assert.ErrorIs(t, svc.AdjustStock(ctx, "mat-1", 0), ErrInvalidState)

	req := submitRequest(t, svc, CreateRequestItem{MaterialID: "mat-1", Quantity: 12})
	_, err := svc.Transition(ctx, req.RequestID, models.StatusApproved, manager)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, req.RequestID, models.StatusIssued, storekeep)
	require.NoError(t, err)

	stock, err := ledger.Get(ctx, "mat-1")
	require.NoError(t, err)
	// 40 + 25 - 5 - 12, failed operations contribute nothing.
	assert.Equal(t, 48, stock.Quantity)
	assert.GreaterOrEqual(t, stock.Quantity, 0)
}

func TestMetrics_ScansCollections(t *testing.T) {
	svc, _, _ := newTestService(t,
		stockItem("mat-1", 40, 2),  // value 80
		stockItem("mat-2", 3, 10),  // value 30, low (reorder level 5)
	)
	ctx := context.Background()

	first := submitRequest(t, svc, CreateRequestItem{MaterialID: "mat-1", Quantity: 4})
	_ = submitRequest(t, svc, CreateRequestItem{MaterialID: "mat-2", Quantity: 1})
	_, err := svc.Transition(ctx, first.RequestID, models.StatusApproved, manager)
	require.NoError(t, err)

	metrics, err := svc.Metrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, metrics.TotalRequests)
	assert.Equal(t, 1, metrics.RequestsByStatus[models.StatusSubmitted])
	assert.Equal(t, 1, metrics.RequestsByStatus[models.StatusApproved])
	assert.Equal(t, 2, metrics.StockItems)
	assert.Equal(t, 110.0, metrics.TotalStockValue)
	assert.Equal(t, 1, metrics.LowStockItems)
}

func TestListRequests_Filters(t *testing.T) {
	svc, _, _ := newTestService(t, stockItem("mat-1", 40, 10))
	ctx := context.Background()

	mine := submitRequest(t, svc, CreateRequestItem{MaterialID: "mat-1", Quantity: 1})
	_, err := svc.CreateRequest(ctx, CreateRequestInput{
		SiteID: "site-south-02",
		Items:  []CreateRequestItem{{MaterialID: "mat-1", Quantity: 2}},
	}, Actor{ID: "EMP-sup2", Name: "Other Supervisor", Role: "supervisor"})
	require.NoError(t, err)

	byRequester, err := svc.ListRequests(ctx, RequestFilter{RequestedBy: supervisor.ID})
	require.NoError(t, err)
	require.Len(t, byRequester, 1)
	assert.Equal(t, mine.RequestID, byRequester[0].RequestID)

	bySite, err := svc.ListRequests(ctx, RequestFilter{SiteID: "site-south-02"})
	require.NoError(t, err)
	assert.Len(t, bySite, 1)

	all, err := svc.ListRequests(ctx, RequestFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
