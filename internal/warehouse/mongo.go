package warehouse

import (
	"context"
	"fmt"
	"time"

	"site-ops-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	stockCollection   = "stock_items"
	requestCollection = "material_requests"
)

// MongoStockLedger is the MongoDB-backed stock accessor.
type MongoStockLedger struct {
	DB *mongo.Database
}

func NewMongoStockLedger(db *mongo.Database) *MongoStockLedger {
	return &MongoStockLedger{DB: db}
}

func (l *MongoStockLedger) Get(ctx context.Context, itemCode string) (*models.StockItem, error) {
	var item models.StockItem
	err := l.DB.Collection(stockCollection).FindOne(ctx, bson.M{"itemCode": itemCode}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("stock item %s: %w", itemCode, ErrNotFound)
		}
		return nil, err
	}
	return &item, nil
}

// List fetches the full collection; category and low-stock predicates are
// evaluated client-side.
func (l *MongoStockLedger) List(ctx context.Context, filter StockFilter) ([]models.StockItem, error) {
	cursor, err := l.DB.Collection(stockCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.StockItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}

	filtered := []models.StockItem{}
	for _, item := range items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.LowStock && !item.LowOnStock() {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, nil
}

func (l *MongoStockLedger) Insert(ctx context.Context, item *models.StockItem) error {
	_, err := l.DB.Collection(stockCollection).InsertOne(ctx, item)
	return err
}

func (l *MongoStockLedger) Restock(ctx context.Context, itemCode string, delta int) error {
	result, err := l.DB.Collection(stockCollection).UpdateOne(ctx,
		bson.M{"itemCode": itemCode},
		bson.M{"$inc": bson.M{"quantity": delta}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("stock item %s: %w", itemCode, ErrNotFound)
	}
	return nil
}

// Dispatch decrements quantity with a guard on the current value, so two
// concurrent dispatches can never drive the quantity negative: the filter
// only matches while enough stock remains.
func (l *MongoStockLedger) Dispatch(ctx context.Context, itemCode string, delta int) error {
	return dispatchStock(ctx, l.DB.Collection(stockCollection), itemCode, delta)
}

func dispatchStock(ctx context.Context, coll *mongo.Collection, itemCode string, delta int) error {
	result, err := coll.UpdateOne(ctx,
		bson.M{"itemCode": itemCode, "quantity": bson.M{"$gte": delta}},
		bson.M{"$inc": bson.M{"quantity": -delta}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		count, err := coll.CountDocuments(ctx, bson.M{"itemCode": itemCode})
		if err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("stock item %s: %w", itemCode, ErrNotFound)
		}
		return fmt.Errorf("stock item %s: %w", itemCode, ErrInsufficientStock)
	}
	return nil
}

// MongoRequestStore is the MongoDB-backed material request accessor.
type MongoRequestStore struct {
	DB *mongo.Database
}

func NewMongoRequestStore(db *mongo.Database) *MongoRequestStore {
	return &MongoRequestStore{DB: db}
}

func (s *MongoRequestStore) Insert(ctx context.Context, req *models.MaterialRequest) error {
	result, err := s.DB.Collection(requestCollection).InsertOne(ctx, req)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		req.ID = oid
	}
	return nil
}

func (s *MongoRequestStore) Get(ctx context.Context, requestID string) (*models.MaterialRequest, error) {
	var req models.MaterialRequest
	err := s.DB.Collection(requestCollection).FindOne(ctx, bson.M{"requestID": requestID}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("request %s: %w", requestID, ErrNotFound)
		}
		return nil, err
	}
	return &req, nil
}

func (s *MongoRequestStore) List(ctx context.Context, filter RequestFilter) ([]models.MaterialRequest, error) {
	query := bson.M{}
	if filter.RequestedBy != "" {
		query["requestedBy"] = filter.RequestedBy
	}
	if filter.SiteID != "" {
		query["siteID"] = filter.SiteID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	cursor, err := s.DB.Collection(requestCollection).Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []models.MaterialRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []models.MaterialRequest{}
	}
	return requests, nil
}

// Approve flips submitted -> approved. The filter includes the source status,
// so if another approver got there first nothing matches and the caller gets
// ErrInvalidState instead of a silent overwrite.
func (s *MongoRequestStore) Approve(ctx context.Context, requestID string, actor Actor, at time.Time) error {
	return s.conditionalTransition(ctx,
		bson.M{"requestID": requestID, "status": models.StatusSubmitted},
		bson.M{"$set": bson.M{
			"status":       models.StatusApproved,
			"approver":     actor.ID,
			"approverRole": actor.Role,
			"approvedDate": at,
		}},
		requestID)
}

func (s *MongoRequestStore) Reject(ctx context.Context, requestID string, actor Actor, at time.Time) error {
	return s.conditionalTransition(ctx,
		bson.M{
			"requestID": requestID,
			"status":    bson.M{"$in": []models.RequestStatus{models.StatusSubmitted, models.StatusApproved}},
		},
		bson.M{"$set": bson.M{
			"status":       models.StatusRejected,
			"approver":     actor.ID,
			"approverRole": actor.Role,
			"approvedDate": at,
		}},
		requestID)
}

func (s *MongoRequestStore) conditionalTransition(ctx context.Context, filter, update bson.M, requestID string) error {
	result, err := s.DB.Collection(requestCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.ModifiedCount == 0 {
		return fmt.Errorf("request %s: %w", requestID, ErrInvalidState)
	}
	return nil
}

// Issue runs the whole dispatch as one transaction: every line item's stock
// decrement plus the status flip either all commit or all roll back. A line
// with insufficient stock aborts the transaction, leaving request status and
// stock quantities untouched.
func (s *MongoRequestStore) Issue(ctx context.Context, req *models.MaterialRequest, actor Actor, at time.Time) error {
	session, err := s.DB.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		stock := s.DB.Collection(stockCollection)
		for _, item := range req.Items {
			if err := dispatchStock(sessCtx, stock, item.MaterialID, item.RequestedQuantity); err != nil {
				return nil, err
			}
		}

		result, err := s.DB.Collection(requestCollection).UpdateOne(sessCtx,
			bson.M{"requestID": req.RequestID, "status": models.StatusApproved},
			bson.M{"$set": bson.M{
				"status":        models.StatusIssued,
				"issuedBy":      actor.ID,
				"fulfilledDate": at,
			}},
		)
		if err != nil {
			return nil, err
		}
		if result.ModifiedCount == 0 {
			return nil, fmt.Errorf("request %s: %w", req.RequestID, ErrInvalidState)
		}
		return nil, nil
	}

	_, err = session.WithTransaction(ctx, callback)
	return err
}
