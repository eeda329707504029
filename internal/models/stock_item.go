package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StockItem is a warehouse inventory record with on-hand quantity and reorder threshold.
type StockItem struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ItemCode      string             `bson:"itemCode" json:"itemCode"` // User-friendly unique ID, e.g. "MAT-1a2b3c4d"
	ItemName      string             `bson:"itemName" json:"itemName"`
	Category      string             `bson:"category" json:"category"` // cement, steel, electrical, plumbing, safety, tools, other
	Unit          string             `bson:"unit" json:"unit"`         // e.g. "bag", "kg", "piece"
	UnitPrice     float64            `bson:"unitPrice" json:"unitPrice"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	ReorderLevel  int                `bson:"reorderLevel" json:"reorderLevel"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	ReceivedBy    string             `bson:"receivedBy" json:"receivedBy"`
	ReceivingDate time.Time          `bson:"receivingDate" json:"receivingDate"`
	CompanyID     string             `bson:"companyID" json:"companyID"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// LowOnStock reports whether the item has fallen to or below its reorder level.
func (s *StockItem) LowOnStock() bool {
	return s.Quantity <= s.ReorderLevel
}
