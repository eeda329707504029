package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ITAsset struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssetID      string             `bson:"assetID" json:"assetID"` // e.g. "AST-1a2b3c4d"
	Name         string             `bson:"name" json:"name"`
	Type         string             `bson:"type" json:"type"` // laptop, phone, monitor, printer, other
	SerialNumber string             `bson:"serialNumber" json:"serialNumber"`
	AssignedTo   string             `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	Status       string             `bson:"status" json:"status"` // in_stock, assigned, retired
	PurchaseDate time.Time          `bson:"purchaseDate" json:"purchaseDate"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
