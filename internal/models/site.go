package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Site struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SiteID    string             `bson:"siteID" json:"siteID"` // User-friendly unique ID, e.g. "site-north-01"
	Name      string             `bson:"name" json:"name"`
	Address   string             `bson:"address" json:"address"`
	ManagerID string             `bson:"managerID,omitempty" json:"managerID,omitempty"`
	Status    string             `bson:"status" json:"status"` // active, paused, closed
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
