package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SafetyReport struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReportID    string             `bson:"reportID" json:"reportID"` // e.g. "SAF-1a2b3c4d"
	SiteID      string             `bson:"siteID" json:"siteID"`
	ReportedBy  string             `bson:"reportedBy" json:"reportedBy"`
	Description string             `bson:"description" json:"description"`
	Severity    string             `bson:"severity" json:"severity"` // low, medium, high, critical
	Photos      []MediaPointer     `bson:"photos,omitempty" json:"photos,omitempty"`
	Status      string             `bson:"status" json:"status"` // open, closed
	ClosedBy    string             `bson:"closedBy,omitempty" json:"closedBy,omitempty"`
	ClosedAt    *time.Time         `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
