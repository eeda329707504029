package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Vehicle struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID        string             `bson:"vehicleID" json:"vehicleID"` // e.g. "VEH-1a2b3c4d"
	PlateNumber      string             `bson:"plateNumber" json:"plateNumber"`
	Model            string             `bson:"model" json:"model"`
	Type             string             `bson:"type" json:"type"` // truck, van, pickup, car
	AssignedTo       string             `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	Status           string             `bson:"status" json:"status"` // available, in_use, maintenance
	RegistrationDocs []MediaPointer     `bson:"registrationDocs,omitempty" json:"registrationDocs,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
