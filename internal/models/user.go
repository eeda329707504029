package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User matches the employee document in MongoDB.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EmployeeID string             `bson:"employeeID" json:"employeeID"` // e.g. "EMP-1a2b3c4d"
	Email      string             `bson:"email" json:"email"`
	Name       string             `bson:"name" json:"name"`
	Password   string             `bson:"password" json:"-"`
	Role       string             `bson:"role" json:"role"` // admin, manager, supervisor, warehouse, it, employee
	SiteID     string             `bson:"siteID" json:"siteID"`
	Department string             `bson:"department,omitempty" json:"department,omitempty"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Status     string             `bson:"status" json:"status"` // active, inactive
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
