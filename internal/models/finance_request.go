package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FinanceRequest struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequestID    string             `bson:"requestID" json:"requestID"` // e.g. "FREQ-1a2b3c4d"
	EmployeeID   string             `bson:"employeeID" json:"employeeID"`
	EmployeeName string             `bson:"employeeName" json:"employeeName"`
	Amount       float64            `bson:"amount" json:"amount"`
	Currency     string             `bson:"currency" json:"currency"`
	Purpose      string             `bson:"purpose" json:"purpose"` // reimbursement, advance, purchase, other
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Status       RequestStatus      `bson:"status" json:"status"` // submitted, approved, rejected
	Approver     string             `bson:"approver,omitempty" json:"approver,omitempty"`
	ApprovedDate *time.Time         `bson:"approvedDate,omitempty" json:"approvedDate,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
