package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LeaveRequest struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequestID    string             `bson:"requestID" json:"requestID"` // e.g. "LREQ-1a2b3c4d"
	EmployeeID   string             `bson:"employeeID" json:"employeeID"`
	EmployeeName string             `bson:"employeeName" json:"employeeName"`
	LeaveType    string             `bson:"leaveType" json:"leaveType"` // annual, sick, unpaid, other
	FromDate     time.Time          `bson:"fromDate" json:"fromDate"`
	ToDate       time.Time          `bson:"toDate" json:"toDate"`
	Reason       string             `bson:"reason,omitempty" json:"reason,omitempty"`
	Status       RequestStatus      `bson:"status" json:"status"` // submitted, approved, rejected
	Approver     string             `bson:"approver,omitempty" json:"approver,omitempty"`
	ApprovedDate *time.Time         `bson:"approvedDate,omitempty" json:"approvedDate,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
