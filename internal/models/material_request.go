package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestStatus is the closed status vocabulary for material requests.
type RequestStatus string

const (
	StatusSubmitted RequestStatus = "submitted"
	StatusApproved  RequestStatus = "approved"
	StatusIssued    RequestStatus = "issued"
	StatusRejected  RequestStatus = "rejected"
)

// Priority of a material request.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ValidPriority reports whether p is one of the known priority values.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// RequestLineItem is one line of a material request. Name and unit price are
// denormalized copies taken from the stock record at request time.
type RequestLineItem struct {
	MaterialID        string  `bson:"materialID" json:"materialID"`
	MaterialName      string  `bson:"materialName" json:"materialName"`
	RequestedQuantity int     `bson:"requestedQuantity" json:"requestedQuantity"`
	UnitPrice         float64 `bson:"unitPrice" json:"unitPrice"`
	TotalCost         float64 `bson:"totalCost" json:"totalCost"`
}

// MaterialRequest is a site's request for warehouse materials, progressing
// through submitted -> approved -> issued (or -> rejected).
type MaterialRequest struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequestID           string             `bson:"requestID" json:"requestID"` // e.g. "MREQ-1a2b3c4d"
	SiteID              string             `bson:"siteID" json:"siteID"`
	SiteName            string             `bson:"siteName" json:"siteName"`
	RequestedBy         string             `bson:"requestedBy" json:"requestedBy"`
	RequestedByUsername string             `bson:"requestedByUsername" json:"requestedByUsername"`
	RequestorRole       string             `bson:"requestorRole" json:"requestorRole"`
	Approver            string             `bson:"approver,omitempty" json:"approver,omitempty"`
	ApproverRole        string             `bson:"approverRole,omitempty" json:"approverRole,omitempty"`
	IssuedBy            string             `bson:"issuedBy,omitempty" json:"issuedBy,omitempty"`
	Priority            Priority           `bson:"priority" json:"priority"`
	Status              RequestStatus      `bson:"status" json:"status"`
	Items               []RequestLineItem  `bson:"items" json:"items"`
	TotalCost           float64            `bson:"totalCost" json:"totalCost"`
	Notes               string             `bson:"notes,omitempty" json:"notes,omitempty"`
	RequestDate         time.Time          `bson:"requestDate" json:"requestDate"`
	ApprovedDate        *time.Time         `bson:"approvedDate,omitempty" json:"approvedDate,omitempty"`
	FulfilledDate       *time.Time         `bson:"fulfilledDate,omitempty" json:"fulfilledDate,omitempty"`
}
