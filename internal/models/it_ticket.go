package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ITTicket struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TicketID    string             `bson:"ticketID" json:"ticketID"` // e.g. "TIC-1a2b3c4d"
	ReportedBy  string             `bson:"reportedBy" json:"reportedBy"`
	Subject     string             `bson:"subject" json:"subject"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"` // hardware, software, network, access, other
	Priority    Priority           `bson:"priority" json:"priority"`
	Status      string             `bson:"status" json:"status"` // open, in_progress, resolved
	AssignedTo  string             `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	ResolvedAt  *time.Time         `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
