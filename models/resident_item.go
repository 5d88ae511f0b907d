// models/resident_item.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResidentAuditItem is the flattened per-resident view of audit items used by
// the resident dashboard. DueDate is an ISO YYYY-MM-DD string and overdue
// detection compares it lexicographically against today, so any other date
// format silently never matches.
type ResidentAuditItem struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID `json:"organizationId" bson:"organizationId"`
	TeamID         primitive.ObjectID `json:"teamId,omitempty" bson:"teamId,omitempty"`
	ResidentID     primitive.ObjectID `json:"residentId" bson:"residentId"`
	TemplateID     primitive.ObjectID `json:"templateId,omitempty" bson:"templateId,omitempty"`
	ItemName       string             `json:"itemName" bson:"itemName"`
	Status         string             `json:"status" bson:"status"`
	DueDate        string             `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

const (
	ResidentItemStatusCompleted     = "completed"
	ResidentItemStatusNotApplicable = "n/a"
)
