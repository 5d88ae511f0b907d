// models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotificationTypePlanAssigned  = "action_plan_assigned"
	NotificationTypePlanCompleted = "action_plan_completed"
)

type NotificationMetadata struct {
	RunID      primitive.ObjectID `json:"runId,omitempty" bson:"runId,omitempty"`
	TemplateID primitive.ObjectID `json:"templateId,omitempty" bson:"templateId,omitempty"`
	PlanID     primitive.ObjectID `json:"planId,omitempty" bson:"planId,omitempty"`
	Priority   Priority           `json:"priority,omitempty" bson:"priority,omitempty"`
	DueDate    *time.Time         `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
}

// Notification is a flat delivery-agnostic message. This subsystem only
// creates them; delivery and read receipts belong to the surrounding app.
type Notification struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	UserID         string               `json:"userId" bson:"userId"`
	SenderID       string               `json:"senderId,omitempty" bson:"senderId,omitempty"`
	SenderName     string               `json:"senderName,omitempty" bson:"senderName,omitempty"`
	Type           string               `json:"type" bson:"type"`
	Title          string               `json:"title" bson:"title"`
	Message        string               `json:"message" bson:"message"`
	Link           string               `json:"link,omitempty" bson:"link,omitempty"`
	Metadata       NotificationMetadata `json:"metadata,omitempty" bson:"metadata,omitempty"`
	IsRead         bool                 `json:"isRead" bson:"isRead"`
	OrganizationID primitive.ObjectID   `json:"organizationId" bson:"organizationId"`
	TeamID         primitive.ObjectID   `json:"teamId,omitempty" bson:"teamId,omitempty"`
	CreatedAt      time.Time            `json:"createdAt" bson:"createdAt"`
}
