// models/actionplan.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanStatus is the stored remediation lifecycle. Overdue is not a stored
// status: it is always derived at read time from dueDate and status, so a
// dashboard can never disagree with the plan's own history.
type PlanStatus string

const (
	PlanStatusPending    PlanStatus = "pending"
	PlanStatusInProgress PlanStatus = "in_progress"
	PlanStatusCompleted  PlanStatus = "completed"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

type PlanStatusEntry struct {
	Status        PlanStatus `json:"status" bson:"status"`
	Comment       string     `json:"comment,omitempty" bson:"comment,omitempty"`
	UpdatedBy     string     `json:"updatedBy" bson:"updatedBy"`
	UpdatedByName string     `json:"updatedByName,omitempty" bson:"updatedByName,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// ActionPlan is a remediation task raised against a specific audit run.
// StatusHistory is append-only and is the source of truth for the lifecycle;
// Status and LatestComment are denormalized copies of its last entry.
type ActionPlan struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RunID          primitive.ObjectID `json:"runId" bson:"runId"`
	TemplateID     primitive.ObjectID `json:"templateId" bson:"templateId"`
	OrganizationID primitive.ObjectID `json:"organizationId" bson:"organizationId"`
	TeamID         primitive.ObjectID `json:"teamId,omitempty" bson:"teamId,omitempty"`
	Description    string             `json:"description" bson:"description"`
	AssignedTo     string             `json:"assignedTo" bson:"assignedTo"`
	AssignedToName string             `json:"assignedToName,omitempty" bson:"assignedToName,omitempty"`
	Priority       Priority           `json:"priority" bson:"priority"`
	DueDate        *time.Time         `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	Status         PlanStatus         `json:"status" bson:"status"`
	StatusHistory  []PlanStatusEntry  `json:"statusHistory" bson:"statusHistory"`
	LatestComment  string             `json:"latestComment,omitempty" bson:"latestComment,omitempty"`
	IsNew          bool               `json:"isNew" bson:"isNew"`
	ViewedAt       *time.Time         `json:"viewedAt,omitempty" bson:"viewedAt,omitempty"`
	CompletedAt    *time.Time         `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	CreatedBy      string             `json:"createdBy" bson:"createdBy"`
	CreatedByName  string             `json:"createdByName,omitempty" bson:"createdByName,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}
