// models/run.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RunStatus moves strictly forward: draft -> in-progress -> completed.
type RunStatus string

const (
	RunStatusDraft      RunStatus = "draft"
	RunStatusInProgress RunStatus = "in-progress"
	RunStatusCompleted  RunStatus = "completed"
)

// ItemStatus is the per-item answer recorded on a run.
type ItemStatus string

const (
	ItemStatusCompliant     ItemStatus = "compliant"
	ItemStatusNonCompliant  ItemStatus = "non-compliant"
	ItemStatusNotApplicable ItemStatus = "not-applicable"
	ItemStatusChecked       ItemStatus = "checked"
	ItemStatusUnchecked     ItemStatus = "unchecked"
)

type RunItem struct {
	ItemID   string     `json:"itemId" bson:"itemId"`
	ItemName string     `json:"itemName" bson:"itemName"`
	Status   ItemStatus `json:"status" bson:"status"`
	Notes    string     `json:"notes,omitempty" bson:"notes,omitempty"`
	Date     *time.Time `json:"date,omitempty" bson:"date,omitempty"`
}

// AuditRun is one instance of a template being filled out. CompletedAt,
// NextAuditDue and Frequency are populated only at completion; Frequency is a
// snapshot so later template edits never move a finished run's due date.
type AuditRun struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TemplateID     primitive.ObjectID `json:"templateId" bson:"templateId"`
	OrganizationID primitive.ObjectID `json:"organizationId" bson:"organizationId"`
	TeamID         primitive.ObjectID `json:"teamId,omitempty" bson:"teamId,omitempty"`
	TemplateName   string             `json:"templateName" bson:"templateName"`
	Category       Category           `json:"category" bson:"category"`
	Status         RunStatus          `json:"status" bson:"status"`
	Items          []RunItem          `json:"items" bson:"items"`
	OverallNotes   string             `json:"overallNotes,omitempty" bson:"overallNotes,omitempty"`
	AuditedBy      string             `json:"auditedBy" bson:"auditedBy"`
	AuditedByName  string             `json:"auditedByName,omitempty" bson:"auditedByName,omitempty"`
	CompletedAt    *time.Time         `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	NextAuditDue   *time.Time         `json:"nextAuditDue,omitempty" bson:"nextAuditDue,omitempty"`
	Frequency      Frequency          `json:"frequency,omitempty" bson:"frequency,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}
