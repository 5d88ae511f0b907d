// models/template.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is the fixed audit-category vocabulary. Not user-extensible.
type Category string

const (
	CategoryResident    Category = "resident"
	CategoryCareFile    Category = "carefile"
	CategoryGovernance  Category = "governance"
	CategoryClinical    Category = "clinical"
	CategoryEnvironment Category = "environment"
)

// Frequency labels how often a template is expected to be run.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencySixMonths Frequency = "6months"
	FrequencyYearly    Frequency = "yearly"
	FrequencyAdHoc     Frequency = "adhoc"
)

// ItemType describes how a checklist item is answered.
type ItemType string

const (
	ItemTypeCompliance ItemType = "compliance"
	ItemTypeCheckbox   ItemType = "checkbox"
	ItemTypeNotes      ItemType = "notes"
	ItemTypeYesNo      ItemType = "yesno"
)

type TemplateItem struct {
	ItemID   string   `json:"itemId" bson:"itemId"`
	Label    string   `json:"label" bson:"label"`
	ItemType ItemType `json:"itemType" bson:"itemType"`
}

// Template is a reusable audit checklist. Runs snapshot item identity and
// label at write time, so editing a template never rewrites history.
type Template struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID `json:"organizationId" bson:"organizationId"`
	TeamID         primitive.ObjectID `json:"teamId,omitempty" bson:"teamId,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Category       Category           `json:"category" bson:"category"`
	Items          []TemplateItem     `json:"items" bson:"items"`
	Frequency      Frequency          `json:"frequency" bson:"frequency"`
	IsActive       bool               `json:"isActive" bson:"isActive"`
	CreatedBy      string             `json:"createdBy" bson:"createdBy"`
	CreatedByName  string             `json:"createdByName,omitempty" bson:"createdByName,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}
