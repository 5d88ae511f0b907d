// audit/store.go
package audit

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CareO-HQ/careo-sub009/models"
)

// Patch is a partial-document update ($set semantics).
type Patch map[string]interface{}

// The store boundary. Every mutating engine operation maps onto a single
// store call, and each store call must be atomic and serializable against
// concurrent callers — that is the load-bearing guarantee behind the
// one-open-run invariant and the append-only status history.

type TemplateFilter struct {
	OrganizationID primitive.ObjectID
	TeamID         primitive.ObjectID // zero value means no team filter
	Category       models.Category    // empty means all categories
	ActiveOnly     bool
}

type TemplateStore interface {
	InsertTemplate(ctx context.Context, t *models.Template) error
	GetTemplate(ctx context.Context, id primitive.ObjectID) (*models.Template, error)
	// PatchTemplate reports whether a template matched.
	PatchTemplate(ctx context.Context, id primitive.ObjectID, patch Patch) (bool, error)
	ListTemplates(ctx context.Context, f TemplateFilter) ([]models.Template, error)
	// DeleteTemplateCascade removes the template and every run and plan
	// referencing it, returning the run and plan counts deleted.
	DeleteTemplateCascade(ctx context.Context, id primitive.ObjectID) (runs, plans int64, err error)
}

type RunFilter struct {
	TemplateID     primitive.ObjectID
	OrganizationID primitive.ObjectID
	TeamID         primitive.ObjectID
	Statuses       []models.RunStatus
	Limit          int // 0 means no limit; results are newest first
}

type RunStore interface {
	// FindOrCreateOpenRun atomically returns the existing non-terminal run
	// for the candidate's (template, scope), inserting the candidate if
	// none exists. The existence check and insert are one atomic unit.
	FindOrCreateOpenRun(ctx context.Context, candidate *models.AuditRun) (run *models.AuditRun, created bool, err error)
	GetRun(ctx context.Context, id primitive.ObjectID) (*models.AuditRun, error)
	// PatchOpenRun applies the patch only while the run is non-terminal;
	// it reports whether a non-terminal run matched.
	PatchOpenRun(ctx context.Context, id primitive.ObjectID, patch Patch) (bool, error)
	ListRuns(ctx context.Context, f RunFilter) ([]models.AuditRun, error)
}

type PlanFilter struct {
	RunID          primitive.ObjectID
	TemplateID     primitive.ObjectID
	OrganizationID primitive.ObjectID
	TeamID         primitive.ObjectID
	AssignedTo     string
	UnreadOnly     bool
}

type PlanStore interface {
	InsertPlan(ctx context.Context, p *models.ActionPlan) error
	GetPlan(ctx context.Context, id primitive.ObjectID) (*models.ActionPlan, error)
	// AppendPlanStatus pushes one history entry and applies the patch in a
	// single atomic write, so concurrent transitions serialize and no
	// entry is ever lost or reordered.
	AppendPlanStatus(ctx context.Context, id primitive.ObjectID, entry models.PlanStatusEntry, patch Patch) (bool, error)
	PatchPlan(ctx context.Context, id primitive.ObjectID, patch Patch) (bool, error)
	PatchPlansByAssignee(ctx context.Context, assignee string, patch Patch) (int64, error)
	DeletePlan(ctx context.Context, id primitive.ObjectID) (bool, error)
	ListPlans(ctx context.Context, f PlanFilter) ([]models.ActionPlan, error)
	CountPlans(ctx context.Context, f PlanFilter) (int64, error)
}

type NotificationStore interface {
	InsertNotification(ctx context.Context, n *models.Notification) error
	ListNotificationsForUser(ctx context.Context, userID string) ([]models.Notification, error)
	// MarkNotificationRead reports whether a notification matched.
	MarkNotificationRead(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type ResidentItemStore interface {
	InsertResidentItem(ctx context.Context, item *models.ResidentAuditItem) error
	ListResidentItems(ctx context.Context, residentID primitive.ObjectID) ([]models.ResidentAuditItem, error)
}

// Store is the full persistence boundary consumed by the engine.
type Store interface {
	TemplateStore
	RunStore
	PlanStore
	NotificationStore
	ResidentItemStore
}

// EventSink receives post-write events so list readers can observe changes
// without polling. Sinks must not block; a sink failure never affects the
// write that produced the event.
type EventSink interface {
	RunCompleted(run *models.AuditRun)
	PlanCreated(plan *models.ActionPlan)
	PlanStatusChanged(plan *models.ActionPlan, previous models.PlanStatus)
	NotificationCreated(n *models.Notification)
}

type noopSink struct{}

func (noopSink) RunCompleted(*models.AuditRun)                             {}
func (noopSink) PlanCreated(*models.ActionPlan)                            {}
func (noopSink) PlanStatusChanged(*models.ActionPlan, models.PlanStatus)   {}
func (noopSink) NotificationCreated(*models.Notification)                  {}
