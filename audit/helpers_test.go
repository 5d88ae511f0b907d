package audit_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CareO-HQ/careo-sub009/audit"
	"github.com/CareO-HQ/careo-sub009/models"
	"github.com/CareO-HQ/careo-sub009/store"
)

var (
	reviewer = audit.Actor{ID: "user-reviewer", Name: "Rita Reviewer"}
	nurse    = audit.Actor{ID: "nurse@x", Name: "Nina Nurse"}
)

// recordingSink captures engine events for assertions.
type recordingSink struct {
	mu            sync.Mutex
	runsCompleted []models.AuditRun
	plansCreated  []models.ActionPlan
	statusChanges []models.PlanStatus
	notifications []models.Notification
}

func (r *recordingSink) RunCompleted(run *models.AuditRun) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runsCompleted = append(r.runsCompleted, *run)
}

func (r *recordingSink) PlanCreated(plan *models.ActionPlan) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plansCreated = append(r.plansCreated, *plan)
}

func (r *recordingSink) PlanStatusChanged(plan *models.ActionPlan, _ models.PlanStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statusChanges = append(r.statusChanges, plan.Status)
}

func (r *recordingSink) NotificationCreated(n *models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, *n)
}

func newTestService(t *testing.T) (*audit.Service, *store.Memory, *recordingSink) {
	t.Helper()
	mem := store.NewMemory()
	sink := &recordingSink{}
	return audit.NewService(mem, sink), mem, sink
}

func orgScope() audit.Scope {
	return audit.Scope{OrganizationID: primitive.NewObjectID()}
}

func teamScope() audit.Scope {
	return audit.Scope{
		OrganizationID: primitive.NewObjectID(),
		TeamID:         primitive.NewObjectID(),
	}
}

func complianceItems(ids ...string) []models.TemplateItem {
	items := make([]models.TemplateItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, models.TemplateItem{
			ItemID:   id,
			Label:    "Check " + id,
			ItemType: models.ItemTypeCompliance,
		})
	}
	return items
}

func mustCreateTemplate(t *testing.T, s *audit.Service, category models.Category, freq models.Frequency, scope audit.Scope) *models.Template {
	t.Helper()
	tpl, err := s.CreateTemplate(context.Background(), audit.CreateTemplateInput{
		Name:      "Medication audit",
		Category:  category,
		Items:     complianceItems("a", "b"),
		Frequency: freq,
		Scope:     scope,
		Creator:   reviewer,
	})
	require.NoError(t, err)
	return tpl
}
