// store/memory.go
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CareO-HQ/careo-sub009/audit"
	"github.com/CareO-HQ/careo-sub009/models"
)

// Memory implements audit.Store on mutex-guarded maps. It backs the engine's
// tests and local development without a MongoDB instance; the mutex gives it
// the same one-call-one-atomic-unit semantics as the Mongo store. Documents
// are copied on the way in and out so callers never alias stored state.
type Memory struct {
	mu            sync.Mutex
	templates     map[primitive.ObjectID]*models.Template
	runs          map[primitive.ObjectID]*models.AuditRun
	plans         map[primitive.ObjectID]*models.ActionPlan
	notifications map[primitive.ObjectID]*models.Notification
	residentItems map[primitive.ObjectID]*models.ResidentAuditItem
}

func NewMemory() *Memory {
	return &Memory{
		templates:     make(map[primitive.ObjectID]*models.Template),
		runs:          make(map[primitive.ObjectID]*models.AuditRun),
		plans:         make(map[primitive.ObjectID]*models.ActionPlan),
		notifications: make(map[primitive.ObjectID]*models.Notification),
		residentItems: make(map[primitive.ObjectID]*models.ResidentAuditItem),
	}
}

// --- templates ---

func (m *Memory) InsertTemplate(_ context.Context, t *models.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[t.ID] = copyTemplate(t)
	return nil
}

func (m *Memory) GetTemplate(_ context.Context, id primitive.ObjectID) (*models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: template %s", audit.ErrNotFound, id.Hex())
	}
	return copyTemplate(t), nil
}

func (m *Memory) PatchTemplate(_ context.Context, id primitive.ObjectID, patch audit.Patch) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[id]
	if !ok {
		return false, nil
	}
	applyTemplatePatch(t, patch)
	return true, nil
}

func (m *Memory) ListTemplates(_ context.Context, f audit.TemplateFilter) ([]models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Template{}
	for _, t := range m.templates {
		if !f.OrganizationID.IsZero() && t.OrganizationID != f.OrganizationID {
			continue
		}
		if !f.TeamID.IsZero() && t.TeamID != f.TeamID {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.ActiveOnly && !t.IsActive {
			continue
		}
		out = append(out, *copyTemplate(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) DeleteTemplateCascade(_ context.Context, id primitive.ObjectID) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var runs, plans int64
	for pid, p := range m.plans {
		if p.TemplateID == id {
			delete(m.plans, pid)
			plans++
		}
	}
	for rid, r := range m.runs {
		if r.TemplateID == id {
			delete(m.runs, rid)
			runs++
		}
	}
	delete(m.templates, id)
	return runs, plans, nil
}

// --- runs ---

func (m *Memory) FindOrCreateOpenRun(_ context.Context, candidate *models.AuditRun) (*models.AuditRun, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.runs {
		if r.TemplateID != candidate.TemplateID || r.OrganizationID != candidate.OrganizationID {
			continue
		}
		if !candidate.TeamID.IsZero() && r.TeamID != candidate.TeamID {
			continue
		}
		if r.Status != models.RunStatusCompleted {
			return copyRun(r), false, nil
		}
	}
	m.runs[candidate.ID] = copyRun(candidate)
	return copyRun(candidate), true, nil
}

func (m *Memory) GetRun(_ context.Context, id primitive.ObjectID) (*models.AuditRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: run %s", audit.ErrNotFound, id.Hex())
	}
	return copyRun(r), nil
}

func (m *Memory) PatchOpenRun(_ context.Context, id primitive.ObjectID, patch audit.Patch) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok || r.Status == models.RunStatusCompleted {
		return false, nil
	}
	applyRunPatch(r, patch)
	return true, nil
}

func (m *Memory) ListRuns(_ context.Context, f audit.RunFilter) ([]models.AuditRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.AuditRun{}
	for _, r := range m.runs {
		if !f.TemplateID.IsZero() && r.TemplateID != f.TemplateID {
			continue
		}
		if !f.OrganizationID.IsZero() && r.OrganizationID != f.OrganizationID {
			continue
		}
		if !f.TeamID.IsZero() && r.TeamID != f.TeamID {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, r.Status) {
			continue
		}
		out = append(out, *copyRun(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// --- action plans ---

func (m *Memory) InsertPlan(_ context.Context, p *models.ActionPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[p.ID] = copyPlan(p)
	return nil
}

func (m *Memory) GetPlan(_ context.Context, id primitive.ObjectID) (*models.ActionPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, fmt.Errorf("%w: plan %s", audit.ErrNotFound, id.Hex())
	}
	return copyPlan(p), nil
}

func (m *Memory) AppendPlanStatus(_ context.Context, id primitive.ObjectID, entry models.PlanStatusEntry, patch audit.Patch) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return false, nil
	}
	p.StatusHistory = append(p.StatusHistory, entry)
	applyPlanPatch(p, patch)
	return true, nil
}

func (m *Memory) PatchPlan(_ context.Context, id primitive.ObjectID, patch audit.Patch) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return false, nil
	}
	applyPlanPatch(p, patch)
	return true, nil
}

func (m *Memory) PatchPlansByAssignee(_ context.Context, assignee string, patch audit.Patch) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, p := range m.plans {
		if p.AssignedTo == assignee {
			applyPlanPatch(p, patch)
			n++
		}
	}
	return n, nil
}

func (m *Memory) DeletePlan(_ context.Context, id primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[id]; !ok {
		return false, nil
	}
	delete(m.plans, id)
	return true, nil
}

func (m *Memory) ListPlans(_ context.Context, f audit.PlanFilter) ([]models.ActionPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ActionPlan{}
	for _, p := range m.plans {
		if planMatches(p, f) {
			out = append(out, *copyPlan(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) CountPlans(_ context.Context, f audit.PlanFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, p := range m.plans {
		if planMatches(p, f) {
			n++
		}
	}
	return n, nil
}

func planMatches(p *models.ActionPlan, f audit.PlanFilter) bool {
	if !f.RunID.IsZero() && p.RunID != f.RunID {
		return false
	}
	if !f.TemplateID.IsZero() && p.TemplateID != f.TemplateID {
		return false
	}
	if !f.OrganizationID.IsZero() && p.OrganizationID != f.OrganizationID {
		return false
	}
	if !f.TeamID.IsZero() && p.TeamID != f.TeamID {
		return false
	}
	if f.AssignedTo != "" && p.AssignedTo != f.AssignedTo {
		return false
	}
	if f.UnreadOnly && !p.IsNew {
		return false
	}
	return true
}

// --- notifications ---

func (m *Memory) InsertNotification(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *n
	m.notifications[n.ID] = &cp
	return nil
}

func (m *Memory) ListNotificationsForUser(_ context.Context, userID string) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Notification{}
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) MarkNotificationRead(_ context.Context, id primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return false, nil
	}
	n.IsRead = true
	return true, nil
}

// --- resident audit items ---

func (m *Memory) InsertResidentItem(_ context.Context, item *models.ResidentAuditItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *item
	m.residentItems[item.ID] = &cp
	return nil
}

func (m *Memory) ListResidentItems(_ context.Context, residentID primitive.ObjectID) ([]models.ResidentAuditItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ResidentAuditItem{}
	for _, item := range m.residentItems {
		if item.ResidentID == residentID {
			out = append(out, *item)
		}
	}
	return out, nil
}

// --- patch application and copies ---

func applyTemplatePatch(t *models.Template, patch audit.Patch) {
	for key, value := range patch {
		switch key {
		case "name":
			t.Name = value.(string)
		case "frequency":
			t.Frequency = value.(models.Frequency)
		case "items":
			t.Items = append([]models.TemplateItem(nil), value.([]models.TemplateItem)...)
		case "isActive":
			t.IsActive = value.(bool)
		case "updatedAt":
			t.UpdatedAt = value.(time.Time)
		}
	}
}

func applyRunPatch(r *models.AuditRun, patch audit.Patch) {
	for key, value := range patch {
		switch key {
		case "items":
			r.Items = append([]models.RunItem(nil), value.([]models.RunItem)...)
		case "status":
			r.Status = value.(models.RunStatus)
		case "overallNotes":
			r.OverallNotes = value.(string)
		case "auditedBy":
			r.AuditedBy = value.(string)
		case "auditedByName":
			r.AuditedByName = value.(string)
		case "completedAt":
			t := value.(time.Time)
			r.CompletedAt = &t
		case "nextAuditDue":
			t := value.(time.Time)
			r.NextAuditDue = &t
		case "frequency":
			r.Frequency = value.(models.Frequency)
		case "updatedAt":
			r.UpdatedAt = value.(time.Time)
		}
	}
}

func applyPlanPatch(p *models.ActionPlan, patch audit.Patch) {
	for key, value := range patch {
		switch key {
		case "status":
			p.Status = value.(models.PlanStatus)
		case "latestComment":
			p.LatestComment = value.(string)
		case "isNew":
			p.IsNew = value.(bool)
		case "viewedAt":
			t := value.(time.Time)
			p.ViewedAt = &t
		case "completedAt":
			t := value.(time.Time)
			p.CompletedAt = &t
		case "updatedAt":
			p.UpdatedAt = value.(time.Time)
		}
	}
}

func copyTemplate(t *models.Template) *models.Template {
	cp := *t
	cp.Items = append([]models.TemplateItem(nil), t.Items...)
	return &cp
}

func copyRun(r *models.AuditRun) *models.AuditRun {
	cp := *r
	cp.Items = append([]models.RunItem(nil), r.Items...)
	return &cp
}

func copyPlan(p *models.ActionPlan) *models.ActionPlan {
	cp := *p
	cp.StatusHistory = append([]models.PlanStatusEntry(nil), p.StatusHistory...)
	return &cp
}

func containsStatus(statuses []models.RunStatus, st models.RunStatus) bool {
	for _, s := range statuses {
		if s == st {
			return true
		}
	}
	return false
}
