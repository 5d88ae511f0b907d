// audit/accounting.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CareO-HQ/careo-sub009/models"
)

// Read-side accounting over run and plan state. Nothing here is persisted or
// cached: overdue is recomputed from dueDate and status on every call, and
// Stats is a single full scan with an in-memory tally. Callers pay O(n) per
// call, which is fine at care-home scale.

// PlanStats is the dashboard tile payload for one team.
type PlanStats struct {
	Total            int `json:"total"`
	Pending          int `json:"pending"`
	InProgress       int `json:"inProgress"`
	Completed        int `json:"completed"`
	Overdue          int `json:"overdue"`
	HighPriorityOpen int `json:"highPriorityOpen"`
}

// IsOverdue is the single derived-overdue predicate: past its due date and
// not yet completed. There is no stored overdue status to disagree with it.
func IsOverdue(plan *models.ActionPlan, now time.Time) bool {
	if plan.DueDate == nil || plan.Status == models.PlanStatusCompleted {
		return false
	}
	return plan.DueDate.Before(now)
}

// OverdueByTeam returns the team's overdue plans.
func (s *Service) OverdueByTeam(ctx context.Context, orgID, teamID primitive.ObjectID) ([]models.ActionPlan, error) {
	plans, err := s.store.ListPlans(ctx, PlanFilter{OrganizationID: orgID, TeamID: teamID})
	if err != nil {
		return nil, err
	}
	now := time.Now()
	overdue := []models.ActionPlan{}
	for i := range plans {
		if IsOverdue(&plans[i], now) {
			overdue = append(overdue, plans[i])
		}
	}
	return overdue, nil
}

// Stats tallies the team's plans in one pass.
func (s *Service) Stats(ctx context.Context, orgID, teamID primitive.ObjectID) (*PlanStats, error) {
	plans, err := s.store.ListPlans(ctx, PlanFilter{OrganizationID: orgID, TeamID: teamID})
	if err != nil {
		return nil, err
	}
	now := time.Now()
	stats := &PlanStats{Total: len(plans)}
	for i := range plans {
		p := &plans[i]
		switch p.Status {
		case models.PlanStatusPending:
			stats.Pending++
		case models.PlanStatusInProgress:
			stats.InProgress++
		case models.PlanStatusCompleted:
			stats.Completed++
		}
		if IsOverdue(p, now) {
			stats.Overdue++
		}
		if p.Priority == models.PriorityHigh && p.Status != models.PlanStatusCompleted {
			stats.HighPriorityOpen++
		}
	}
	return stats, nil
}

// ItemOverdueCount counts a resident's overdue audit items. Due dates are ISO
// YYYY-MM-DD strings compared lexicographically against today; completed and
// n/a items never count.
func (s *Service) ItemOverdueCount(ctx context.Context, residentID primitive.ObjectID) (int, error) {
	items, err := s.store.ListResidentItems(ctx, residentID)
	if err != nil {
		return 0, err
	}
	today := time.Now().Format("2006-01-02")
	count := 0
	for _, item := range items {
		if item.DueDate == "" || item.DueDate >= today {
			continue
		}
		if item.Status == models.ResidentItemStatusCompleted || item.Status == models.ResidentItemStatusNotApplicable {
			continue
		}
		count++
	}
	return count, nil
}

// RecordResidentItem adds one flattened per-resident audit item.
func (s *Service) RecordResidentItem(ctx context.Context, item *models.ResidentAuditItem) error {
	now := time.Now()
	item.ID = primitive.NewObjectID()
	item.CreatedAt = now
	item.UpdatedAt = now
	return s.store.InsertResidentItem(ctx, item)
}

// ListResidentItems returns the resident's flattened audit items.
func (s *Service) ListResidentItems(ctx context.Context, residentID primitive.ObjectID) ([]models.ResidentAuditItem, error) {
	return s.store.ListResidentItems(ctx, residentID)
}
