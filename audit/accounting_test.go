package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CareO-HQ/careo-sub009/audit"
	"github.com/CareO-HQ/careo-sub009/models"
)

func TestIsOverdue(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	assert.True(t, audit.IsOverdue(&models.ActionPlan{
		Status: models.PlanStatusPending, DueDate: &yesterday,
	}, now))
	assert.False(t, audit.IsOverdue(&models.ActionPlan{
		Status: models.PlanStatusPending, DueDate: &tomorrow,
	}, now))
	assert.False(t, audit.IsOverdue(&models.ActionPlan{
		Status: models.PlanStatusCompleted, DueDate: &yesterday,
	}, now))
	assert.False(t, audit.IsOverdue(&models.ActionPlan{
		Status: models.PlanStatusPending,
	}, now))
}

func TestOverdueAndStats(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()
	scope := teamScope()

	tpl := mustCreateTemplate(t, s, models.CategoryResident, models.FrequencyMonthly, scope)
	draft, err := s.GetOrCreateDraft(ctx, tpl.ID, scope, nurse)
	require.NoError(t, err)
	run, err := s.CompleteRun(ctx, draft.ID, audit.CompleteRunInput{AuditedBy: nurse})
	require.NoError(t, err)

	yesterday := time.Now().Add(-24 * time.Hour)
	tomorrow := time.Now().Add(24 * time.Hour)

	newPlan := func(priority models.Priority, due *time.Time) *models.ActionPlan {
		plan, err := s.CreatePlan(ctx, audit.CreatePlanInput{
			RunID:       run.ID,
			TemplateID:  tpl.ID,
			Description: "Task",
			AssignedTo:  nurse.ID,
			Priority:    priority,
			DueDate:     due,
			Creator:     reviewer,
		})
		require.NoError(t, err)
		return plan
	}

	late := newPlan(models.PriorityHigh, &yesterday)
	newPlan(models.PriorityMedium, &tomorrow)
	done := newPlan(models.PriorityHigh, &yesterday)
	_, err = s.TransitionPlan(ctx, done.ID, models.PlanStatusCompleted, "done", nurse)
	require.NoError(t, err)
	inProg := newPlan(models.PriorityLow, nil)
	_, err = s.TransitionPlan(ctx, inProg.ID, models.PlanStatusInProgress, "started", nurse)
	require.NoError(t, err)

	overdue, err := s.OverdueByTeam(ctx, scope.OrganizationID, scope.TeamID)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, late.ID, overdue[0].ID)

	stats, err := s.Stats(ctx, scope.OrganizationID, scope.TeamID)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, 1, stats.HighPriorityOpen)

	// A different team sees an empty dashboard, not an error.
	other, err := s.OverdueByTeam(ctx, scope.OrganizationID, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestItemOverdueCount(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	scope := teamScope()
	residentID := primitive.NewObjectID()
	yesterday := time.Now().Add(-24 * time.Hour).Format("2006-01-02")
	tomorrow := time.Now().Add(24 * time.Hour).Format("2006-01-02")

	record := func(status, due string) {
		require.NoError(t, s.RecordResidentItem(ctx, &models.ResidentAuditItem{
			OrganizationID: scope.OrganizationID,
			TeamID:         scope.TeamID,
			ResidentID:     residentID,
			ItemName:       "Waterlow score",
			Status:         status,
			DueDate:        due,
		}))
	}

	record("pending", yesterday)
	record("pending", tomorrow)
	record(models.ResidentItemStatusCompleted, yesterday)
	record(models.ResidentItemStatusNotApplicable, yesterday)
	record("pending", "") // never scheduled, never overdue

	count, err := s.ItemOverdueCount(ctx, residentID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	items, err := s.ListResidentItems(ctx, residentID)
	require.NoError(t, err)
	assert.Len(t, items, 5)

	// Unknown residents have zero items, not an error.
	count, err = s.ItemOverdueCount(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Zero(t, count)
}
