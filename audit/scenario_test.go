package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CareO-HQ/careo-sub009/audit"
	"github.com/CareO-HQ/careo-sub009/models"
)

// TestMonthlyAuditCycle walks one full compliance cycle: a manager publishes a
// monthly clinical template, a nurse fills in and completes a run, a failed
// check becomes a remediation plan, and the plan is worked to completion.
func TestMonthlyAuditCycle(t *testing.T) {
	s, _, sink := newTestService(t)
	ctx := context.Background()
	scope := orgScope()

	tpl, err := s.CreateTemplate(ctx, audit.CreateTemplateInput{
		Name:     "Infection control audit",
		Category: models.CategoryClinical,
		Items: []models.TemplateItem{
			{ItemID: "hands", Label: "Hand hygiene compliance", ItemType: models.ItemTypeCompliance},
			{ItemID: "ppe", Label: "PPE stock levels", ItemType: models.ItemTypeCompliance},
		},
		Frequency: models.FrequencyMonthly,
		Scope:     scope,
		Creator:   reviewer,
	})
	require.NoError(t, err)

	// Starting the audit twice lands on the same draft.
	draft, err := s.GetOrCreateDraft(ctx, tpl.ID, scope, nurse)
	require.NoError(t, err)
	again, err := s.GetOrCreateDraft(ctx, tpl.ID, scope, nurse)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, again.ID)

	// Partial answers autosave without finishing the run.
	_, err = s.UpdateRun(ctx, draft.ID, audit.UpdateRunInput{
		Items: []models.RunItem{
			{ItemID: "hands", ItemName: "Hand hygiene compliance", Status: models.ItemStatusCompliant},
		},
		Status: models.RunStatusInProgress,
	})
	require.NoError(t, err)

	run, err := s.CompleteRun(ctx, draft.ID, audit.CompleteRunInput{
		Items: []models.RunItem{
			{ItemID: "hands", ItemName: "Hand hygiene compliance", Status: models.ItemStatusCompliant},
			{ItemID: "ppe", ItemName: "PPE stock levels", Status: models.ItemStatusNonCompliant, Notes: "Gloves below minimum stock"},
		},
		OverallNotes: "PPE reorder needed",
		AuditedBy:    nurse,
	})
	require.NoError(t, err)
	require.NotNil(t, run.CompletedAt)
	require.NotNil(t, run.NextAuditDue)
	assert.Equal(t, 30*24*time.Hour, run.NextAuditDue.Sub(*run.CompletedAt))
	assert.Equal(t, models.FrequencyMonthly, run.Frequency)
	require.Len(t, sink.runsCompleted, 1)

	// The failed check becomes a high priority plan for the nurse.
	due := time.Now().Add(3 * 24 * time.Hour)
	plan, err := s.CreatePlan(ctx, audit.CreatePlanInput{
		RunID:          run.ID,
		TemplateID:     tpl.ID,
		Description:    "Reorder gloves and restock PPE stations",
		AssignedTo:     nurse.ID,
		AssignedToName: nurse.Name,
		Priority:       models.PriorityHigh,
		DueDate:        &due,
		Creator:        reviewer,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PlanStatusPending, plan.Status)
	assert.True(t, plan.IsNew)

	inbox, err := s.NotificationsForUser(ctx, nurse.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, models.NotificationTypePlanAssigned, inbox[0].Type)

	// The nurse works the plan to completion.
	plan, err = s.TransitionPlan(ctx, plan.ID, models.PlanStatusCompleted, "PPE restocked", nurse)
	require.NoError(t, err)
	require.NotNil(t, plan.CompletedAt)
	require.Len(t, plan.StatusHistory, 1)
	assert.Equal(t, models.PlanStatusCompleted, plan.StatusHistory[0].Status)

	creatorInbox, err := s.NotificationsForUser(ctx, reviewer.ID)
	require.NoError(t, err)
	require.Len(t, creatorInbox, 1)
	assert.Equal(t, models.NotificationTypePlanCompleted, creatorInbox[0].Type)

	// The cycle can start over: completion freed the open-run slot.
	next, err := s.GetOrCreateDraft(ctx, tpl.ID, scope, nurse)
	require.NoError(t, err)
	assert.NotEqual(t, run.ID, next.ID)
	assert.Equal(t, models.RunStatusDraft, next.Status)

	stats, err := s.Stats(ctx, scope.OrganizationID, scope.TeamID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Zero(t, stats.Overdue)
}
