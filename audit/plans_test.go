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

func seedCompletedRun(t *testing.T, s *audit.Service) (*models.Template, *models.AuditRun) {
	t.Helper()
	scope := orgScope()
	tpl := mustCreateTemplate(t, s, models.CategoryClinical, models.FrequencyMonthly, scope)
	draft, err := s.GetOrCreateDraft(context.Background(), tpl.ID, scope, nurse)
	require.NoError(t, err)
	run, err := s.CompleteRun(context.Background(), draft.ID, audit.CompleteRunInput{
		Items:     []models.RunItem{{ItemID: "a", ItemName: "Check a", Status: models.ItemStatusNonCompliant}},
		AuditedBy: nurse,
	})
	require.NoError(t, err)
	return tpl, run
}

func TestCreatePlanNotifiesAssignee(t *testing.T) {
	s, _, sink := newTestService(t)
	ctx := context.Background()

	tpl, run := seedCompletedRun(t, s)
	due := time.Now().Add(7 * 24 * time.Hour)

	plan, err := s.CreatePlan(ctx, audit.CreatePlanInput{
		RunID:          run.ID,
		TemplateID:     tpl.ID,
		Description:    "Re-train staff on record keeping",
		AssignedTo:     nurse.ID,
		AssignedToName: nurse.Name,
		Priority:       models.PriorityHigh,
		DueDate:        &due,
		Creator:        reviewer,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PlanStatusPending, plan.Status)
	assert.True(t, plan.IsNew)
	assert.Empty(t, plan.StatusHistory)
	assert.Nil(t, plan.CompletedAt)

	notifications, err := s.NotificationsForUser(ctx, nurse.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	n := notifications[0]
	assert.Equal(t, models.NotificationTypePlanAssigned, n.Type)
	assert.Contains(t, n.Message, tpl.Name)
	assert.Contains(t, n.Message, string(models.PriorityHigh))
	assert.Equal(t, plan.ID, n.Metadata.PlanID)
	assert.Equal(t, run.ID, n.Metadata.RunID)
	assert.False(t, n.IsRead)
	require.Len(t, sink.plansCreated, 1)
}

func TestCreatePlanValidation(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()
	tpl, run := seedCompletedRun(t, s)

	base := func() audit.CreatePlanInput {
		return audit.CreatePlanInput{
			RunID:       run.ID,
			TemplateID:  tpl.ID,
			Description: "Fix it",
			AssignedTo:  nurse.ID,
			Priority:    models.PriorityMedium,
			Creator:     reviewer,
		}
	}

	in := base()
	in.Description = ""
	_, err := s.CreatePlan(ctx, in)
	assert.ErrorIs(t, err, audit.ErrValidation)

	in = base()
	in.AssignedTo = ""
	_, err = s.CreatePlan(ctx, in)
	assert.ErrorIs(t, err, audit.ErrValidation)

	in = base()
	in.Priority = "Critical"
	_, err = s.CreatePlan(ctx, in)
	assert.ErrorIs(t, err, audit.ErrValidation)

	// Validation failures happen before any write: no notification leaked.
	notifications, err := s.NotificationsForUser(ctx, nurse.ID)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestTransitionHistoryIsAppendOnlyAndConsistent(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()
	tpl, run := seedCompletedRun(t, s)

	plan, err := s.CreatePlan(ctx, audit.CreatePlanInput{
		RunID:       run.ID,
		TemplateID:  tpl.ID,
		Description: "Order replacement thermometers",
		AssignedTo:  nurse.ID,
		Priority:    models.PriorityMedium,
		Creator:     reviewer,
	})
	require.NoError(t, err)

	steps := []struct {
		status  models.PlanStatus
		comment string
	}{
		{models.PlanStatusInProgress, "ordered"},
		{models.PlanStatusPending, "supplier delay"},
		{models.PlanStatusInProgress, "delivered, installing"},
		{models.PlanStatusCompleted, "installed"},
	}

	for _, step := range steps {
		plan, err = s.TransitionPlan(ctx, plan.ID, step.status, step.comment, nurse)
		require.NoError(t, err)
		last := plan.StatusHistory[len(plan.StatusHistory)-1]
		assert.Equal(t, plan.Status, last.Status)
		assert.Equal(t, plan.LatestComment, last.Comment)
	}

	require.Len(t, plan.StatusHistory, len(steps))
	for i, step := range steps {
		assert.Equal(t, step.status, plan.StatusHistory[i].Status)
		assert.Equal(t, step.comment, plan.StatusHistory[i].Comment)
	}
	require.NotNil(t, plan.CompletedAt)
}

func TestTransitionRejectsOverdueAndTerminalPlans(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()
	tpl, run := seedCompletedRun(t, s)

	plan, err := s.CreatePlan(ctx, audit.CreatePlanInput{
		RunID:       run.ID,
		TemplateID:  tpl.ID,
		Description: "Deep clean sluice room",
		AssignedTo:  nurse.ID,
		Priority:    models.PriorityLow,
		Creator:     reviewer,
	})
	require.NoError(t, err)

	// Overdue is derived, never a transition target.
	_, err = s.TransitionPlan(ctx, plan.ID, "overdue", "late", nurse)
	assert.ErrorIs(t, err, audit.ErrInvalidState)

	plan, err = s.TransitionPlan(ctx, plan.ID, models.PlanStatusCompleted, "done", nurse)
	require.NoError(t, err)

	_, err = s.TransitionPlan(ctx, plan.ID, models.PlanStatusInProgress, "reopening", nurse)
	assert.ErrorIs(t, err, audit.ErrInvalidState)

	// The rejected calls left no trace in the history.
	got, err := s.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Len(t, got.StatusHistory, 1)
}

func TestCompletionNotifiesTheCreator(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()
	tpl, run := seedCompletedRun(t, s)

	plan, err := s.CreatePlan(ctx, audit.CreatePlanInput{
		RunID:       run.ID,
		TemplateID:  tpl.ID,
		Description: "Replace expired dressings",
		AssignedTo:  nurse.ID,
		Priority:    models.PriorityHigh,
		Creator:     reviewer,
	})
	require.NoError(t, err)

	// An intermediate transition notifies nobody new.
	_, err = s.TransitionPlan(ctx, plan.ID, models.PlanStatusInProgress, "started", nurse)
	require.NoError(t, err)
	creatorInbox, err := s.NotificationsForUser(ctx, reviewer.ID)
	require.NoError(t, err)
	assert.Empty(t, creatorInbox)

	_, err = s.TransitionPlan(ctx, plan.ID, models.PlanStatusCompleted, "all replaced", nurse)
	require.NoError(t, err)

	creatorInbox, err = s.NotificationsForUser(ctx, reviewer.ID)
	require.NoError(t, err)
	require.Len(t, creatorInbox, 1)
	assert.Equal(t, models.NotificationTypePlanCompleted, creatorInbox[0].Type)
	assert.Equal(t, nurse.ID, creatorInbox[0].SenderID)
}

func TestViewedFlags(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()
	tpl, run := seedCompletedRun(t, s)

	var planIDs []models.ActionPlan
	for i := 0; i < 3; i++ {
		plan, err := s.CreatePlan(ctx, audit.CreatePlanInput{
			RunID:       run.ID,
			TemplateID:  tpl.ID,
			Description: "Task",
			AssignedTo:  nurse.ID,
			Priority:    models.PriorityLow,
			Creator:     reviewer,
		})
		require.NoError(t, err)
		planIDs = append(planIDs, *plan)
	}

	unread, err := s.CountUnreadForAssignee(ctx, nurse.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), unread)

	require.NoError(t, s.MarkPlanViewed(ctx, planIDs[0].ID))
	unread, err = s.CountUnreadForAssignee(ctx, nurse.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	got, err := s.GetPlan(ctx, planIDs[0].ID)
	require.NoError(t, err)
	assert.False(t, got.IsNew)
	assert.NotNil(t, got.ViewedAt)

	n, err := s.MarkAllViewedForAssignee(ctx, nurse.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	unread, err = s.CountUnreadForAssignee(ctx, nurse.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestDeletePlanIsHardAndKeepsNotifications(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()
	tpl, run := seedCompletedRun(t, s)

	plan, err := s.CreatePlan(ctx, audit.CreatePlanInput{
		RunID:       run.ID,
		TemplateID:  tpl.ID,
		Description: "Label medicine fridge",
		AssignedTo:  nurse.ID,
		Priority:    models.PriorityLow,
		Creator:     reviewer,
	})
	require.NoError(t, err)

	require.NoError(t, s.DeletePlan(ctx, plan.ID))
	_, err = s.GetPlan(ctx, plan.ID)
	assert.ErrorIs(t, err, audit.ErrNotFound)
	assert.ErrorIs(t, s.DeletePlan(ctx, plan.ID), audit.ErrNotFound)

	// The assignment notification is not retracted.
	notifications, err := s.NotificationsForUser(ctx, nurse.ID)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
}

func TestPlanReads(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()
	tpl, run := seedCompletedRun(t, s)

	for i := 0; i < 2; i++ {
		_, err := s.CreatePlan(ctx, audit.CreatePlanInput{
			RunID:       run.ID,
			TemplateID:  tpl.ID,
			Description: "Task",
			AssignedTo:  nurse.ID,
			Priority:    models.PriorityMedium,
			Creator:     reviewer,
		})
		require.NoError(t, err)
	}

	byRun, err := s.PlansByRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Len(t, byRun, 2)

	byTemplate, err := s.PlansByTemplate(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Len(t, byTemplate, 2)

	byAssignee, err := s.PlansByAssignee(ctx, nurse.ID, run.OrganizationID)
	require.NoError(t, err)
	assert.Len(t, byAssignee, 2)

	otherOrg, err := s.PlansByAssignee(ctx, nurse.ID, orgScope().OrganizationID)
	require.NoError(t, err)
	assert.Empty(t, otherOrg)

	count, err := s.CountPlansByRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
