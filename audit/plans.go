// audit/plans.go
package audit

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CareO-HQ/careo-sub009/models"
)

type CreatePlanInput struct {
	RunID          primitive.ObjectID
	TemplateID     primitive.ObjectID
	Description    string
	AssignedTo     string
	AssignedToName string
	Priority       models.Priority
	DueDate        *time.Time
	Creator        Actor
}

// CreatePlan raises a remediation task against a run. The plan starts pending
// with an empty history and an unread flag, and the assignee is notified with
// the template's display name, the priority and the due date.
func (s *Service) CreatePlan(ctx context.Context, in CreatePlanInput) (*models.ActionPlan, error) {
	if in.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if in.AssignedTo == "" {
		return nil, fmt.Errorf("%w: an assignee is required", ErrValidation)
	}
	if !validPriority(in.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, in.Priority)
	}

	run, err := s.store.GetRun(ctx, in.RunID)
	if err != nil {
		return nil, err
	}
	t, err := s.store.GetTemplate(ctx, in.TemplateID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	plan := &models.ActionPlan{
		ID:             primitive.NewObjectID(),
		RunID:          run.ID,
		TemplateID:     t.ID,
		OrganizationID: run.OrganizationID,
		TeamID:         run.TeamID,
		Description:    in.Description,
		AssignedTo:     in.AssignedTo,
		AssignedToName: in.AssignedToName,
		Priority:       in.Priority,
		DueDate:        in.DueDate,
		Status:         models.PlanStatusPending,
		StatusHistory:  []models.PlanStatusEntry{},
		IsNew:          true,
		CreatedBy:      in.Creator.ID,
		CreatedByName:  in.Creator.Name,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.InsertPlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("insert action plan: %w", err)
	}

	s.notifyPlanAssigned(ctx, plan, t.Name)
	s.events.PlanCreated(plan)
	return plan, nil
}

// TransitionPlan appends one entry to the plan's status history and mirrors
// it onto the denormalized status and latestComment fields in a single atomic
// write. Reaching completed stamps completedAt and notifies the plan's
// creator; other transitions have no side channel.
func (s *Service) TransitionPlan(ctx context.Context, planID primitive.ObjectID, newStatus models.PlanStatus, comment string, updatedBy Actor) (*models.ActionPlan, error) {
	if !validPlanStatus(newStatus) {
		return nil, fmt.Errorf("%w: %q is not a valid plan status (overdue is derived, never stored)", ErrInvalidState, newStatus)
	}

	current, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if current.Status == models.PlanStatusCompleted {
		return nil, fmt.Errorf("%w: plan %s is already completed", ErrInvalidState, planID.Hex())
	}

	now := time.Now()
	entry := models.PlanStatusEntry{
		Status:        newStatus,
		Comment:       comment,
		UpdatedBy:     updatedBy.ID,
		UpdatedByName: updatedBy.Name,
		UpdatedAt:     now,
	}
	patch := Patch{
		"status":        newStatus,
		"latestComment": comment,
		"updatedAt":     now,
	}
	if newStatus == models.PlanStatusCompleted {
		patch["completedAt"] = now
	}

	matched, err := s.store.AppendPlanStatus(ctx, planID, entry, patch)
	if err != nil {
		return nil, fmt.Errorf("transition plan: %w", err)
	}
	if !matched {
		return nil, fmt.Errorf("%w: plan %s", ErrNotFound, planID.Hex())
	}

	updated, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if newStatus == models.PlanStatusCompleted {
		s.notifyPlanCompleted(ctx, updated, updatedBy)
	}
	s.events.PlanStatusChanged(updated, current.Status)
	return updated, nil
}

// MarkPlanViewed clears the assignee's unread flag.
func (s *Service) MarkPlanViewed(ctx context.Context, planID primitive.ObjectID) error {
	matched, err := s.store.PatchPlan(ctx, planID, Patch{
		"isNew":    false,
		"viewedAt": time.Now(),
	})
	if err != nil {
		return fmt.Errorf("mark plan viewed: %w", err)
	}
	if !matched {
		return fmt.Errorf("%w: plan %s", ErrNotFound, planID.Hex())
	}
	return nil
}

// MarkAllViewedForAssignee clears every unread flag for the assignee and
// returns how many plans were touched.
func (s *Service) MarkAllViewedForAssignee(ctx context.Context, assignee string) (int64, error) {
	if assignee == "" {
		return 0, fmt.Errorf("%w: an assignee is required", ErrValidation)
	}
	n, err := s.store.PatchPlansByAssignee(ctx, assignee, Patch{
		"isNew":    false,
		"viewedAt": time.Now(),
	})
	if err != nil {
		return 0, fmt.Errorf("mark all viewed: %w", err)
	}
	return n, nil
}

// DeletePlan hard-deletes a plan. Notifications already emitted for it are
// not retracted.
func (s *Service) DeletePlan(ctx context.Context, planID primitive.ObjectID) error {
	deleted, err := s.store.DeletePlan(ctx, planID)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: plan %s", ErrNotFound, planID.Hex())
	}
	return nil
}

func (s *Service) GetPlan(ctx context.Context, id primitive.ObjectID) (*models.ActionPlan, error) {
	return s.store.GetPlan(ctx, id)
}

func (s *Service) PlansByRun(ctx context.Context, runID primitive.ObjectID) ([]models.ActionPlan, error) {
	return s.store.ListPlans(ctx, PlanFilter{RunID: runID})
}

func (s *Service) PlansByTemplate(ctx context.Context, templateID primitive.ObjectID) ([]models.ActionPlan, error) {
	return s.store.ListPlans(ctx, PlanFilter{TemplateID: templateID})
}

// PlansByAssignee lists a user's plans, optionally limited to one
// organization (zero orgID means all).
func (s *Service) PlansByAssignee(ctx context.Context, assignee string, orgID primitive.ObjectID) ([]models.ActionPlan, error) {
	if assignee == "" {
		return nil, fmt.Errorf("%w: an assignee is required", ErrValidation)
	}
	return s.store.ListPlans(ctx, PlanFilter{AssignedTo: assignee, OrganizationID: orgID})
}

// CountPlansByRun backs the per-run badge on the audit history screen.
func (s *Service) CountPlansByRun(ctx context.Context, runID primitive.ObjectID) (int64, error) {
	return s.store.CountPlans(ctx, PlanFilter{RunID: runID})
}

// CountUnreadForAssignee backs the assignee's unread badge.
func (s *Service) CountUnreadForAssignee(ctx context.Context, assignee string) (int64, error) {
	if assignee == "" {
		return 0, fmt.Errorf("%w: an assignee is required", ErrValidation)
	}
	return s.store.CountPlans(ctx, PlanFilter{AssignedTo: assignee, UnreadOnly: true})
}

func validPlanStatus(st models.PlanStatus) bool {
	switch st {
	case models.PlanStatusPending, models.PlanStatusInProgress, models.PlanStatusCompleted:
		return true
	}
	return false
}

func validPriority(p models.Priority) bool {
	switch p {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return true
	}
	return false
}
