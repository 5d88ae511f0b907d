// audit/runs.go
package audit

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CareO-HQ/careo-sub009/models"
)

type UpdateRunInput struct {
	Items        []models.RunItem
	Status       models.RunStatus
	OverallNotes string
}

type CompleteRunInput struct {
	Items        []models.RunItem
	OverallNotes string
	AuditedBy    Actor
}

// GetOrCreateDraft returns the single non-terminal run for (template, scope),
// creating an empty draft if none exists. Existence check and insert are one
// atomic store call, so concurrent callers can never produce two open runs.
func (s *Service) GetOrCreateDraft(ctx context.Context, templateID primitive.ObjectID, scope Scope, auditedBy Actor) (*models.AuditRun, error) {
	t, err := s.store.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	rule, err := RuleFor(t.Category)
	if err != nil {
		return nil, err
	}
	if err := ValidateScope(t.Category, scope); err != nil {
		return nil, err
	}

	now := time.Now()
	candidate := &models.AuditRun{
		ID:             primitive.NewObjectID(),
		TemplateID:     t.ID,
		OrganizationID: scope.OrganizationID,
		TemplateName:   t.Name,
		Category:       t.Category,
		Status:         models.RunStatusDraft,
		Items:          []models.RunItem{},
		AuditedBy:      auditedBy.ID,
		AuditedByName:  auditedBy.Name,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if rule.TeamScoped {
		candidate.TeamID = scope.TeamID
	}

	run, _, err := s.store.FindOrCreateOpenRun(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("find or create draft: %w", err)
	}
	return run, nil
}

// UpdateRun replaces the mutable fields of a non-terminal run. It is used for
// both autosave and manual promotion to in-progress; a completed run rejects
// any further update, and completion itself only happens through CompleteRun.
func (s *Service) UpdateRun(ctx context.Context, runID primitive.ObjectID, in UpdateRunInput) (*models.AuditRun, error) {
	switch in.Status {
	case models.RunStatusDraft, models.RunStatusInProgress:
	case models.RunStatusCompleted:
		return nil, fmt.Errorf("%w: runs are completed through the complete operation", ErrInvalidState)
	default:
		return nil, fmt.Errorf("%w: unknown run status %q", ErrValidation, in.Status)
	}
	if in.Items == nil {
		in.Items = []models.RunItem{}
	}

	patch := Patch{
		"items":        in.Items,
		"status":       in.Status,
		"overallNotes": in.OverallNotes,
		"updatedAt":    time.Now(),
	}
	matched, err := s.store.PatchOpenRun(ctx, runID, patch)
	if err != nil {
		return nil, fmt.Errorf("update run: %w", err)
	}
	if !matched {
		return nil, s.openRunMismatch(ctx, runID)
	}
	return s.store.GetRun(ctx, runID)
}

// CompleteRun moves the run to its terminal state exactly once: it stamps
// completedAt, snapshots the template's current frequency onto the run, and
// schedules nextAuditDue from the frequency policy. Completing an already
// completed run is an invalid-state error, not a no-op.
func (s *Service) CompleteRun(ctx context.Context, runID primitive.ObjectID, in CompleteRunInput) (*models.AuditRun, error) {
	run, err := s.store.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	t, err := s.store.GetTemplate(ctx, run.TemplateID)
	if err != nil {
		return nil, err
	}
	if in.Items == nil {
		in.Items = []models.RunItem{}
	}

	now := time.Now()
	patch := Patch{
		"items":         in.Items,
		"overallNotes":  in.OverallNotes,
		"status":        models.RunStatusCompleted,
		"auditedBy":     in.AuditedBy.ID,
		"auditedByName": in.AuditedBy.Name,
		"completedAt":   now,
		"nextAuditDue":  NextDue(now, t.Frequency),
		"frequency":     t.Frequency,
		"updatedAt":     now,
	}
	matched, err := s.store.PatchOpenRun(ctx, runID, patch)
	if err != nil {
		return nil, fmt.Errorf("complete run: %w", err)
	}
	if !matched {
		return nil, fmt.Errorf("%w: run %s is already completed", ErrInvalidState, runID.Hex())
	}

	completed, err := s.store.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	s.events.RunCompleted(completed)
	return completed, nil
}

func (s *Service) GetRun(ctx context.Context, id primitive.ObjectID) (*models.AuditRun, error) {
	return s.store.GetRun(ctx, id)
}

// ListOpenRuns lists a template's draft and in-progress runs in the given
// scope, newest first. Under the one-open-run invariant this returns at most
// one run, but the read contract does not depend on it.
func (s *Service) ListOpenRuns(ctx context.Context, templateID primitive.ObjectID, scope Scope) ([]models.AuditRun, error) {
	return s.store.ListRuns(ctx, RunFilter{
		TemplateID:     templateID,
		OrganizationID: scope.OrganizationID,
		TeamID:         scope.TeamID,
		Statuses:       []models.RunStatus{models.RunStatusDraft, models.RunStatusInProgress},
	})
}

// ListCompletedRuns returns the template's last limit completed runs in the
// given scope, newest first.
func (s *Service) ListCompletedRuns(ctx context.Context, templateID primitive.ObjectID, scope Scope, limit int) ([]models.AuditRun, error) {
	return s.store.ListRuns(ctx, RunFilter{
		TemplateID:     templateID,
		OrganizationID: scope.OrganizationID,
		TeamID:         scope.TeamID,
		Statuses:       []models.RunStatus{models.RunStatusCompleted},
		Limit:          limit,
	})
}

// LatestCompletedByTemplate returns the single most recent completed run per
// template across the organization, for the compliance overview dashboard.
func (s *Service) LatestCompletedByTemplate(ctx context.Context, orgID primitive.ObjectID) (map[primitive.ObjectID]models.AuditRun, error) {
	runs, err := s.store.ListRuns(ctx, RunFilter{
		OrganizationID: orgID,
		Statuses:       []models.RunStatus{models.RunStatusCompleted},
	})
	if err != nil {
		return nil, err
	}
	latest := make(map[primitive.ObjectID]models.AuditRun)
	for _, run := range runs {
		prev, ok := latest[run.TemplateID]
		if !ok || runCompletedAfter(run, prev) {
			latest[run.TemplateID] = run
		}
	}
	return latest, nil
}

func runCompletedAfter(a, b models.AuditRun) bool {
	if a.CompletedAt == nil {
		return false
	}
	if b.CompletedAt == nil {
		return true
	}
	return a.CompletedAt.After(*b.CompletedAt)
}

// openRunMismatch distinguishes a missing run from a completed one after a
// guarded patch matched nothing.
func (s *Service) openRunMismatch(ctx context.Context, runID primitive.ObjectID) error {
	if _, err := s.store.GetRun(ctx, runID); err != nil {
		return err
	}
	return fmt.Errorf("%w: run %s is completed and can no longer change", ErrInvalidState, runID.Hex())
}
