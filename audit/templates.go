// audit/templates.go
package audit

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CareO-HQ/careo-sub009/models"
)

type CreateTemplateInput struct {
	Name      string
	Category  models.Category
	Items     []models.TemplateItem
	Frequency models.Frequency
	Scope     Scope
	Creator   Actor
}

type UpdateTemplateInput struct {
	Name      *string
	Items     []models.TemplateItem // nil means leave unchanged
	Frequency *models.Frequency
}

// CascadeResult reports what a cascade delete actually removed.
type CascadeResult struct {
	RunsDeleted  int64 `json:"runsDeleted"`
	PlansDeleted int64 `json:"plansDeleted"`
}

// CreateTemplate validates the vocabulary and the category's scope rule, then
// inserts a new active template.
func (s *Service) CreateTemplate(ctx context.Context, in CreateTemplateInput) (*models.Template, error) {
	rule, err := RuleFor(in.Category)
	if err != nil {
		return nil, err
	}
	if err := ValidateScope(in.Category, in.Scope); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: template name is required", ErrValidation)
	}
	if !validFrequency(in.Frequency) {
		return nil, fmt.Errorf("%w: unknown frequency %q", ErrValidation, in.Frequency)
	}
	if err := validateItems(in.Items, rule); err != nil {
		return nil, err
	}

	now := time.Now()
	t := &models.Template{
		ID:             primitive.NewObjectID(),
		OrganizationID: in.Scope.OrganizationID,
		Name:           in.Name,
		Category:       in.Category,
		Items:          in.Items,
		Frequency:      in.Frequency,
		IsActive:       true,
		CreatedBy:      in.Creator.ID,
		CreatedByName:  in.Creator.Name,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if rule.TeamScoped {
		t.TeamID = in.Scope.TeamID
	}

	if err := s.store.InsertTemplate(ctx, t); err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}
	return t, nil
}

// UpdateTemplate patches the given fields. Existing runs are never touched:
// they snapshot item names and frequency at write time.
func (s *Service) UpdateTemplate(ctx context.Context, id primitive.ObjectID, in UpdateTemplateInput) (*models.Template, error) {
	current, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	rule, err := RuleFor(current.Category)
	if err != nil {
		return nil, err
	}

	patch := Patch{"updatedAt": time.Now()}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, fmt.Errorf("%w: template name cannot be empty", ErrValidation)
		}
		patch["name"] = *in.Name
	}
	if in.Frequency != nil {
		if !validFrequency(*in.Frequency) {
			return nil, fmt.Errorf("%w: unknown frequency %q", ErrValidation, *in.Frequency)
		}
		patch["frequency"] = *in.Frequency
	}
	if in.Items != nil {
		if err := validateItems(in.Items, rule); err != nil {
			return nil, err
		}
		patch["items"] = in.Items
	}

	matched, err := s.store.PatchTemplate(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("patch template: %w", err)
	}
	if !matched {
		return nil, fmt.Errorf("%w: template %s", ErrNotFound, id.Hex())
	}
	return s.store.GetTemplate(ctx, id)
}

func (s *Service) GetTemplate(ctx context.Context, id primitive.ObjectID) (*models.Template, error) {
	return s.store.GetTemplate(ctx, id)
}

// ListActiveTemplates returns active templates visible in the given scope.
// Team-scoped categories filter by team; org-scoped ones by organization
// only. An empty category lists every category visible to the scope.
func (s *Service) ListActiveTemplates(ctx context.Context, category models.Category, scope Scope) ([]models.Template, error) {
	f := TemplateFilter{
		OrganizationID: scope.OrganizationID,
		ActiveOnly:     true,
	}
	if category != "" {
		rule, err := RuleFor(category)
		if err != nil {
			return nil, err
		}
		f.Category = category
		if rule.TeamScoped {
			f.TeamID = scope.TeamID
		}
	}
	return s.store.ListTemplates(ctx, f)
}

// ArchiveTemplate soft-deletes: the template disappears from active listings
// while every historical run and plan stays intact.
func (s *Service) ArchiveTemplate(ctx context.Context, id primitive.ObjectID) error {
	matched, err := s.store.PatchTemplate(ctx, id, Patch{"isActive": false, "updatedAt": time.Now()})
	if err != nil {
		return fmt.Errorf("archive template: %w", err)
	}
	if !matched {
		return fmt.Errorf("%w: template %s", ErrNotFound, id.Hex())
	}
	return nil
}

// DeleteTemplateCascade is the opt-in hard delete: it removes the template
// together with every run and plan that references it and reports the counts.
func (s *Service) DeleteTemplateCascade(ctx context.Context, id primitive.ObjectID) (*CascadeResult, error) {
	if _, err := s.store.GetTemplate(ctx, id); err != nil {
		return nil, err
	}
	runs, plans, err := s.store.DeleteTemplateCascade(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cascade delete template: %w", err)
	}
	return &CascadeResult{RunsDeleted: runs, PlansDeleted: plans}, nil
}

func validateItems(items []models.TemplateItem, rule CategoryRule) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: template needs at least one item", ErrValidation)
	}
	seen := make(map[string]bool, len(items))
	for i, it := range items {
		if it.ItemID == "" {
			return fmt.Errorf("%w: item %d is missing an id", ErrValidation, i)
		}
		if seen[it.ItemID] {
			return fmt.Errorf("%w: duplicate item id %q", ErrValidation, it.ItemID)
		}
		seen[it.ItemID] = true
		if it.Label == "" {
			return fmt.Errorf("%w: item %q is missing a label", ErrValidation, it.ItemID)
		}
		if !validItemType(it.ItemType) {
			return fmt.Errorf("%w: item %q has unknown type %q", ErrValidation, it.ItemID, it.ItemType)
		}
	}
	if rule.ValidateItems != nil {
		return rule.ValidateItems(items)
	}
	return nil
}
