// audit/category.go
package audit

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CareO-HQ/careo-sub009/models"
)

// Scope is the organizational boundary a template and its runs belong to.
// TeamID only participates for team-scoped categories.
type Scope struct {
	OrganizationID primitive.ObjectID
	TeamID         primitive.ObjectID
}

// CategoryRule configures per-category behavior. One table replaces the four
// near-identical category services of the old system: everything downstream is
// parameterized by the rule instead of copy-pasted per category.
type CategoryRule struct {
	// TeamScoped templates (and their runs) are bound to a team; the rest
	// are visible organization-wide.
	TeamScoped bool

	// ValidateItems is injected category-specific item validation, run on
	// template create/update after the generic checks. Nil means no extra
	// rule.
	ValidateItems func(items []models.TemplateItem) error
}

var categoryRules = map[models.Category]CategoryRule{
	models.CategoryResident:    {TeamScoped: true},
	models.CategoryCareFile:    {TeamScoped: true},
	models.CategoryGovernance:  {TeamScoped: false},
	models.CategoryClinical:    {TeamScoped: false, ValidateItems: requireComplianceItem},
	models.CategoryEnvironment: {TeamScoped: false, ValidateItems: requireComplianceItem},
}

// Clinical and environment checklists exist to produce compliance findings;
// a checklist without a single compliance item can never raise one.
func requireComplianceItem(items []models.TemplateItem) error {
	for _, it := range items {
		if it.ItemType == models.ItemTypeCompliance {
			return nil
		}
	}
	return fmt.Errorf("%w: at least one compliance item is required", ErrValidation)
}

// RuleFor returns the category's rule, or ErrValidation for an unknown
// category.
func RuleFor(category models.Category) (CategoryRule, error) {
	rule, ok := categoryRules[category]
	if !ok {
		return CategoryRule{}, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	return rule, nil
}

// ValidateScope checks that a scope satisfies the category's rule. Team-scoped
// categories require a team id; org-scoped categories ignore it.
func ValidateScope(category models.Category, scope Scope) error {
	rule, err := RuleFor(category)
	if err != nil {
		return err
	}
	if scope.OrganizationID.IsZero() {
		return fmt.Errorf("%w: organization id is required", ErrValidation)
	}
	if rule.TeamScoped && scope.TeamID.IsZero() {
		return fmt.Errorf("%w: category %q is team-scoped and requires a team id", ErrValidation, category)
	}
	return nil
}

func validItemType(t models.ItemType) bool {
	switch t {
	case models.ItemTypeCompliance, models.ItemTypeCheckbox, models.ItemTypeNotes, models.ItemTypeYesNo:
		return true
	}
	return false
}
