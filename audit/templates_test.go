package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CareO-HQ/careo-sub009/audit"
	"github.com/CareO-HQ/careo-sub009/models"
)

func TestCreateTemplateValidation(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	base := func() audit.CreateTemplateInput {
		return audit.CreateTemplateInput{
			Name:      "Infection control",
			Category:  models.CategoryClinical,
			Items:     complianceItems("a", "b"),
			Frequency: models.FrequencyMonthly,
			Scope:     orgScope(),
			Creator:   reviewer,
		}
	}

	t.Run("happy path", func(t *testing.T) {
		tpl, err := s.CreateTemplate(ctx, base())
		require.NoError(t, err)
		assert.True(t, tpl.IsActive)
		assert.False(t, tpl.ID.IsZero())
	})

	t.Run("unknown category", func(t *testing.T) {
		in := base()
		in.Category = "finance"
		_, err := s.CreateTemplate(ctx, in)
		assert.ErrorIs(t, err, audit.ErrValidation)
	})

	t.Run("unknown frequency", func(t *testing.T) {
		in := base()
		in.Frequency = "biweekly"
		_, err := s.CreateTemplate(ctx, in)
		assert.ErrorIs(t, err, audit.ErrValidation)
	})

	t.Run("duplicate item ids", func(t *testing.T) {
		in := base()
		in.Items = complianceItems("a", "a")
		_, err := s.CreateTemplate(ctx, in)
		assert.ErrorIs(t, err, audit.ErrValidation)
	})

	t.Run("no items", func(t *testing.T) {
		in := base()
		in.Items = nil
		_, err := s.CreateTemplate(ctx, in)
		assert.ErrorIs(t, err, audit.ErrValidation)
	})

	t.Run("team-scoped category requires a team", func(t *testing.T) {
		in := base()
		in.Category = models.CategoryResident
		in.Scope = orgScope() // no team id
		_, err := s.CreateTemplate(ctx, in)
		assert.ErrorIs(t, err, audit.ErrValidation)
	})

	t.Run("clinical requires a compliance item", func(t *testing.T) {
		in := base()
		in.Items = []models.TemplateItem{
			{ItemID: "n1", Label: "Notes only", ItemType: models.ItemTypeNotes},
		}
		_, err := s.CreateTemplate(ctx, in)
		assert.ErrorIs(t, err, audit.ErrValidation)
	})
}

func TestListActiveTemplatesFiltersByScopeAndCategory(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	scope := teamScope()
	otherTeam := audit.Scope{OrganizationID: scope.OrganizationID, TeamID: teamScope().TeamID}

	mine := mustCreateTemplate(t, s, models.CategoryResident, models.FrequencyMonthly, scope)
	mustCreateTemplate(t, s, models.CategoryResident, models.FrequencyMonthly, otherTeam)
	govTpl := mustCreateTemplate(t, s, models.CategoryGovernance, models.FrequencyYearly, scope)

	resident, err := s.ListActiveTemplates(ctx, models.CategoryResident, scope)
	require.NoError(t, err)
	require.Len(t, resident, 1)
	assert.Equal(t, mine.ID, resident[0].ID)

	// Governance is organization-scoped: visible from either team's scope.
	gov, err := s.ListActiveTemplates(ctx, models.CategoryGovernance, otherTeam)
	require.NoError(t, err)
	require.Len(t, gov, 1)
	assert.Equal(t, govTpl.ID, gov[0].ID)

	// Archiving removes it from the active listing.
	require.NoError(t, s.ArchiveTemplate(ctx, mine.ID))
	resident, err = s.ListActiveTemplates(ctx, models.CategoryResident, scope)
	require.NoError(t, err)
	assert.Empty(t, resident)
}

func TestUpdateTemplateNeverTouchesRuns(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	scope := orgScope()
	tpl := mustCreateTemplate(t, s, models.CategoryClinical, models.FrequencyMonthly, scope)
	run, err := s.GetOrCreateDraft(ctx, tpl.ID, scope, nurse)
	require.NoError(t, err)

	newName := "Renamed audit"
	newFreq := models.FrequencyYearly
	updated, err := s.UpdateTemplate(ctx, tpl.ID, audit.UpdateTemplateInput{
		Name:      &newName,
		Frequency: &newFreq,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed audit", updated.Name)

	// The open run still carries the name snapshotted at creation.
	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, tpl.Name, got.TemplateName)
}

func TestArchiveVersusCascadeAsymmetry(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	seed := func(category models.Category) (*models.Template, *models.AuditRun, *models.ActionPlan) {
		scope := orgScope()
		tpl := mustCreateTemplate(t, s, category, models.FrequencyMonthly, scope)
		draft, err := s.GetOrCreateDraft(ctx, tpl.ID, scope, nurse)
		require.NoError(t, err)
		run, err := s.CompleteRun(ctx, draft.ID, audit.CompleteRunInput{AuditedBy: nurse})
		require.NoError(t, err)
		plan, err := s.CreatePlan(ctx, audit.CreatePlanInput{
			RunID:       run.ID,
			TemplateID:  tpl.ID,
			Description: "Fix broken fire door",
			AssignedTo:  nurse.ID,
			Priority:    models.PriorityHigh,
			Creator:     reviewer,
		})
		require.NoError(t, err)
		return tpl, run, plan
	}

	t.Run("cascade delete removes runs and plans and reports counts", func(t *testing.T) {
		tpl, run, plan := seed(models.CategoryEnvironment)

		result, err := s.DeleteTemplateCascade(ctx, tpl.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.RunsDeleted)
		assert.Equal(t, int64(1), result.PlansDeleted)

		_, err = s.GetTemplate(ctx, tpl.ID)
		assert.ErrorIs(t, err, audit.ErrNotFound)
		_, err = s.GetRun(ctx, run.ID)
		assert.ErrorIs(t, err, audit.ErrNotFound)
		_, err = s.GetPlan(ctx, plan.ID)
		assert.ErrorIs(t, err, audit.ErrNotFound)
	})

	t.Run("archive leaves runs and plans intact", func(t *testing.T) {
		tpl, run, plan := seed(models.CategoryGovernance)

		require.NoError(t, s.ArchiveTemplate(ctx, tpl.ID))

		got, err := s.GetTemplate(ctx, tpl.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)

		_, err = s.GetRun(ctx, run.ID)
		assert.NoError(t, err)
		_, err = s.GetPlan(ctx, plan.ID)
		assert.NoError(t, err)
	})
}

func TestDownstreamReferenceToMissingTemplateIsNotFound(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	tpl := mustCreateTemplate(t, s, models.CategoryClinical, models.FrequencyMonthly, orgScope())
	_, err := s.DeleteTemplateCascade(ctx, tpl.ID)
	require.NoError(t, err)

	_, err = s.GetOrCreateDraft(ctx, tpl.ID, orgScope(), nurse)
	assert.ErrorIs(t, err, audit.ErrNotFound)
}
