// handlers/plan_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/CareO-HQ/careo-sub009/audit"
	"github.com/CareO-HQ/careo-sub009/models"
	"github.com/CareO-HQ/careo-sub009/utils"
)

func CreatePlan(w http.ResponseWriter, r *http.Request) {
	runID, ok := objectIDVar(w, mux.Vars(r), "runId")
	if !ok {
		return
	}

	var body struct {
		TemplateID     string          `json:"templateId"`
		Description    string          `json:"description"`
		AssignedTo     string          `json:"assignedTo"`
		AssignedToName string          `json:"assignedToName"`
		Priority       models.Priority `json:"priority"`
		DueDate        string          `json:"dueDate"`
	}
	if err := utils.ParseJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	templateID, ok := objectIDVar(w, map[string]string{"templateId": body.TemplateID}, "templateId")
	if !ok {
		return
	}

	// Due dates arrive as YYYY-MM-DD strings from the frontend.
	var dueDate *time.Time
	if body.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", body.DueDate)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid due date, expected YYYY-MM-DD")
			return
		}
		dueDate = &parsed
	}

	plan, err := Service.CreatePlan(r.Context(), audit.CreatePlanInput{
		RunID:          runID,
		TemplateID:     templateID,
		Description:    body.Description,
		AssignedTo:     body.AssignedTo,
		AssignedToName: body.AssignedToName,
		Priority:       body.Priority,
		DueDate:        dueDate,
		Creator:        actorFromRequest(r),
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, plan)
}

func TransitionPlan(w http.ResponseWriter, r *http.Request) {
	planID, ok := objectIDVar(w, mux.Vars(r), "id")
	if !ok {
		return
	}

	var body struct {
		Status  models.PlanStatus `json:"status"`
		Comment string            `json:"comment"`
	}
	if err := utils.ParseJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	plan, err := Service.TransitionPlan(r.Context(), planID, body.Status, body.Comment, actorFromRequest(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, plan)
}

func GetPlan(w http.ResponseWriter, r *http.Request) {
	planID, ok := objectIDVar(w, mux.Vars(r), "id")
	if !ok {
		return
	}
	plan, err := Service.GetPlan(r.Context(), planID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, plan)
}

func MarkPlanViewed(w http.ResponseWriter, r *http.Request) {
	planID, ok := objectIDVar(w, mux.Vars(r), "id")
	if !ok {
		return
	}
	if err := Service.MarkPlanViewed(r.Context(), planID); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// MarkAllPlansViewed clears the caller's unread badge in one go.
func MarkAllPlansViewed(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	n, err := Service.MarkAllViewedForAssignee(r.Context(), actor.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true, "updated": n})
}

func DeletePlan(w http.ResponseWriter, r *http.Request) {
	planID, ok := objectIDVar(w, mux.Vars(r), "id")
	if !ok {
		return
	}
	if err := Service.DeletePlan(r.Context(), planID); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"planId":  planID.Hex(),
	})
}

func ListPlansByRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := objectIDVar(w, mux.Vars(r), "runId")
	if !ok {
		return
	}
	plans, err := Service.PlansByRun(r.Context(), runID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondPlans(w, plans)
}

func ListPlansByTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, ok := objectIDVar(w, mux.Vars(r), "templateId")
	if !ok {
		return
	}
	plans, err := Service.PlansByTemplate(r.Context(), templateID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondPlans(w, plans)
}

// ListMyPlans returns the caller's assigned plans within their organization.
func ListMyPlans(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgIDFromRequest(w, r)
	if !ok {
		return
	}
	actor := actorFromRequest(r)
	plans, err := Service.PlansByAssignee(r.Context(), actor.ID, orgID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondPlans(w, plans)
}

// CountPlansByRun backs the action-plan badge on the audit history screen.
func CountPlansByRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := objectIDVar(w, mux.Vars(r), "runId")
	if !ok {
		return
	}
	count, err := Service.CountPlansByRun(r.Context(), runID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// CountMyUnreadPlans backs the caller's unread badge.
func CountMyUnreadPlans(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	count, err := Service.CountUnreadForAssignee(r.Context(), actor.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// Always return [] not null — a null list wedges the frontend's loading state.
func respondPlans(w http.ResponseWriter, plans []models.ActionPlan) {
	if plans == nil {
		plans = []models.ActionPlan{}
	}
	utils.RespondWithJSON(w, http.StatusOK, plans)
}
