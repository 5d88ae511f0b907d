// handlers/dashboard_handler.go
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/CareO-HQ/careo-sub009/models"
	"github.com/CareO-HQ/careo-sub009/utils"
)

// ListOverduePlans returns the team's overdue action plans, derived at read
// time from due date and status.
func ListOverduePlans(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFromRequest(w, r)
	if !ok {
		return
	}
	plans, err := Service.OverdueByTeam(r.Context(), scope.OrganizationID, scope.TeamID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondPlans(w, plans)
}

// PlanStats returns the team's action-plan tallies for the dashboard tiles.
func PlanStats(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFromRequest(w, r)
	if !ok {
		return
	}
	stats, err := Service.Stats(r.Context(), scope.OrganizationID, scope.TeamID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}

// ResidentItemOverdueCount returns how many of a resident's audit items are
// past due.
func ResidentItemOverdueCount(w http.ResponseWriter, r *http.Request) {
	residentID, ok := objectIDVar(w, mux.Vars(r), "residentId")
	if !ok {
		return
	}
	count, err := Service.ItemOverdueCount(r.Context(), residentID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]int{"count": count})
}

// ListResidentItems returns a resident's flattened audit items.
func ListResidentItems(w http.ResponseWriter, r *http.Request) {
	residentID, ok := objectIDVar(w, mux.Vars(r), "residentId")
	if !ok {
		return
	}
	items, err := Service.ListResidentItems(r.Context(), residentID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if items == nil {
		items = []models.ResidentAuditItem{}
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

// RecordResidentItem adds one flattened per-resident audit item.
func RecordResidentItem(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgIDFromRequest(w, r)
	if !ok {
		return
	}
	residentID, ok := objectIDVar(w, mux.Vars(r), "residentId")
	if !ok {
		return
	}

	var body struct {
		TemplateID string `json:"templateId"`
		ItemName   string `json:"itemName"`
		Status     string `json:"status"`
		DueDate    string `json:"dueDate"`
	}
	if err := utils.ParseJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.ItemName == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "itemName is required")
		return
	}

	item := models.ResidentAuditItem{
		OrganizationID: orgID,
		ResidentID:     residentID,
		ItemName:       body.ItemName,
		Status:         body.Status,
		DueDate:        body.DueDate,
	}
	if body.TemplateID != "" {
		templateID, ok := objectIDVar(w, map[string]string{"templateId": body.TemplateID}, "templateId")
		if !ok {
			return
		}
		item.TemplateID = templateID
	}

	if err := Service.RecordResidentItem(r.Context(), &item); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, item)
}
