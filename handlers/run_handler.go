// handlers/run_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/CareO-HQ/careo-sub009/audit"
	"github.com/CareO-HQ/careo-sub009/models"
	"github.com/CareO-HQ/careo-sub009/utils"
)

// GetOrCreateDraft opens (or resumes) the single non-terminal run for the
// template in the caller's scope.
func GetOrCreateDraft(w http.ResponseWriter, r *http.Request) {
	templateID, ok := objectIDVar(w, mux.Vars(r), "templateId")
	if !ok {
		return
	}
	scope, ok := scopeFromRequest(w, r)
	if !ok {
		return
	}

	run, err := Service.GetOrCreateDraft(r.Context(), templateID, scope, actorFromRequest(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, run)
}

// UpdateRun is the autosave path; it also promotes draft to in-progress.
func UpdateRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := objectIDVar(w, mux.Vars(r), "id")
	if !ok {
		return
	}

	var body struct {
		Items        []models.RunItem `json:"items"`
		Status       models.RunStatus `json:"status"`
		OverallNotes string           `json:"overallNotes"`
	}
	if err := utils.ParseJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	run, err := Service.UpdateRun(r.Context(), runID, audit.UpdateRunInput{
		Items:        body.Items,
		Status:       body.Status,
		OverallNotes: body.OverallNotes,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, run)
}

// CompleteRun finishes the audit and schedules the next due date.
func CompleteRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := objectIDVar(w, mux.Vars(r), "id")
	if !ok {
		return
	}

	var body struct {
		Items        []models.RunItem `json:"items"`
		OverallNotes string           `json:"overallNotes"`
	}
	if err := utils.ParseJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	run, err := Service.CompleteRun(r.Context(), runID, audit.CompleteRunInput{
		Items:        body.Items,
		OverallNotes: body.OverallNotes,
		AuditedBy:    actorFromRequest(r),
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, run)
}

func GetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := objectIDVar(w, mux.Vars(r), "id")
	if !ok {
		return
	}
	run, err := Service.GetRun(r.Context(), runID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, run)
}

// ListOpenRuns returns the template's draft/in-progress runs, newest first.
func ListOpenRuns(w http.ResponseWriter, r *http.Request) {
	templateID, ok := objectIDVar(w, mux.Vars(r), "templateId")
	if !ok {
		return
	}
	scope, ok := scopeFromRequest(w, r)
	if !ok {
		return
	}

	runs, err := Service.ListOpenRuns(r.Context(), templateID, scope)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if runs == nil {
		runs = []models.AuditRun{}
	}
	utils.RespondWithJSON(w, http.StatusOK, runs)
}

// ListCompletedRuns returns the template's completion history, newest first.
func ListCompletedRuns(w http.ResponseWriter, r *http.Request) {
	templateID, ok := objectIDVar(w, mux.Vars(r), "templateId")
	if !ok {
		return
	}
	scope, ok := scopeFromRequest(w, r)
	if !ok {
		return
	}

	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	runs, err := Service.ListCompletedRuns(r.Context(), templateID, scope, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if runs == nil {
		runs = []models.AuditRun{}
	}
	utils.RespondWithJSON(w, http.StatusOK, runs)
}

// LatestCompletedRuns returns the most recent completed run per template
// across the organization, keyed by template id.
func LatestCompletedRuns(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgIDFromRequest(w, r)
	if !ok {
		return
	}

	latest, err := Service.LatestCompletedByTemplate(r.Context(), orgID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	out := make(map[string]models.AuditRun, len(latest))
	for templateID, run := range latest {
		out[templateID.Hex()] = run
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}
