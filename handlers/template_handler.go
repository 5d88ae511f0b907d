// handlers/template_handler.go
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/CareO-HQ/careo-sub009/audit"
	"github.com/CareO-HQ/careo-sub009/models"
	"github.com/CareO-HQ/careo-sub009/utils"
)

func CreateTemplate(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFromRequest(w, r)
	if !ok {
		return
	}

	var body struct {
		Name      string                `json:"name"`
		Category  models.Category       `json:"category"`
		Items     []models.TemplateItem `json:"items"`
		Frequency models.Frequency      `json:"frequency"`
	}
	if err := utils.ParseJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	t, err := Service.CreateTemplate(r.Context(), audit.CreateTemplateInput{
		Name:      body.Name,
		Category:  body.Category,
		Items:     body.Items,
		Frequency: body.Frequency,
		Scope:     scope,
		Creator:   actorFromRequest(r),
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, t)
}

func ListTemplates(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFromRequest(w, r)
	if !ok {
		return
	}

	category := models.Category(r.URL.Query().Get("category"))
	templates, err := Service.ListActiveTemplates(r.Context(), category, scope)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if templates == nil {
		templates = []models.Template{}
	}
	utils.RespondWithJSON(w, http.StatusOK, templates)
}

func GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDVar(w, mux.Vars(r), "id")
	if !ok {
		return
	}
	t, err := Service.GetTemplate(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, t)
}

func UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDVar(w, mux.Vars(r), "id")
	if !ok {
		return
	}

	var body struct {
		Name      *string               `json:"name"`
		Items     []models.TemplateItem `json:"items"`
		Frequency *models.Frequency     `json:"frequency"`
	}
	if err := utils.ParseJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := Service.UpdateTemplate(r.Context(), id, audit.UpdateTemplateInput{
		Name:      body.Name,
		Items:     body.Items,
		Frequency: body.Frequency,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, t)
}

// ArchiveTemplate is the default soft delete: historical runs and plans stay
// intact.
func ArchiveTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDVar(w, mux.Vars(r), "id")
	if !ok {
		return
	}
	if err := Service.ArchiveTemplate(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"templateId": id.Hex(),
	})
}

// DeleteTemplateCascade is the opt-in hard delete; the response reports how
// many runs and plans went with the template.
func DeleteTemplateCascade(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDVar(w, mux.Vars(r), "id")
	if !ok {
		return
	}
	result, err := Service.DeleteTemplateCascade(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"templateId":   id.Hex(),
		"runsDeleted":  result.RunsDeleted,
		"plansDeleted": result.PlansDeleted,
	})
}
