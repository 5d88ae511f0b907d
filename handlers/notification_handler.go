// handlers/notification_handler.go
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/CareO-HQ/careo-sub009/models"
	"github.com/CareO-HQ/careo-sub009/utils"
)

// ListMyNotifications returns the caller's notifications, newest first.
func ListMyNotifications(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	notifications, err := Service.NotificationsForUser(r.Context(), actor.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	utils.RespondWithJSON(w, http.StatusOK, notifications)
}

// MarkNotificationRead is the read-receipt hook for the surrounding app.
func MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDVar(w, mux.Vars(r), "id")
	if !ok {
		return
	}
	if err := Service.MarkNotificationRead(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
