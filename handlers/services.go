// handlers/services.go
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CareO-HQ/careo-sub009/audit"
	"github.com/CareO-HQ/careo-sub009/config"
	"github.com/CareO-HQ/careo-sub009/database"
	"github.com/CareO-HQ/careo-sub009/store"
	"github.com/CareO-HQ/careo-sub009/utils"
	"github.com/CareO-HQ/careo-sub009/websocket"
)

var Service *audit.Service

// InitServices wires the engine to MongoDB and the websocket sink.
func InitServices() {
	db := database.Client.Database(config.DatabaseName)
	mongoStore := store.NewMongo(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := mongoStore.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	Service = audit.NewService(mongoStore, websocket.NewSink())
}

// orgIDFromRequest reads the organization id the auth middleware resolved.
func orgIDFromRequest(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	orgIDHex, ok := r.Context().Value("orgID").(string)
	if !ok || orgIDHex == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Organization ID not found")
		return primitive.NilObjectID, false
	}
	orgID, err := primitive.ObjectIDFromHex(orgIDHex)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid organization ID")
		return primitive.NilObjectID, false
	}
	return orgID, true
}

// actorFromRequest reads the caller identity the auth middleware resolved.
func actorFromRequest(r *http.Request) audit.Actor {
	userID, _ := r.Context().Value("userID").(string)
	userName, _ := r.Context().Value("userName").(string)
	return audit.Actor{ID: userID, Name: userName}
}

// scopeFromRequest builds the audit scope from the resolved organization and
// an optional team id taken from the query string or the caller's own team.
func scopeFromRequest(w http.ResponseWriter, r *http.Request) (audit.Scope, bool) {
	orgID, ok := orgIDFromRequest(w, r)
	if !ok {
		return audit.Scope{}, false
	}
	scope := audit.Scope{OrganizationID: orgID}

	teamIDHex := r.URL.Query().Get("teamId")
	if teamIDHex == "" {
		teamIDHex, _ = r.Context().Value("teamID").(string)
	}
	if teamIDHex != "" {
		teamID, err := primitive.ObjectIDFromHex(teamIDHex)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid team ID")
			return audit.Scope{}, false
		}
		scope.TeamID = teamID
	}
	return scope, true
}

// respondServiceError maps the engine's failure taxonomy onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, audit.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, audit.ErrInvalidState):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, audit.ErrValidation):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("Internal error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// objectIDVar parses an ObjectID path variable.
func objectIDVar(w http.ResponseWriter, vars map[string]string, name string) (primitive.ObjectID, bool) {
	hex := vars[name]
	if hex == "" {
		utils.RespondWithError(w, http.StatusBadRequest, name+" is required")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid "+name+" format")
		return primitive.NilObjectID, false
	}
	return id, true
}
