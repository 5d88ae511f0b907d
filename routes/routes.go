package routes

import (
	"github.com/gorilla/mux"

	"github.com/CareO-HQ/careo-sub009/handlers"
	"github.com/CareO-HQ/careo-sub009/middleware"
	"github.com/CareO-HQ/careo-sub009/websocket"
)

// HTTP method constants for better maintainability
var (
	MethodsGetOnly    = []string{"GET", "OPTIONS"}
	MethodsPostOnly   = []string{"POST", "OPTIONS"}
	MethodsPutOnly    = []string{"PUT", "OPTIONS"}
	MethodsDeleteOnly = []string{"DELETE", "OPTIONS"}
)

const (
	PathAPI    = "/api"
	PathHealth = "/health"
)

func RegisterRoutes(r *mux.Router) {
	// ====================
	// HEALTH CHECK (Public)
	// ====================
	r.HandleFunc(PathHealth, handlers.HealthCheck).Methods(MethodsGetOnly...)

	// ====================
	// EVENT STREAM (token auth inside the handler)
	// ====================
	r.HandleFunc("/ws/audits", websocket.ServeWS)

	// ====================
	// PROTECTED API ROUTES
	// ====================
	apiRouter := r.PathPrefix(PathAPI).Subrouter()
	apiRouter.Use(middleware.AuthMiddleware)

	// ====================
	// TEMPLATE CATALOG
	// ====================
	apiRouter.HandleFunc("/audit-templates", handlers.CreateTemplate).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/audit-templates", handlers.ListTemplates).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/audit-templates/{id}", handlers.GetTemplate).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/audit-templates/{id}", handlers.UpdateTemplate).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/audit-templates/{id}/archive", handlers.ArchiveTemplate).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/audit-templates/{id}", handlers.DeleteTemplateCascade).Methods(MethodsDeleteOnly...)
	apiRouter.HandleFunc("/audit-templates/{templateId}/plans", handlers.ListPlansByTemplate).Methods(MethodsGetOnly...)

	// ====================
	// AUDIT RUNS
	// ====================
	apiRouter.HandleFunc("/audit-templates/{templateId}/draft", handlers.GetOrCreateDraft).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/audit-templates/{templateId}/runs/open", handlers.ListOpenRuns).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/audit-templates/{templateId}/runs/completed", handlers.ListCompletedRuns).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/audit-runs/latest", handlers.LatestCompletedRuns).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/audit-runs/{id}", handlers.GetRun).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/audit-runs/{id}", handlers.UpdateRun).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/audit-runs/{id}/complete", handlers.CompleteRun).Methods(MethodsPostOnly...)

	// ====================
	// ACTION PLANS
	// ====================
	apiRouter.HandleFunc("/audit-runs/{runId}/plans", handlers.CreatePlan).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/audit-runs/{runId}/plans", handlers.ListPlansByRun).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/audit-runs/{runId}/plans/count", handlers.CountPlansByRun).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/action-plans/mine", handlers.ListMyPlans).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/action-plans/unread-count", handlers.CountMyUnreadPlans).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/action-plans/mark-all-viewed", handlers.MarkAllPlansViewed).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/action-plans/{id}", handlers.GetPlan).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/action-plans/{id}/transition", handlers.TransitionPlan).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/action-plans/{id}/viewed", handlers.MarkPlanViewed).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/action-plans/{id}", handlers.DeletePlan).Methods(MethodsDeleteOnly...)

	// ====================
	// DASHBOARDS
	// ====================
	apiRouter.HandleFunc("/dashboard/overdue", handlers.ListOverduePlans).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/dashboard/stats", handlers.PlanStats).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/residents/{residentId}/audit-items", handlers.ListResidentItems).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/residents/{residentId}/audit-items", handlers.RecordResidentItem).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/residents/{residentId}/audit-items/overdue-count", handlers.ResidentItemOverdueCount).Methods(MethodsGetOnly...)

	// ====================
	// NOTIFICATIONS
	// ====================
	apiRouter.HandleFunc("/notifications", handlers.ListMyNotifications).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/notifications/{id}/read", handlers.MarkNotificationRead).Methods(MethodsPostOnly...)
}
