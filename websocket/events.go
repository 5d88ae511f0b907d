// websocket/events.go
package websocket

import (
	"time"

	"github.com/CareO-HQ/careo-sub009/models"
)

// Event is the wire shape pushed to subscribed dashboards.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Sink adapts the hub to the engine's event boundary. All methods are
// non-blocking; delivery is best effort by design.
type Sink struct{}

func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) RunCompleted(run *models.AuditRun) {
	Broadcast(run.OrganizationID.Hex(), Event{
		Type:      "RUN_COMPLETED",
		Data:      run,
		Timestamp: time.Now(),
	})
}

func (s *Sink) PlanCreated(plan *models.ActionPlan) {
	Broadcast(plan.OrganizationID.Hex(), Event{
		Type:      "PLAN_CREATED",
		Data:      plan,
		Timestamp: time.Now(),
	})
}

func (s *Sink) PlanStatusChanged(plan *models.ActionPlan, previous models.PlanStatus) {
	Broadcast(plan.OrganizationID.Hex(), Event{
		Type: "PLAN_STATUS_CHANGE",
		Data: map[string]interface{}{
			"plan":      plan,
			"oldStatus": previous,
			"newStatus": plan.Status,
		},
		Timestamp: time.Now(),
	})
}

func (s *Sink) NotificationCreated(n *models.Notification) {
	Broadcast(n.OrganizationID.Hex(), Event{
		Type:      "NOTIFICATION_CREATED",
		Data:      n,
		Timestamp: time.Now(),
	})
}
