// audit/notifications.go
package audit

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CareO-HQ/careo-sub009/models"
)

// Notification creation is fire-and-forget: a failed insert is logged and
// swallowed so it can never roll back or fail the state transition that
// produced it.

func (s *Service) notifyPlanAssigned(ctx context.Context, plan *models.ActionPlan, templateName string) {
	msg := fmt.Sprintf("You have been assigned a %s priority action plan for %q", plan.Priority, templateName)
	if plan.DueDate != nil {
		msg += fmt.Sprintf(", due %s", plan.DueDate.Format("2006-01-02"))
	}
	s.createNotification(ctx, &models.Notification{
		UserID:     plan.AssignedTo,
		SenderID:   plan.CreatedBy,
		SenderName: plan.CreatedByName,
		Type:       models.NotificationTypePlanAssigned,
		Title:      "New action plan assigned",
		Message:    msg,
		Link:       "/audits/plans/" + plan.ID.Hex(),
		Metadata: models.NotificationMetadata{
			RunID:      plan.RunID,
			TemplateID: plan.TemplateID,
			PlanID:     plan.ID,
			Priority:   plan.Priority,
			DueDate:    plan.DueDate,
		},
		OrganizationID: plan.OrganizationID,
		TeamID:         plan.TeamID,
	})
}

func (s *Service) notifyPlanCompleted(ctx context.Context, plan *models.ActionPlan, completedBy Actor) {
	// No self-notification when a creator closes their own plan.
	if plan.CreatedBy == "" || plan.CreatedBy == completedBy.ID {
		return
	}
	s.createNotification(ctx, &models.Notification{
		UserID:     plan.CreatedBy,
		SenderID:   completedBy.ID,
		SenderName: completedBy.Name,
		Type:       models.NotificationTypePlanCompleted,
		Title:      "Action plan completed",
		Message:    fmt.Sprintf("%s completed the action plan %q", completedBy.Name, plan.Description),
		Link:       "/audits/plans/" + plan.ID.Hex(),
		Metadata: models.NotificationMetadata{
			RunID:      plan.RunID,
			TemplateID: plan.TemplateID,
			PlanID:     plan.ID,
			Priority:   plan.Priority,
			DueDate:    plan.DueDate,
		},
		OrganizationID: plan.OrganizationID,
		TeamID:         plan.TeamID,
	})
}

func (s *Service) createNotification(ctx context.Context, n *models.Notification) {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	if err := s.store.InsertNotification(ctx, n); err != nil {
		log.Printf("Failed to create notification for %s: %v", n.UserID, err)
		return
	}
	s.events.NotificationCreated(n)
}

// NotificationsForUser lists a user's notifications, newest first.
func (s *Service) NotificationsForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: a user id is required", ErrValidation)
	}
	return s.store.ListNotificationsForUser(ctx, userID)
}

// MarkNotificationRead is the minimal interface to the surrounding app's
// read-receipt feature.
func (s *Service) MarkNotificationRead(ctx context.Context, id primitive.ObjectID) error {
	matched, err := s.store.MarkNotificationRead(ctx, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !matched {
		return fmt.Errorf("%w: notification %s", ErrNotFound, id.Hex())
	}
	return nil
}
