package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shopsphere/storefront/internal/api/middleware"
	"github.com/shopsphere/storefront/internal/errors"
	"github.com/shopsphere/storefront/internal/models"
	repository "github.com/shopsphere/storefront/internal/repositories"
	"github.com/shopsphere/storefront/pkg/sendgrid"
)

type NotificationService struct {
	repo   repository.NotificationRepository
	email  sendgrid.EmailService
	logger *slog.Logger
}

func NewNotificationService(repo repository.NotificationRepository, email sendgrid.EmailService, logger *slog.Logger) *NotificationService {
	return &NotificationService{repo: repo, email: email, logger: logger}
}

func (s *NotificationService) SendEmail(ctx context.Context, uid string, req *models.EmailNotificationRequest) (*models.Notification, error) {

	logger := middleware.LoggerFromContext(ctx)

	notification := &models.Notification{
		ID:        uuid.NewString(),
		UID:       uid,
		Type:      models.NotificationTypeEmail,
		Subject:   req.Subject,
		Content:   req.Content,
		Status:    models.NotificationStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, errors.RemoteUnavailableError("Failed to record notification").WithError(err)
	}

	if err := s.email.Send(ctx, req); err != nil {
		notification.Status = models.NotificationStatusFailed
		notification.Error = err.Error()

		if updateErr := s.repo.Update(ctx, notification); updateErr != nil {
			logger.Error("Failed to record notification failure", slog.String("error", updateErr.Error()))
		}

		return nil, errors.ThirdPartyError("Failed to send email").WithError(err)
	}

	now := time.Now().UTC()
	notification.Status = models.NotificationStatusSent
	notification.SentAt = &now

	if err := s.repo.Update(ctx, notification); err != nil {
		logger.Error("Failed to mark notification as sent", slog.String("error", err.Error()))
	}

	return notification, nil
}

// SendOrderConfirmation is best-effort. A lost confirmation email never
// fails the checkout that triggered it.
func (s *NotificationService) SendOrderConfirmation(ctx context.Context, uid, email string, order *models.Order) {

	req := &models.EmailNotificationRequest{
		Recipient: email,
		Subject:   fmt.Sprintf("Order confirmation #%s", order.ID),
		Content: fmt.Sprintf("Thanks for your order!\n\nOrder ID: %s\nItems: %d\nTotal: $%.2f\n\nWe'll let you know when it ships.",
			order.ID, len(order.Items), order.TotalAmount),
	}

	if _, err := s.SendEmail(ctx, uid, req); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Order confirmation email failed",
			slog.String("orderId", order.ID), slog.String("error", err.Error()))
	}
}

// NotifySyncFailure records an in-app notification once the background sync
// has failed enough times in a row. Called from the sync engine's goroutine,
// so it must not block.
func (s *NotificationService) NotifySyncFailure(uid string, consecutiveFailures int) {

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		notification := &models.Notification{
			ID:        uuid.NewString(),
			UID:       uid,
			Type:      models.NotificationTypeInApp,
			Subject:   "Sync trouble",
			Content:   "We're having trouble saving your cart and wishlist. Your changes are kept locally and we'll keep retrying.",
			Status:    models.NotificationStatusSent,
			CreatedAt: time.Now().UTC(),
		}

		if err := s.repo.Create(ctx, notification); err != nil {
			s.logger.Error("Failed to record sync-failure notification",
				slog.String("uid", uid),
				slog.Int("consecutiveFailures", consecutiveFailures),
				slog.String("error", err.Error()))
		}
	}()
}

func (s *NotificationService) List(ctx context.Context, uid string, limit int) ([]models.Notification, error) {

	notifications, err := s.repo.ListByUID(ctx, uid, limit)
	if err != nil {
		return nil, errors.RemoteUnavailableError("Failed to list notifications").WithError(err)
	}

	return notifications, nil
}
