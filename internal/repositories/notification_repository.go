package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/shopsphere/storefront/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	Update(ctx context.Context, notification *models.Notification) error
	ListByUID(ctx context.Context, uid string, limit int) ([]models.Notification, error)
}

type notificationRepository struct {
	client *firestore.Client
}

func NewNotificationRepo(client *firestore.Client) NotificationRepository {
	return &notificationRepository{client: client}
}

func (r *notificationRepository) col() *firestore.CollectionRef {
	return r.client.Collection("notifications")
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.col().Doc(notification.ID).Create(dbCtx, notification)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

func (r *notificationRepository) Update(ctx context.Context, notification *models.Notification) error {
	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.col().Doc(notification.ID).Set(dbCtx, notification)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}

	return nil
}

func (r *notificationRepository) ListByUID(ctx context.Context, uid string, limit int) ([]models.Notification, error) {
	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}

	docs, err := r.col().Where("uid", "==", uid).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(dbCtx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	notifications := make([]models.Notification, 0, len(docs))

	for _, snap := range docs {
		var n models.Notification
		if err := snap.DataTo(&n); err != nil {
			return nil, fmt.Errorf("failed to decode notification %s: %w", snap.Ref.ID, err)
		}

		n.ID = snap.Ref.ID
		notifications = append(notifications, n)
	}

	return notifications, nil
}
