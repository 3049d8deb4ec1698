package models

import "time"

type NotificationType string

const (
	NotificationTypeEmail  NotificationType = "email"
	NotificationTypeInApp  NotificationType = "in_app"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

type Notification struct {
	ID        string             `json:"id"        firestore:"id"`
	UID       string             `json:"uid"       firestore:"uid"`
	Type      NotificationType   `json:"type"      firestore:"type"`
	Subject   string             `json:"subject,omitempty" firestore:"subject,omitempty"`
	Content   string             `json:"content"   firestore:"content"`
	Status    NotificationStatus `json:"status"    firestore:"status"`
	Error     string             `json:"error,omitempty" firestore:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at" firestore:"createdAt"`
	SentAt    *time.Time         `json:"sent_at,omitempty" firestore:"sentAt,omitempty"`
}

type EmailNotificationRequest struct {
	Recipient string `json:"recipient" validate:"required,email"`
	Subject   string `json:"subject"   validate:"required"`
	Content   string `json:"content"   validate:"required"`
}
