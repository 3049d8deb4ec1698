package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/shopsphere/storefront/internal/models"
	service "github.com/shopsphere/storefront/internal/services"
	"github.com/shopsphere/storefront/internal/utils/response"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
	validator           *validator.Validate
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, validator: validator.New()}
}

// SendEmail is an admin endpoint for ad-hoc transactional mail.
func (h *NotificationHandler) SendEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		c, ok := claims(w, r)
		if !ok {
			return
		}

		var req models.EmailNotificationRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		notification, err := h.notificationService.SendEmail(r.Context(), c.UID, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, notification)
	}
}

// ListNotifications returns the caller's notifications, newest first.
func (h *NotificationHandler) ListNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		c, ok := claims(w, r)
		if !ok {
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		notifications, err := h.notificationService.List(r.Context(), c.UID, limit)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, notifications)
	}
}
