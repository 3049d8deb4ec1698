package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/shopsphere/storefront/internal/api/middleware"
	"github.com/shopsphere/storefront/internal/errors"
	"github.com/shopsphere/storefront/internal/models"
	service "github.com/shopsphere/storefront/internal/services"
	"github.com/shopsphere/storefront/internal/utils/response"
)

// maxWebhookBytes caps what we read from the payment processor.
const maxWebhookBytes = 64 << 10

type PaymentHandler struct {
	paymentService *service.PaymentService
	validator      *validator.Validate
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, validator: validator.New()}
}

func (h *PaymentHandler) CreatePayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		c, ok := claims(w, r)
		if !ok {
			return
		}

		var req models.CreatePaymentRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		payment, err := h.paymentService.CreatePayment(r.Context(), c, &req)
		if err != nil {
			logger.Warn("Payment creation failed", slog.String("orderId", req.OrderID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, payment)
	}
}

func (h *PaymentHandler) RefundPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		c, ok := claims(w, r)
		if !ok {
			return
		}

		orderID := r.PathValue("id")
		if orderID == "" {
			response.Error(w, errors.BadRequestError("Order ID is required"))
			return
		}

		if err := h.paymentService.RefundPayment(r.Context(), c, orderID); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]string{"status": "refunded"})
	}
}

// HandleWebhook receives payment-processor callbacks. Unauthenticated; the
// signature header is the only trust anchor.
func (h *PaymentHandler) HandleWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
		if err != nil {
			response.Error(w, errors.BadRequestError("Failed to read webhook payload"))
			return
		}
		defer r.Body.Close()

		signature := r.Header.Get("Stripe-Signature")
		if signature == "" {
			response.Error(w, errors.UnauthorizedError("Missing webhook signature"))
			return
		}

		if err := h.paymentService.HandleWebhook(r.Context(), payload, signature); err != nil {
			logger.Warn("Webhook processing failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]string{"status": "received"})
	}
}
