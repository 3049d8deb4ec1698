package service

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/shopsphere/storefront/internal/api/middleware"
	"github.com/shopsphere/storefront/internal/errors"
	"github.com/shopsphere/storefront/internal/models"
	repository "github.com/shopsphere/storefront/internal/repositories"
	"github.com/shopsphere/storefront/pkg/stripe"
)

type PaymentService struct {
	orders              repository.OrderRepository
	client              stripe.Client
	supportedCurrencies []string
}

func NewPaymentService(orders repository.OrderRepository, client stripe.Client, supportedCurrencies []string) *PaymentService {
	return &PaymentService{orders: orders, client: client, supportedCurrencies: supportedCurrencies}
}

// CreatePayment opens a payment intent for a pending order and records it
// on the order so the webhook can find its way back.
func (s *PaymentService) CreatePayment(ctx context.Context, claims *models.Claims, req *models.CreatePaymentRequest) (*models.PaymentResponse, error) {

	logger := middleware.LoggerFromContext(ctx)

	currency := strings.ToLower(req.Currency)
	if !s.currencySupported(currency) {
		return nil, errors.BadRequestError("Unsupported currency").WithDetail(req.Currency)
	}

	order, err := s.orders.Get(ctx, req.OrderID)
	if err != nil {
		return nil, errors.RemoteUnavailableError("Failed to read order").WithError(err)
	}

	if order == nil {
		return nil, errors.NotFoundError("Order not found")
	}

	if order.CustomerID != claims.UID {
		return nil, errors.ForbiddenError("Not the owner of this order")
	}

	if order.Status != models.OrderStatusPending {
		return nil, errors.BadRequestError("Order is not awaiting payment").WithDetail(string(order.Status))
	}

	amount := toMinorUnits(order.TotalAmount)

	intent, err := s.client.CreatePaymentIntent(amount, currency, "Order "+order.ID)
	if err != nil {
		return nil, errors.ThirdPartyError("Failed to create payment intent").WithError(err)
	}

	if err := s.orders.SetPaymentIntent(ctx, order.ID, intent.ID); err != nil {
		return nil, errors.RemoteUnavailableError("Failed to record payment intent").WithError(err)
	}

	logger.Info("Payment intent created",
		slog.String("orderId", order.ID), slog.String("paymentIntentId", intent.ID))

	return &models.PaymentResponse{
		OrderID:         order.ID,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          amount,
		Currency:        currency,
		Status:          models.PaymentStatusPending,
	}, nil
}

// HandleWebhook verifies and applies a payment-processor event. Unrecognized
// event types are acknowledged and ignored.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {

	logger := middleware.LoggerFromContext(ctx)

	event, err := s.client.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return errors.UnauthorizedError("Invalid webhook signature").WithError(err)
	}

	switch event.Type {
	case "payment_intent.succeeded":
		return s.applyIntentResult(ctx, event, models.OrderStatusPaid, models.PaymentStatusSucceeded)
	case "payment_intent.payment_failed":
		return s.applyIntentResult(ctx, event, "", models.PaymentStatusFailed)
	default:
		logger.Debug("Ignoring webhook event", slog.String("type", string(event.Type)))

		return nil
	}
}

func (s *PaymentService) applyIntentResult(ctx context.Context, event stripe.Event, status models.OrderStatus, paymentStatus models.PaymentStatus) error {

	logger := middleware.LoggerFromContext(ctx)

	intentID, ok := event.Data.Object["id"].(string)
	if !ok || intentID == "" {
		return errors.BadRequestError("Webhook event missing payment intent id")
	}

	order, err := s.orders.GetByPaymentIntent(ctx, intentID)
	if err != nil {
		return errors.RemoteUnavailableError("Failed to look up order for payment intent").WithError(err)
	}

	if order == nil {
		logger.Warn("Webhook for unknown payment intent", slog.String("paymentIntentId", intentID))

		return nil
	}

	target := order.Status
	if status != "" {
		target = status
	}

	if err := s.orders.UpdateStatus(ctx, order.ID, target, paymentStatus); err != nil {
		return errors.RemoteUnavailableError("Failed to update order from webhook").WithError(err)
	}

	logger.Info("Order updated from webhook",
		slog.String("orderId", order.ID),
		slog.String("paymentStatus", string(paymentStatus)))

	return nil
}

// RefundPayment refunds a paid order in full and marks it cancelled.
func (s *PaymentService) RefundPayment(ctx context.Context, claims *models.Claims, orderID string) error {

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return errors.RemoteUnavailableError("Failed to read order").WithError(err)
	}

	if order == nil {
		return errors.NotFoundError("Order not found")
	}

	if claims.Role != models.RoleAdmin && order.CustomerID != claims.UID {
		return errors.ForbiddenError("Not the owner of this order")
	}

	if order.PaymentStatus != models.PaymentStatusSucceeded || order.PaymentIntentID == "" {
		return errors.BadRequestError("Order has no settled payment to refund")
	}

	if _, err := s.client.RefundPayment(order.PaymentIntentID, toMinorUnits(order.TotalAmount)); err != nil {
		return errors.ThirdPartyError("Failed to refund payment").WithError(err)
	}

	if err := s.orders.UpdateStatus(ctx, order.ID, models.OrderStatusCancelled, models.PaymentStatusRefunded); err != nil {
		return errors.RemoteUnavailableError("Failed to record refund").WithError(err)
	}

	return nil
}

func (s *PaymentService) currencySupported(currency string) bool {
	for _, c := range s.supportedCurrencies {
		if strings.EqualFold(c, currency) {
			return true
		}
	}

	return false
}

// toMinorUnits converts a dollar amount to cents for the payment processor.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
