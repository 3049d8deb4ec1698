package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shopsphere/storefront/internal/api/middleware"
	"github.com/shopsphere/storefront/internal/errors"
	"github.com/shopsphere/storefront/internal/identity"
	"github.com/shopsphere/storefront/internal/models"
	repository "github.com/shopsphere/storefront/internal/repositories"
)

// validTransitions: pending pays or cancels, paid ships or cancels, shipped
// delivers. Delivered and cancelled are terminal.
var validTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending: {models.OrderStatusPaid, models.OrderStatusCancelled},
	models.OrderStatusPaid:    {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped: {models.OrderStatusDelivered},
}

type OrderService struct {
	repo          repository.OrderRepository
	sessions      *SessionManager
	notifications *NotificationService
	// removeOnPurchase drops purchased items from the wishlist at checkout.
	removeOnPurchase bool
}

func NewOrderService(repo repository.OrderRepository, sessions *SessionManager, notifications *NotificationService, removeOnPurchase bool) *OrderService {
	return &OrderService{repo: repo, sessions: sessions, notifications: notifications, removeOnPurchase: removeOnPurchase}
}

// Checkout freezes the current cart snapshot into an order. The local cart
// is cleared immediately; the sync engine propagates the empty cart on its
// own schedule.
func (s *OrderService) Checkout(ctx context.Context, claims *models.Claims, req *models.CreateOrderRequest) (*models.Order, error) {

	logger := middleware.LoggerFromContext(ctx)

	sess := s.sessions.Attach(&identity.Identity{UID: claims.UID, Email: claims.Email, Role: claims.Role})

	snap := sess.Cart.Snapshot()
	if snap.Empty() {
		return nil, errors.BadRequestError("Cart is empty")
	}

	now := time.Now().UTC()

	order := &models.Order{
		ID:              uuid.NewString(),
		CustomerID:      claims.UID,
		Status:          models.OrderStatusPending,
		Items:           snap.Items,
		TotalAmount:     snap.Total,
		PaymentStatus:   models.PaymentStatusPending,
		ShippingAddress: req.ShippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, errors.RemoteUnavailableError("Failed to create order").WithError(err)
	}

	sess.Cart.Clear()

	if s.removeOnPurchase {
		for _, item := range order.Items {
			sess.Wishlist.Remove(item.ProductID)
		}
	}

	if claims.Email != "" {
		s.notifications.SendOrderConfirmation(ctx, claims.UID, claims.Email, order)
	}

	logger.Info("Order created", slog.String("orderId", order.ID), slog.Float64("total", order.TotalAmount))

	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, claims *models.Claims, id string) (*models.Order, error) {

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.RemoteUnavailableError("Failed to read order").WithError(err)
	}

	if order == nil {
		return nil, errors.NotFoundError("Order not found")
	}

	if claims.Role != models.RoleAdmin && order.CustomerID != claims.UID {
		return nil, errors.ForbiddenError("Not the owner of this order")
	}

	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, claims *models.Claims, req models.ListOrdersRequest) (*models.PaginatedResponse, error) {

	if req.Page < 1 {
		req.Page = 1
	}

	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	var (
		orders []models.Order
		total  int
		err    error
	)

	if claims.Role == models.RoleAdmin {
		orders, total, err = s.repo.List(ctx, req)
	} else {
		orders, total, err = s.repo.ListByCustomer(ctx, claims.UID, req)
	}

	if err != nil {
		return nil, errors.RemoteUnavailableError("Failed to list orders").WithError(err)
	}

	return &models.PaginatedResponse{
		Data:     orders,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, claims *models.Claims, id string, req *models.UpdateOrderStatusRequest) (*models.Order, error) {

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.RemoteUnavailableError("Failed to read order").WithError(err)
	}

	if order == nil {
		return nil, errors.NotFoundError("Order not found")
	}

	if !transitionAllowed(order.Status, req.Status) {
		return nil, errors.BadRequestError("Invalid status transition").
			WithDetail(string(order.Status) + " -> " + string(req.Status))
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status, ""); err != nil {
		return nil, errors.RemoteUnavailableError("Failed to update order status").WithError(err)
	}

	order.Status = req.Status
	order.UpdatedAt = time.Now().UTC()

	return order, nil
}

func transitionAllowed(from, to models.OrderStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}

	return false
}
