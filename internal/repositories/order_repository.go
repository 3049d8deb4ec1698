package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/shopsphere/storefront/internal/models"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	// Get returns (nil, nil) when the order does not exist.
	Get(ctx context.Context, id string) (*models.Order, error)
	GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Order, error)
	ListByCustomer(ctx context.Context, uid string, req models.ListOrdersRequest) ([]models.Order, int, error)
	List(ctx context.Context, req models.ListOrdersRequest) ([]models.Order, int, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus, paymentStatus models.PaymentStatus) error
	SetPaymentIntent(ctx context.Context, id, paymentIntentID string) error
}

type orderRepository struct {
	client *firestore.Client
}

func NewOrderRepo(client *firestore.Client) OrderRepository {
	return &orderRepository{client: client}
}

func (r *orderRepository) col() *firestore.CollectionRef {
	return r.client.Collection("orders")
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.col().Doc(order.ID).Create(dbCtx, order)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("order repository: id is empty")
	}

	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	snap, err := r.col().Doc(id).Get(dbCtx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read order: %w", err)
	}

	return orderFromSnap(snap)
}

func (r *orderRepository) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	docs, err := r.col().Where("paymentIntentId", "==", paymentIntentID).Limit(1).Documents(dbCtx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query order by payment intent: %w", err)
	}

	if len(docs) == 0 {
		return nil, nil
	}

	return orderFromSnap(docs[0])
}

func (r *orderRepository) ListByCustomer(ctx context.Context, uid string, req models.ListOrdersRequest) ([]models.Order, int, error) {
	return r.list(ctx, r.col().Where("customerId", "==", uid), req)
}

func (r *orderRepository) List(ctx context.Context, req models.ListOrdersRequest) ([]models.Order, int, error) {
	return r.list(ctx, r.col().Query, req)
}

func (r *orderRepository) list(ctx context.Context, q firestore.Query, req models.ListOrdersRequest) ([]models.Order, int, error) {
	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	refs, err := q.Select().Documents(dbCtx).GetAll()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	docs, err := q.OrderBy("createdAt", firestore.Desc).
		Offset((req.Page - 1) * req.PageSize).
		Limit(req.PageSize).
		Documents(dbCtx).GetAll()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]models.Order, 0, len(docs))

	for _, snap := range docs {
		order, err := orderFromSnap(snap)
		if err != nil {
			return nil, 0, err
		}

		orders = append(orders, *order)
	}

	return orders, len(refs), nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus, paymentStatus models.PaymentStatus) error {
	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	updates := []firestore.Update{
		{Path: "status", Value: status},
		{Path: "updatedAt", Value: time.Now().UTC()},
	}
	if paymentStatus != "" {
		updates = append(updates, firestore.Update{Path: "paymentStatus", Value: paymentStatus})
	}

	_, err := r.col().Doc(id).Update(dbCtx, updates)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return nil
}

func (r *orderRepository) SetPaymentIntent(ctx context.Context, id, paymentIntentID string) error {
	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.col().Doc(id).Update(dbCtx, []firestore.Update{
		{Path: "paymentIntentId", Value: paymentIntentID},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to set payment intent: %w", err)
	}

	return nil
}

func orderFromSnap(snap *firestore.DocumentSnapshot) (*models.Order, error) {
	var order models.Order
	if err := snap.DataTo(&order); err != nil {
		return nil, fmt.Errorf("failed to decode order %s: %w", snap.Ref.ID, err)
	}

	order.ID = snap.Ref.ID

	return &order, nil
}
