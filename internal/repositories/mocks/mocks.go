// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shopsphere/storefront/internal/models"
)

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) Get(ctx context.Context, uid string) (*models.CartSnapshot, string, error) {
	args := m.Called(ctx, uid)

	var snap *models.CartSnapshot
	if args.Get(0) != nil {
		snap = args.Get(0).(*models.CartSnapshot)
	}

	return snap, args.String(1), args.Error(2)
}

func (m *CartRepository) Put(ctx context.Context, uid string, snap models.CartSnapshot) (string, error) {
	args := m.Called(ctx, uid, snap)

	return args.String(0), args.Error(1)
}

func (m *CartRepository) Delete(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)

	return args.Error(0)
}

type WishlistRepository struct {
	mock.Mock
}

func (m *WishlistRepository) Get(ctx context.Context, uid string) (*models.WishlistSnapshot, string, error) {
	args := m.Called(ctx, uid)

	var snap *models.WishlistSnapshot
	if args.Get(0) != nil {
		snap = args.Get(0).(*models.WishlistSnapshot)
	}

	return snap, args.String(1), args.Error(2)
}

func (m *WishlistRepository) Put(ctx context.Context, uid string, snap models.WishlistSnapshot) (string, error) {
	args := m.Called(ctx, uid, snap)

	return args.String(0), args.Error(1)
}

func (m *WishlistRepository) Delete(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)

	return args.Error(0)
}

type RoleRepository struct {
	mock.Mock
}

func (m *RoleRepository) Get(ctx context.Context, uid string) (*models.UserRoleRecord, error) {
	args := m.Called(ctx, uid)

	var record *models.UserRoleRecord
	if args.Get(0) != nil {
		record = args.Get(0).(*models.UserRoleRecord)
	}

	return record, args.Error(1)
}

func (m *RoleRepository) Upsert(ctx context.Context, record *models.UserRoleRecord) error {
	args := m.Called(ctx, record)

	return args.Error(0)
}

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *ProductRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)

	var product *models.Product
	if args.Get(0) != nil {
		product = args.Get(0).(*models.Product)
	}

	return product, args.Error(1)
}

func (m *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *ProductRepository) List(ctx context.Context, req models.ListProductsRequest) ([]models.Product, int, error) {
	args := m.Called(ctx, req)

	var products []models.Product
	if args.Get(0) != nil {
		products = args.Get(0).([]models.Product)
	}

	return products, args.Int(1), args.Error(2)
}

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)

	return args.Error(0)
}

func (m *OrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)

	var order *models.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*models.Order)
	}

	return order, args.Error(1)
}

func (m *OrderRepository) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	args := m.Called(ctx, paymentIntentID)

	var order *models.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*models.Order)
	}

	return order, args.Error(1)
}

func (m *OrderRepository) ListByCustomer(ctx context.Context, uid string, req models.ListOrdersRequest) ([]models.Order, int, error) {
	args := m.Called(ctx, uid, req)

	var orders []models.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]models.Order)
	}

	return orders, args.Int(1), args.Error(2)
}

func (m *OrderRepository) List(ctx context.Context, req models.ListOrdersRequest) ([]models.Order, int, error) {
	args := m.Called(ctx, req)

	var orders []models.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]models.Order)
	}

	return orders, args.Int(1), args.Error(2)
}

func (m *OrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus, paymentStatus models.PaymentStatus) error {
	args := m.Called(ctx, id, status, paymentStatus)

	return args.Error(0)
}

func (m *OrderRepository) SetPaymentIntent(ctx context.Context, id, paymentIntentID string) error {
	args := m.Called(ctx, id, paymentIntentID)

	return args.Error(0)
}

type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)

	return args.Error(0)
}

func (m *NotificationRepository) Update(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)

	return args.Error(0)
}

func (m *NotificationRepository) ListByUID(ctx context.Context, uid string, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, uid, limit)

	var notifications []models.Notification
	if args.Get(0) != nil {
		notifications = args.Get(0).([]models.Notification)
	}

	return notifications, args.Error(1)
}

type RateLimitRepository struct {
	mock.Mock
}

func (m *RateLimitRepository) CheckAttempt(ctx context.Context, key string) (bool, int, int, error) {
	args := m.Called(ctx, key)

	return args.Bool(0), args.Int(1), args.Int(2), args.Error(3)
}
