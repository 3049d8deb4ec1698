package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}

	return false
}

type Address struct {
	Street     string `json:"street"      firestore:"street"     validate:"required"`
	City       string `json:"city"        firestore:"city"       validate:"required"`
	State      string `json:"state"       firestore:"state"      validate:"required"`
	PostalCode string `json:"postal_code" firestore:"postalCode" validate:"required"`
	Country    string `json:"country"     firestore:"country"    validate:"required,iso3166_1_alpha2"`
}

// Order freezes the cart snapshot captured at checkout; later catalog or cart
// changes do not affect it.
type Order struct {
	ID              string         `json:"id"               firestore:"id"`
	CustomerID      string         `json:"customer_id"      firestore:"customerId"`
	Status          OrderStatus    `json:"status"           firestore:"status"`
	Items           []CartLineItem `json:"items"            firestore:"items"`
	TotalAmount     float64        `json:"total_amount"     firestore:"totalAmount"`
	PaymentStatus   PaymentStatus  `json:"payment_status"   firestore:"paymentStatus"`
	PaymentIntentID string         `json:"payment_intent_id,omitempty" firestore:"paymentIntentId,omitempty"`
	ShippingAddress Address        `json:"shipping_address" firestore:"shippingAddress"`
	CreatedAt       time.Time      `json:"created_at"       firestore:"createdAt"`
	UpdatedAt       time.Time      `json:"updated_at"       firestore:"updatedAt"`
}

type CreateOrderRequest struct {
	ShippingAddress Address `json:"shipping_address" validate:"required"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending paid shipped delivered cancelled"`
}

type ListOrdersRequest struct {
	Page     int
	PageSize int
}
