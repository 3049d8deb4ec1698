package models

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type CreatePaymentRequest struct {
	OrderID  string `json:"order_id" validate:"required"`
	Currency string `json:"currency" validate:"required,iso4217"`
}

type PaymentResponse struct {
	OrderID         string        `json:"order_id"`
	PaymentIntentID string        `json:"payment_intent_id"`
	ClientSecret    string        `json:"client_secret,omitempty"`
	Amount          int64         `json:"amount"`
	Currency        string        `json:"currency"`
	Status          PaymentStatus `json:"status"`
}
