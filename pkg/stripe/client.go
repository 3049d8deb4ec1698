package stripe

import (
	"errors"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/refund"
	"github.com/stripe/stripe-go/v81/webhook"
)

type Event = stripe.Event

// Client is the payment-processor surface the payment service depends on.
type Client interface {
	CreatePaymentIntent(amount int64, currency string, description string) (*stripe.PaymentIntent, error)
	GetPaymentIntent(paymentIntentID string) (*stripe.PaymentIntent, error)
	RefundPayment(paymentIntentID string, amount int64) (*stripe.Refund, error)
	VerifyWebhookSignature(payload []byte, signature string) (Event, error)
}

type stripeClient struct {
	webhookSecret string
}

func NewStripeClient(apiKey string, webhookSecret string) Client {
	stripe.Key = apiKey

	return &stripeClient{webhookSecret: webhookSecret}
}

// CreatePaymentIntent opens a planned payment for an order total.
func (s *stripeClient) CreatePaymentIntent(amount int64, currency string, description string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(amount),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
	}

	return paymentintent.New(params)
}

// GetPaymentIntent implements Client.
func (s *stripeClient) GetPaymentIntent(paymentIntentID string) (*stripe.PaymentIntent, error) {
	return paymentintent.Get(paymentIntentID, nil)
}

// RefundPayment implements Client.
func (s *stripeClient) RefundPayment(paymentIntentID string, amount int64) (*stripe.Refund, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
		Amount:        stripe.Int64(amount),
	}

	return refund.New(params)
}

// VerifyWebhookSignature implements Client.
func (s *stripeClient) VerifyWebhookSignature(payload []byte, signature string) (Event, error) {
	if s.webhookSecret == "" {
		return Event{}, errors.New("webhook secret not configured")
	}

	return webhook.ConstructEvent(payload, signature, s.webhookSecret)
}
