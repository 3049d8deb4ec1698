package health

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/hellofresh/health-go/v5"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/balance"
	"google.golang.org/api/iterator"

	"github.com/shopsphere/storefront/internal/config"
	stripeClient "github.com/shopsphere/storefront/pkg/stripe"
)

type Endpoints struct {
	Firestore    *firestore.Client
	StripeClient stripeClient.Client
}

func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "storefront",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(
			health.Config{
				Name:      "firestore",
				Timeout:   3 * time.Second,
				SkipOnErr: false,
				Check: func(ctx context.Context) error {
					if endpoints.Firestore == nil {
						return fmt.Errorf("firestore client is not initialized")
					}

					// Listing a single collection is enough to prove
					// connectivity and credentials.
					it := endpoints.Firestore.Collections(ctx)
					if _, err := it.Next(); err != nil && err != iterator.Done {
						return fmt.Errorf("failed to reach firestore: %w", err)
					}

					return nil
				},
			},
			health.Config{
				Name:      "redis",
				Timeout:   2 * time.Second,
				SkipOnErr: false,
				Check: healthRedis.New(
					healthRedis.Config{
						DSN: cfg.RedisConnect.GetDSN(),
					},
				),
			},
			health.Config{
				Name:      "stripe",
				Timeout:   5 * time.Second,
				SkipOnErr: true,
				Check: func(ctx context.Context) error {
					if endpoints.StripeClient == nil {
						return fmt.Errorf("stripe client is not initialized")
					}
					params := &stripe.BalanceParams{
						Params: stripe.Params{
							Context: ctx,
						},
					}
					if _, err := balance.Get(params); err != nil {
						return fmt.Errorf("failed to connect to stripe: %w", err)
					}
					return nil
				},
			},
		),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
