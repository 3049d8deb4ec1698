// Package repository holds the adapters for the managed document store and
// Redis. Collection layout:
//
//	carts/{uid}          one document per user, full-doc overwrite on push
//	wishlists/{uid}      same keying as carts
//	roles/{uid}          UserRoleRecord
//	products/{id}
//	orders/{id}
//	notifications/{id}
//
// Lookups that miss return (nil, nil); the caller decides whether absence is
// an error. No multi-document transaction is assumed anywhere.
package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/shopsphere/storefront/internal/config"
)

const defaultTimeout = 5 * time.Second

type Repositories struct {
	Cart         CartRepository
	Wishlist     WishlistRepository
	Role         RoleRepository
	Product      ProductRepository
	Order        OrderRepository
	Notification NotificationRepository

	client *firestore.Client
}

func New(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	var opts []option.ClientOption
	if cfg.Firebase.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.Firebase.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	slog.Info("✅ Connected to Firestore", slog.String("project", cfg.Firebase.ProjectID))

	return &Repositories{
		Cart:         NewCartRepo(client),
		Wishlist:     NewWishlistRepo(client),
		Role:         NewRoleRepo(client),
		Product:      NewProductRepo(client),
		Order:        NewOrderRepo(client),
		Notification: NewNotificationRepo(client),
		client:       client,
	}, nil
}

func (r *Repositories) Close() error {
	return r.client.Close()
}

// Client exposes the underlying connection for the health check.
func (r *Repositories) Client() *firestore.Client {
	return r.client
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultTimeout)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// version renders a document update time as the opaque snapshot version the
// sync engine compares.
func version(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
