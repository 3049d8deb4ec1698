package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/shopsphere/storefront/internal/models"
)

type CartRepository interface {
	// Get returns (nil, "", nil) when the user has no persisted cart.
	Get(ctx context.Context, uid string) (*models.CartSnapshot, string, error)
	// Put overwrites the full document and returns its new version.
	Put(ctx context.Context, uid string, snap models.CartSnapshot) (string, error)
	Delete(ctx context.Context, uid string) error
}

type cartRepository struct {
	client *firestore.Client
}

func NewCartRepo(client *firestore.Client) CartRepository {
	return &cartRepository{client: client}
}

func (r *cartRepository) col() *firestore.CollectionRef {
	return r.client.Collection("carts")
}

// cartDoc is the Firestore shape; kept separate from the snapshot value so
// the stored schema can evolve without touching the domain type.
type cartDoc struct {
	Items     []models.CartLineItem `firestore:"items"`
	ItemCount int                   `firestore:"itemCount"`
	Total     float64               `firestore:"total"`
	UpdatedAt time.Time             `firestore:"updatedAt"`
}

func (r *cartRepository) Get(ctx context.Context, uid string) (*models.CartSnapshot, string, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, "", fmt.Errorf("cart repository: uid is empty")
	}

	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	snap, err := r.col().Doc(uid).Get(dbCtx)
	if err != nil {
		if isNotFound(err) {
			return nil, "", nil
		}

		return nil, "", fmt.Errorf("failed to read cart: %w", err)
	}

	var doc cartDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, "", fmt.Errorf("failed to decode cart document: %w", err)
	}

	out := &models.CartSnapshot{
		Items:     doc.Items,
		ItemCount: doc.ItemCount,
		Total:     doc.Total,
	}

	return out, version(snap.UpdateTime), nil
}

func (r *cartRepository) Put(ctx context.Context, uid string, snap models.CartSnapshot) (string, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return "", fmt.Errorf("cart repository: uid is empty")
	}

	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	doc := cartDoc{
		Items:     snap.Items,
		ItemCount: snap.ItemCount,
		Total:     snap.Total,
		UpdatedAt: time.Now().UTC(),
	}
	if doc.Items == nil {
		doc.Items = []models.CartLineItem{}
	}

	// Full-doc overwrite: simple and predictable, the snapshot is the unit
	// of persistence.
	res, err := r.col().Doc(uid).Set(dbCtx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to write cart: %w", err)
	}

	return version(res.UpdateTime), nil
}

func (r *cartRepository) Delete(ctx context.Context, uid string) error {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return fmt.Errorf("cart repository: uid is empty")
	}

	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.col().Doc(uid).Delete(dbCtx)
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	return nil
}
