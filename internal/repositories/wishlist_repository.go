package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/shopsphere/storefront/internal/models"
)

type WishlistRepository interface {
	Get(ctx context.Context, uid string) (*models.WishlistSnapshot, string, error)
	Put(ctx context.Context, uid string, snap models.WishlistSnapshot) (string, error)
	Delete(ctx context.Context, uid string) error
}

type wishlistRepository struct {
	client *firestore.Client
}

func NewWishlistRepo(client *firestore.Client) WishlistRepository {
	return &wishlistRepository{client: client}
}

func (r *wishlistRepository) col() *firestore.CollectionRef {
	return r.client.Collection("wishlists")
}

type wishlistDoc struct {
	Entries   []models.WishlistEntry `firestore:"entries"`
	UpdatedAt time.Time              `firestore:"updatedAt"`
}

func (r *wishlistRepository) Get(ctx context.Context, uid string) (*models.WishlistSnapshot, string, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, "", fmt.Errorf("wishlist repository: uid is empty")
	}

	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	snap, err := r.col().Doc(uid).Get(dbCtx)
	if err != nil {
		if isNotFound(err) {
			return nil, "", nil
		}

		return nil, "", fmt.Errorf("failed to read wishlist: %w", err)
	}

	var doc wishlistDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, "", fmt.Errorf("failed to decode wishlist document: %w", err)
	}

	return &models.WishlistSnapshot{Entries: doc.Entries}, version(snap.UpdateTime), nil
}

func (r *wishlistRepository) Put(ctx context.Context, uid string, snap models.WishlistSnapshot) (string, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return "", fmt.Errorf("wishlist repository: uid is empty")
	}

	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	doc := wishlistDoc{
		Entries:   snap.Entries,
		UpdatedAt: time.Now().UTC(),
	}
	if doc.Entries == nil {
		doc.Entries = []models.WishlistEntry{}
	}

	res, err := r.col().Doc(uid).Set(dbCtx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to write wishlist: %w", err)
	}

	return version(res.UpdateTime), nil
}

func (r *wishlistRepository) Delete(ctx context.Context, uid string) error {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return fmt.Errorf("wishlist repository: uid is empty")
	}

	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.col().Doc(uid).Delete(dbCtx)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist: %w", err)
	}

	return nil
}
