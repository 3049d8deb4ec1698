package service

import (
	"context"
	"time"

	"github.com/shopsphere/storefront/internal/errors"
	"github.com/shopsphere/storefront/internal/identity"
	"github.com/shopsphere/storefront/internal/models"
	repository "github.com/shopsphere/storefront/internal/repositories"
)

type WishlistService struct {
	sessions *SessionManager
	products repository.ProductRepository
}

func NewWishlistService(sessions *SessionManager, products repository.ProductRepository) *WishlistService {
	return &WishlistService{sessions: sessions, products: products}
}

func (s *WishlistService) session(claims *models.Claims) *UserSession {
	return s.sessions.Attach(&identity.Identity{UID: claims.UID, Email: claims.Email, Role: claims.Role})
}

func (s *WishlistService) Get(ctx context.Context, claims *models.Claims) (models.WishlistSnapshot, error) {
	return s.session(claims).Wishlist.Snapshot(), nil
}

func (s *WishlistService) Add(ctx context.Context, claims *models.Claims, req *models.AddWishlistEntryRequest) (models.WishlistSnapshot, error) {

	product, err := s.products.Get(ctx, req.ProductID)
	if err != nil {
		return models.WishlistSnapshot{}, errors.RemoteUnavailableError("Failed to look up product").WithError(err)
	}

	if product == nil {
		return models.WishlistSnapshot{}, errors.NotFoundError("Product not found")
	}

	entry := models.WishlistEntry{
		ProductID: product.ID,
		Title:     product.Name,
		Price:     product.Price,
		ImageURL:  product.ImageURL,
		AddedAt:   time.Now().UTC(),
	}

	return s.session(claims).Wishlist.Add(entry), nil
}

func (s *WishlistService) Remove(ctx context.Context, claims *models.Claims, productID string) (models.WishlistSnapshot, error) {
	return s.session(claims).Wishlist.Remove(productID), nil
}
