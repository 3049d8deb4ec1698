package service

import (
	"context"

	"github.com/shopsphere/storefront/internal/errors"
	"github.com/shopsphere/storefront/internal/identity"
	"github.com/shopsphere/storefront/internal/models"
	repository "github.com/shopsphere/storefront/internal/repositories"
)

// CartService mutates the local cart state. Every operation is local-first:
// the snapshot returned to the handler already reflects the mutation, and
// the sync engine persists it in the background.
type CartService struct {
	sessions *SessionManager
	products repository.ProductRepository
}

func NewCartService(sessions *SessionManager, products repository.ProductRepository) *CartService {
	return &CartService{sessions: sessions, products: products}
}

func (s *CartService) session(claims *models.Claims) *UserSession {
	return s.sessions.Attach(&identity.Identity{UID: claims.UID, Email: claims.Email, Role: claims.Role})
}

func (s *CartService) Get(ctx context.Context, claims *models.Claims) (models.CartSnapshot, error) {
	return s.session(claims).Cart.Snapshot(), nil
}

func (s *CartService) AddItem(ctx context.Context, claims *models.Claims, req *models.AddCartItemRequest) (models.CartSnapshot, error) {

	product, err := s.products.Get(ctx, req.ProductID)
	if err != nil {
		return models.CartSnapshot{}, errors.RemoteUnavailableError("Failed to look up product").WithError(err)
	}

	if product == nil {
		return models.CartSnapshot{}, errors.NotFoundError("Product not found")
	}

	if product.Status != "active" {
		return models.CartSnapshot{}, errors.BadRequestError("Product is not available")
	}

	// Price and title are frozen into the line at add time.
	item := models.CartLineItem{
		ProductID: product.ID,
		Title:     product.Name,
		UnitPrice: product.Price,
	}

	return s.session(claims).Cart.Add(item, req.Quantity), nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, claims *models.Claims, req *models.UpdateCartQuantityRequest) (models.CartSnapshot, error) {
	sess := s.session(claims)

	if _, ok := sess.Cart.Snapshot().Find(req.ProductID); !ok {
		return models.CartSnapshot{}, errors.BadRequestError("Item not found in the cart")
	}

	return sess.Cart.UpdateQuantity(req.ProductID, req.Quantity), nil
}

func (s *CartService) RemoveItem(ctx context.Context, claims *models.Claims, productID string) (models.CartSnapshot, error) {
	return s.session(claims).Cart.Remove(productID), nil
}

func (s *CartService) Clear(ctx context.Context, claims *models.Claims) (models.CartSnapshot, error) {
	return s.session(claims).Cart.Clear(), nil
}
