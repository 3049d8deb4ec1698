package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	appErrors "github.com/shopsphere/storefront/internal/errors"
	"github.com/shopsphere/storefront/internal/models"
	"github.com/shopsphere/storefront/internal/repositories/mocks"
	service "github.com/shopsphere/storefront/internal/services"
	storesync "github.com/shopsphere/storefront/internal/sync"
)

// stubRemote is a no-op remote store: pulls find nothing, pushes succeed.
type stubRemote struct{}

func (stubRemote) PullCart(ctx context.Context, uid string) (*models.CartSnapshot, string, error) {
	return nil, "", nil
}

func (stubRemote) PushCart(ctx context.Context, uid string, snap models.CartSnapshot) (string, error) {
	return "v", nil
}

func (stubRemote) PullWishlist(ctx context.Context, uid string) (*models.WishlistSnapshot, string, error) {
	return nil, "", nil
}

func (stubRemote) PushWishlist(ctx context.Context, uid string, snap models.WishlistSnapshot) (string, error) {
	return "v", nil
}

func newSessionManager(t *testing.T) *service.SessionManager {
	t.Helper()

	m := service.NewSessionManager(storesync.Options{}, stubRemote{}, nil, nil)
	t.Cleanup(m.Close)

	return m
}

func buyerClaims(uid string) *models.Claims {
	return &models.Claims{UID: uid, Role: models.RoleBuyer}
}

func activeProduct(id string, price float64) *models.Product {
	return &models.Product{ID: id, Name: "Product " + id, Price: price, Stock: 10, Status: "active"}
}

func TestCartAddItem(t *testing.T) {
	ctx := context.Background()
	claims := buyerClaims("u1")

	t.Run("Success - Freezes Title And Price At Add Time", func(t *testing.T) {
		// Arrange
		mockProducts := new(mocks.ProductRepository)
		cartService := service.NewCartService(newSessionManager(t), mockProducts)
		mockProducts.On("Get", ctx, "p1").Return(activeProduct("p1", 19.99), nil).Once()

		// Act
		snap, err := cartService.AddItem(ctx, claims, &models.AddCartItemRequest{ProductID: "p1", Quantity: 2})

		// Assert
		assert.NoError(t, err)
		line, ok := snap.Find("p1")
		assert.True(t, ok)
		assert.Equal(t, "Product p1", line.Title)
		assert.InDelta(t, 19.99, line.UnitPrice, 0.001)
		assert.Equal(t, 2, line.Quantity)
		mockProducts.AssertExpectations(t)
	})

	t.Run("Success - Mutation Visible Immediately", func(t *testing.T) {
		// Arrange
		mockProducts := new(mocks.ProductRepository)
		cartService := service.NewCartService(newSessionManager(t), mockProducts)
		mockProducts.On("Get", ctx, "p1").Return(activeProduct("p1", 5), nil).Once()

		// Act
		_, err := cartService.AddItem(ctx, claims, &models.AddCartItemRequest{ProductID: "p1", Quantity: 1})
		snap, getErr := cartService.Get(ctx, claims)

		// Assert - the returned snapshot already reflects the add; no
		// round-trip to the remote store happened.
		assert.NoError(t, err)
		assert.NoError(t, getErr)
		assert.Equal(t, 1, snap.ItemCount)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		// Arrange
		mockProducts := new(mocks.ProductRepository)
		cartService := service.NewCartService(newSessionManager(t), mockProducts)
		mockProducts.On("Get", ctx, "missing").Return(nil, nil).Once()

		// Act
		_, err := cartService.AddItem(ctx, claims, &models.AddCartItemRequest{ProductID: "missing", Quantity: 1})

		// Assert
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})

	t.Run("Failure - Inactive Product", func(t *testing.T) {
		// Arrange
		mockProducts := new(mocks.ProductRepository)
		cartService := service.NewCartService(newSessionManager(t), mockProducts)
		inactive := activeProduct("p1", 5)
		inactive.Status = "discontinued"
		mockProducts.On("Get", ctx, "p1").Return(inactive, nil).Once()

		// Act
		_, err := cartService.AddItem(ctx, claims, &models.AddCartItemRequest{ProductID: "p1", Quantity: 1})

		// Assert
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
	})

	t.Run("Failure - Catalog Unreachable", func(t *testing.T) {
		// Arrange
		mockProducts := new(mocks.ProductRepository)
		cartService := service.NewCartService(newSessionManager(t), mockProducts)
		mockProducts.On("Get", ctx, "p1").Return(nil, errors.New("deadline exceeded")).Once()

		// Act
		_, err := cartService.AddItem(ctx, claims, &models.AddCartItemRequest{ProductID: "p1", Quantity: 1})

		// Assert
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeRemoteUnavailable, appErr.Code)
	})
}

func TestCartUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	claims := buyerClaims("u1")

	t.Run("Success - Updates Existing Line", func(t *testing.T) {
		// Arrange
		mockProducts := new(mocks.ProductRepository)
		cartService := service.NewCartService(newSessionManager(t), mockProducts)
		mockProducts.On("Get", ctx, "p1").Return(activeProduct("p1", 4), nil).Once()
		_, err := cartService.AddItem(ctx, claims, &models.AddCartItemRequest{ProductID: "p1", Quantity: 1})
		assert.NoError(t, err)

		// Act
		snap, err := cartService.UpdateQuantity(ctx, claims, &models.UpdateCartQuantityRequest{ProductID: "p1", Quantity: 5})

		// Assert
		assert.NoError(t, err)
		line, _ := snap.Find("p1")
		assert.Equal(t, 5, line.Quantity)
	})

	t.Run("Failure - Item Not In Cart", func(t *testing.T) {
		// Arrange
		mockProducts := new(mocks.ProductRepository)
		cartService := service.NewCartService(newSessionManager(t), mockProducts)

		// Act
		_, err := cartService.UpdateQuantity(ctx, claims, &models.UpdateCartQuantityRequest{ProductID: "ghost", Quantity: 2})

		// Assert
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
		assert.Equal(t, "Item not found in the cart", appErr.Message)
	})
}

func TestCartRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	claims := buyerClaims("u1")

	t.Run("Success - Remove Is Idempotent", func(t *testing.T) {
		// Arrange
		mockProducts := new(mocks.ProductRepository)
		cartService := service.NewCartService(newSessionManager(t), mockProducts)
		mockProducts.On("Get", ctx, mock.Anything).Return(activeProduct("p1", 4), nil).Once()
		_, err := cartService.AddItem(ctx, claims, &models.AddCartItemRequest{ProductID: "p1", Quantity: 1})
		assert.NoError(t, err)

		// Act
		first, err1 := cartService.RemoveItem(ctx, claims, "p1")
		second, err2 := cartService.RemoveItem(ctx, claims, "p1")

		// Assert
		assert.NoError(t, err1)
		assert.NoError(t, err2)
		assert.True(t, first.Empty())
		assert.True(t, second.Empty())
	})

	t.Run("Success - Clear Empties The Cart", func(t *testing.T) {
		// Arrange
		mockProducts := new(mocks.ProductRepository)
		cartService := service.NewCartService(newSessionManager(t), mockProducts)
		mockProducts.On("Get", ctx, mock.Anything).Return(activeProduct("p1", 4), nil).Once()
		_, err := cartService.AddItem(ctx, claims, &models.AddCartItemRequest{ProductID: "p1", Quantity: 3})
		assert.NoError(t, err)

		// Act
		snap, err := cartService.Clear(ctx, claims)

		// Assert
		assert.NoError(t, err)
		assert.True(t, snap.Empty())
		assert.Equal(t, 0, snap.ItemCount)
	})
}
