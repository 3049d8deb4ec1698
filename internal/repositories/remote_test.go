package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopsphere/storefront/internal/models"
	repository "github.com/shopsphere/storefront/internal/repositories"
	"github.com/shopsphere/storefront/internal/repositories/mocks"
)

func TestRemote(t *testing.T) {
	t.Run("PullCart Returns Stored Snapshot And Version", func(t *testing.T) {
		// Arrange
		mockCart := new(mocks.CartRepository)
		remote := repository.NewRemote(mockCart, new(mocks.WishlistRepository))

		stored := &models.CartSnapshot{
			Items:     []models.CartLineItem{{ProductID: "p1", UnitPrice: 5, Quantity: 2}},
			ItemCount: 2,
			Total:     10,
		}
		mockCart.On("Get", mock.Anything, "u1").Return(stored, "v1", nil).Once()

		// Act
		snap, ver, err := remote.PullCart(context.Background(), "u1")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, stored, snap)
		assert.Equal(t, "v1", ver)
		mockCart.AssertExpectations(t)
	})

	t.Run("PullCart Miss Is Nil Not An Error", func(t *testing.T) {
		// Arrange
		mockCart := new(mocks.CartRepository)
		remote := repository.NewRemote(mockCart, new(mocks.WishlistRepository))
		mockCart.On("Get", mock.Anything, "u1").Return((*models.CartSnapshot)(nil), "", nil).Once()

		// Act
		snap, ver, err := remote.PullCart(context.Background(), "u1")

		// Assert
		require.NoError(t, err)
		assert.Nil(t, snap)
		assert.Empty(t, ver)
	})

	t.Run("PushCart Writes Snapshot For UID", func(t *testing.T) {
		// Arrange
		mockCart := new(mocks.CartRepository)
		remote := repository.NewRemote(mockCart, new(mocks.WishlistRepository))

		snap := models.CartSnapshot{
			Items:     []models.CartLineItem{{ProductID: "p1", UnitPrice: 5, Quantity: 1}},
			ItemCount: 1,
			Total:     5,
		}
		mockCart.On("Put", mock.Anything, "u1", snap).Return("v2", nil).Once()

		// Act
		ver, err := remote.PushCart(context.Background(), "u1", snap)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "v2", ver)
		mockCart.AssertExpectations(t)
	})

	t.Run("PullWishlist And PushWishlist Route To Wishlist Store", func(t *testing.T) {
		// Arrange
		mockWishlist := new(mocks.WishlistRepository)
		remote := repository.NewRemote(new(mocks.CartRepository), mockWishlist)

		stored := &models.WishlistSnapshot{Entries: []models.WishlistEntry{{ProductID: "w1"}}}
		mockWishlist.On("Get", mock.Anything, "u1").Return(stored, "v1", nil).Once()
		mockWishlist.On("Put", mock.Anything, "u1", *stored).Return("v2", nil).Once()

		// Act
		snap, ver, err := remote.PullWishlist(context.Background(), "u1")
		require.NoError(t, err)

		pushedVer, pushErr := remote.PushWishlist(context.Background(), "u1", *snap)

		// Assert
		require.NoError(t, pushErr)
		assert.Equal(t, "v1", ver)
		assert.Equal(t, "v2", pushedVer)
		mockWishlist.AssertExpectations(t)
	})
}
