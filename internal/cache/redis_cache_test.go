package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsphere/storefront/internal/cache"
	"github.com/shopsphere/storefront/internal/models"
)

const defaultTTL = 5 * time.Minute

func setup(t *testing.T) (cache.Cache, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()

	return cache.NewRedisCache(client, defaultTTL), mock
}

func TestCacheGet(t *testing.T) {
	ctx := context.Background()
	key := cache.Key(cache.ProductKeyPrefix, "p1")
	product := models.Product{ID: "p1", Name: "Widget", Price: 9.99}
	payload, err := json.Marshal(product)
	require.NoError(t, err)

	t.Run("Success - Hit", func(t *testing.T) {
		// Arrange
		c, mock := setup(t)
		mock.ExpectGet(key).SetVal(string(payload))

		var got models.Product

		// Act
		found, err := c.Get(ctx, key, &got)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, product, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Miss Is Not An Error", func(t *testing.T) {
		// Arrange
		c, mock := setup(t)
		mock.ExpectGet(key).SetErr(redis.Nil)

		var got models.Product

		// Act
		found, err := c.Get(ctx, key, &got)

		// Assert
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, got.ID)
	})

	t.Run("Failure - Redis Unreachable", func(t *testing.T) {
		// Arrange
		c, mock := setup(t)
		wantErr := errors.New("connection refused")
		mock.ExpectGet(key).SetErr(wantErr)

		var got models.Product

		// Act
		found, err := c.Get(ctx, key, &got)

		// Assert
		require.Error(t, err)
		assert.False(t, found)
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("Failure - Corrupt Entry", func(t *testing.T) {
		// Arrange
		c, mock := setup(t)
		mock.ExpectGet(key).SetVal(`{"price": "not a number"}`)

		var got models.Product

		// Act
		found, err := c.Get(ctx, key, &got)

		// Assert
		require.Error(t, err)
		assert.False(t, found)
	})
}

func TestCacheSet(t *testing.T) {
	ctx := context.Background()
	key := cache.Key(cache.ProductKeyPrefix, "p1")
	product := models.Product{ID: "p1", Name: "Widget"}
	payload, err := json.Marshal(product)
	require.NoError(t, err)

	t.Run("Success - Explicit TTL", func(t *testing.T) {
		// Arrange
		c, mock := setup(t)
		mock.ExpectSet(key, payload, time.Minute).SetVal("OK")

		// Act & Assert
		assert.NoError(t, c.Set(ctx, key, product, time.Minute))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Zero TTL Falls Back To Default", func(t *testing.T) {
		// Arrange
		c, mock := setup(t)
		mock.ExpectSet(key, payload, defaultTTL).SetVal("OK")

		// Act & Assert
		assert.NoError(t, c.Set(ctx, key, product, 0))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Unmarshallable Value", func(t *testing.T) {
		// Arrange
		c, mock := setup(t)

		// Act & Assert
		assert.Error(t, c.Set(ctx, key, make(chan int), time.Minute))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCacheDelete(t *testing.T) {
	ctx := context.Background()
	key := cache.Key(cache.ProductKeyPrefix, "p1")

	t.Run("Success", func(t *testing.T) {
		// Arrange
		c, mock := setup(t)
		mock.ExpectDel(key).SetVal(1)

		// Act & Assert
		assert.NoError(t, c.Delete(ctx, key))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Unreachable", func(t *testing.T) {
		// Arrange
		c, mock := setup(t)
		wantErr := errors.New("connection refused")
		mock.ExpectDel(key).SetErr(wantErr)

		// Act & Assert
		assert.ErrorIs(t, c.Delete(ctx, key), wantErr)
	})
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "product:p1", cache.Key(cache.ProductKeyPrefix, "p1"))
	assert.Equal(t, "role:u1", cache.Key(cache.RoleKeyPrefix, "u1"))
}
