package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopsphere/storefront/internal/identity"
	"github.com/shopsphere/storefront/internal/models"
)

func TestStream(t *testing.T) {
	t.Run("Unresolved Until First Publish", func(t *testing.T) {
		stream := identity.NewStream()

		cur, resolved := stream.Current()

		assert.False(t, resolved)
		assert.Nil(t, cur)
	})

	t.Run("Publish Nil Means Signed Out But Resolved", func(t *testing.T) {
		stream := identity.NewStream()

		stream.Publish(nil)
		cur, resolved := stream.Current()

		assert.True(t, resolved)
		assert.Nil(t, cur)
	})

	t.Run("Late Subscriber Receives Current Value", func(t *testing.T) {
		// Arrange
		stream := identity.NewStream()
		stream.Publish(&identity.Identity{UID: "u1", Role: models.RoleBuyer})

		// Act
		var got *identity.Identity
		stream.Subscribe(func(id *identity.Identity) { got = id })

		// Assert
		assert.NotNil(t, got)
		assert.Equal(t, "u1", got.UID)
	})

	t.Run("Unsubscribe Stops Delivery", func(t *testing.T) {
		// Arrange
		stream := identity.NewStream()
		calls := 0
		unsub := stream.Subscribe(func(*identity.Identity) { calls++ })

		stream.Publish(&identity.Identity{UID: "u1"})

		// Act
		unsub()
		stream.Publish(nil)

		// Assert
		assert.Equal(t, 1, calls)
	})
}
