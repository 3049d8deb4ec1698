package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopsphere/storefront/internal/models"
	"github.com/shopsphere/storefront/internal/state"
)

func lineItem(productID string, price float64) models.CartLineItem {
	return models.CartLineItem{ProductID: productID, Title: "Item " + productID, UnitPrice: price}
}

func TestCartAdd(t *testing.T) {
	t.Run("Success - New Item", func(t *testing.T) {
		// Arrange
		store := state.NewCartStore()

		// Act
		snap := store.Add(lineItem("p1", 9.99), 2)

		// Assert
		assert.Len(t, snap.Items, 1)
		assert.Equal(t, 2, snap.Items[0].Quantity)
		assert.Equal(t, 2, snap.ItemCount)
		assert.InDelta(t, 19.98, snap.Total, 0.001)
	})

	t.Run("Success - Same Product Increments Instead Of Duplicating", func(t *testing.T) {
		// Arrange
		store := state.NewCartStore()
		store.Add(lineItem("p1", 10), 2)

		// Act
		snap := store.Add(lineItem("p1", 10), 3)

		// Assert
		assert.Len(t, snap.Items, 1)
		assert.Equal(t, 5, snap.Items[0].Quantity)
		assert.Equal(t, 5, snap.ItemCount)
		assert.InDelta(t, 50, snap.Total, 0.001)
	})

	t.Run("Success - Quantity Below One Is Clamped", func(t *testing.T) {
		// Arrange
		store := state.NewCartStore()

		// Act
		snap := store.Add(lineItem("p1", 5), 0)

		// Assert
		assert.Len(t, snap.Items, 1)
		assert.Equal(t, 1, snap.Items[0].Quantity)
	})

	t.Run("Success - No Duplicate Product IDs Across Many Adds", func(t *testing.T) {
		// Arrange
		store := state.NewCartStore()

		// Act
		store.Add(lineItem("p1", 1), 1)
		store.Add(lineItem("p2", 2), 1)
		store.Add(lineItem("p1", 1), 1)
		snap := store.Add(lineItem("p2", 2), 1)

		// Assert
		seen := map[string]bool{}
		for _, it := range snap.Items {
			assert.False(t, seen[it.ProductID], "duplicate line for %s", it.ProductID)
			seen[it.ProductID] = true
		}
		assert.Len(t, snap.Items, 2)
	})
}

func TestCartUpdateQuantity(t *testing.T) {
	t.Run("Success - Sets Quantity", func(t *testing.T) {
		// Arrange
		store := state.NewCartStore()
		store.Add(lineItem("p1", 4), 2)

		// Act
		snap := store.UpdateQuantity("p1", 7)

		// Assert
		assert.Equal(t, 7, snap.Items[0].Quantity)
		assert.InDelta(t, 28, snap.Total, 0.001)
	})

	t.Run("Success - Zero Removes The Line", func(t *testing.T) {
		// Arrange
		store := state.NewCartStore()
		store.Add(lineItem("p1", 4), 2)

		// Act
		snap := store.UpdateQuantity("p1", 0)

		// Assert
		assert.Empty(t, snap.Items)
		assert.Equal(t, 0, snap.ItemCount)
	})

	t.Run("Success - Negative Quantity Clamped To Removal", func(t *testing.T) {
		// Arrange
		store := state.NewCartStore()
		store.Add(lineItem("p1", 4), 2)

		// Act
		snap := store.UpdateQuantity("p1", -3)

		// Assert
		assert.Empty(t, snap.Items)
	})

	t.Run("Success - Unknown Product Is A NoOp", func(t *testing.T) {
		// Arrange
		store := state.NewCartStore()
		store.Add(lineItem("p1", 4), 2)

		// Act
		snap := store.UpdateQuantity("missing", 5)

		// Assert
		assert.Len(t, snap.Items, 1)
		assert.Equal(t, 2, snap.Items[0].Quantity)
	})
}

func TestCartRemove(t *testing.T) {
	t.Run("Success - Double Remove Is Idempotent", func(t *testing.T) {
		// Arrange
		store := state.NewCartStore()
		store.Add(lineItem("p1", 4), 2)
		store.Add(lineItem("p2", 3), 1)

		// Act
		first := store.Remove("p1")
		second := store.Remove("p1")

		// Assert
		assert.Len(t, first.Items, 1)
		assert.Equal(t, first.Items, second.Items)
		assert.Equal(t, first.Total, second.Total)
	})
}

func TestCartInvariants(t *testing.T) {
	t.Run("Success - Every Line Has Positive Quantity", func(t *testing.T) {
		// Arrange
		store := state.NewCartStore()
		store.Add(lineItem("p1", 2), 3)
		store.Add(lineItem("p2", 5), 1)
		store.UpdateQuantity("p2", 0)
		store.Add(lineItem("p3", 1), -5)

		// Act
		snap := store.Snapshot()

		// Assert
		for _, it := range snap.Items {
			assert.GreaterOrEqual(t, it.Quantity, 1)
		}
	})

	t.Run("Success - Totals Derived From Lines", func(t *testing.T) {
		// Arrange
		store := state.NewCartStore()
		store.Add(lineItem("p1", 2.50), 2)
		store.Add(lineItem("p2", 10), 1)

		// Act
		snap := store.Snapshot()

		// Assert
		assert.Equal(t, 3, snap.ItemCount)
		assert.InDelta(t, 15, snap.Total, 0.001)
	})

	t.Run("Success - Snapshot Is A Stable Copy", func(t *testing.T) {
		// Arrange
		store := state.NewCartStore()
		store.Add(lineItem("p1", 2), 1)

		// Act
		before := store.Snapshot()
		store.Add(lineItem("p1", 2), 4)

		// Assert
		assert.Equal(t, 1, before.Items[0].Quantity)
	})
}

func TestCartSubscribe(t *testing.T) {
	t.Run("Success - Observers Run In Registration Order", func(t *testing.T) {
		// Arrange
		store := state.NewCartStore()
		var order []string

		store.Subscribe(func(models.CartSnapshot) { order = append(order, "first") })
		store.Subscribe(func(models.CartSnapshot) { order = append(order, "second") })

		// Act
		store.Add(lineItem("p1", 1), 1)

		// Assert
		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("Success - Unsubscribe Stops Notifications", func(t *testing.T) {
		// Arrange
		store := state.NewCartStore()
		calls := 0
		unsub := store.Subscribe(func(models.CartSnapshot) { calls++ })

		store.Add(lineItem("p1", 1), 1)

		// Act
		unsub()
		store.Add(lineItem("p2", 1), 1)

		// Assert
		assert.Equal(t, 1, calls)
	})

	t.Run("Success - Replace Does Not Notify", func(t *testing.T) {
		// Arrange
		store := state.NewCartStore()
		calls := 0
		store.Subscribe(func(models.CartSnapshot) { calls++ })

		// Act
		store.Replace(models.CartSnapshot{Items: []models.CartLineItem{
			{ProductID: "p1", UnitPrice: 2, Quantity: 3},
		}})

		// Assert
		assert.Equal(t, 0, calls)
		snap := store.Snapshot()
		assert.Equal(t, 3, snap.ItemCount)
		assert.InDelta(t, 6, snap.Total, 0.001)
	})
}
