// Package state holds the local cart and wishlist containers. Local state is
// the source of truth while a session is active; the remote store follows it
// through the sync engine, never the reverse.
//
// All mutation goes through pure reducers: previous snapshot in, new snapshot
// out, applied under the container's lock in dispatch order. Readers only
// ever see complete snapshots. Reducers never reject input; malformed values
// are clamped at the exported boundary before the reducer runs.
package state

import "github.com/shopsphere/storefront/internal/models"

// CartStore owns the cart snapshot for one session.
type CartStore struct {
	base
	snap models.CartSnapshot
}

func NewCartStore() *CartStore {
	return &CartStore{}
}

// Snapshot returns the current cart value. The returned items slice is a
// copy; callers may hold it across later mutations.
func (s *CartStore) Snapshot() models.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneCart(s.snap)
}

// Add puts qty units of item into the cart. A second add of the same product
// increments the existing line instead of duplicating it. qty < 1 is clamped
// to 1 here, at the boundary.
func (s *CartStore) Add(item models.CartLineItem, qty int) models.CartSnapshot {
	if qty < 1 {
		qty = 1
	}

	return s.apply(func(prev models.CartSnapshot) models.CartSnapshot {
		return reduceCartAdd(prev, item, qty)
	})
}

// UpdateQuantity sets the line for productID to qty. qty == 0 behaves as
// Remove, and a negative qty is clamped to 0 and removes the line too;
// setting a quantity never bumps it up to 1 the way Add does. Unknown
// productID is a no-op.
func (s *CartStore) UpdateQuantity(productID string, qty int) models.CartSnapshot {
	if qty < 0 {
		qty = 0
	}

	return s.apply(func(prev models.CartSnapshot) models.CartSnapshot {
		return reduceCartUpdate(prev, productID, qty)
	})
}

// Remove drops the line for productID. Removing an absent product is a no-op.
func (s *CartStore) Remove(productID string) models.CartSnapshot {
	return s.apply(func(prev models.CartSnapshot) models.CartSnapshot {
		return reduceCartUpdate(prev, productID, 0)
	})
}

// Clear resets the cart to the empty sequence.
func (s *CartStore) Clear() models.CartSnapshot {
	return s.apply(func(models.CartSnapshot) models.CartSnapshot {
		return models.CartSnapshot{}
	})
}

// Replace seeds the store from a remote snapshot during sign-in
// reconciliation. Observers are not notified: seeding is not a user mutation
// and must not schedule a push of what was just pulled.
func (s *CartStore) Replace(snap models.CartSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = recomputeCart(cloneCart(snap).Items)
}

// Subscribe registers an observer called with the new snapshot after every
// applied mutation. The returned func unsubscribes.
func (s *CartStore) Subscribe(fn func(models.CartSnapshot)) func() {
	return s.subscribe(fn)
}

func (s *CartStore) apply(reduce func(models.CartSnapshot) models.CartSnapshot) models.CartSnapshot {
	s.mu.Lock()
	s.snap = reduce(s.snap)
	next := cloneCart(s.snap)
	subs := s.observers()
	s.mu.Unlock()

	// Notify outside the lock so an observer may read the store.
	for _, fn := range subs {
		fn.(func(models.CartSnapshot))(next)
	}

	return next
}

// reduceCartAdd is a pure reducer: it never mutates prev.
func reduceCartAdd(prev models.CartSnapshot, item models.CartLineItem, qty int) models.CartSnapshot {
	items := make([]models.CartLineItem, 0, len(prev.Items)+1)
	found := false

	for _, it := range prev.Items {
		if it.ProductID == item.ProductID {
			it.Quantity += qty
			found = true
		}

		items = append(items, it)
	}

	if !found {
		item.Quantity = qty
		items = append(items, item)
	}

	return recomputeCart(items)
}

// reduceCartUpdate sets the quantity for productID; zero removes the line.
func reduceCartUpdate(prev models.CartSnapshot, productID string, qty int) models.CartSnapshot {
	items := make([]models.CartLineItem, 0, len(prev.Items))

	for _, it := range prev.Items {
		if it.ProductID == productID {
			if qty == 0 {
				continue
			}

			it.Quantity = qty
		}

		items = append(items, it)
	}

	return recomputeCart(items)
}

// recomputeCart derives totals from the line items. A line that would carry
// quantity < 1 is dropped rather than persisted.
func recomputeCart(items []models.CartLineItem) models.CartSnapshot {
	kept := items[:0]

	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}

		kept = append(kept, it)
	}

	snap := models.CartSnapshot{Items: kept}
	for _, it := range kept {
		snap.ItemCount += it.Quantity
		snap.Total += it.Subtotal()
	}

	return snap
}

func cloneCart(snap models.CartSnapshot) models.CartSnapshot {
	out := snap
	out.Items = make([]models.CartLineItem, len(snap.Items))
	copy(out.Items, snap.Items)

	return out
}
