package state

import "github.com/shopsphere/storefront/internal/models"

// WishlistStore owns the wishlist snapshot for one session. Same contract as
// CartStore: pure reducers, insertion order, unique product ids.
type WishlistStore struct {
	base
	snap models.WishlistSnapshot
}

func NewWishlistStore() *WishlistStore {
	return &WishlistStore{}
}

func (s *WishlistStore) Snapshot() models.WishlistSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneWishlist(s.snap)
}

// Add appends entry. Adding a product already on the list is a no-op.
func (s *WishlistStore) Add(entry models.WishlistEntry) models.WishlistSnapshot {
	return s.apply(func(prev models.WishlistSnapshot) models.WishlistSnapshot {
		return reduceWishlistAdd(prev, entry)
	})
}

// Remove drops the entry for productID; absent ids are a no-op.
func (s *WishlistStore) Remove(productID string) models.WishlistSnapshot {
	return s.apply(func(prev models.WishlistSnapshot) models.WishlistSnapshot {
		return reduceWishlistRemove(prev, productID)
	})
}

func (s *WishlistStore) Clear() models.WishlistSnapshot {
	return s.apply(func(models.WishlistSnapshot) models.WishlistSnapshot {
		return models.WishlistSnapshot{}
	})
}

// Replace seeds the store from a remote snapshot; observers are not notified.
func (s *WishlistStore) Replace(snap models.WishlistSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = cloneWishlist(snap)
}

func (s *WishlistStore) Subscribe(fn func(models.WishlistSnapshot)) func() {
	return s.subscribe(fn)
}

func (s *WishlistStore) apply(reduce func(models.WishlistSnapshot) models.WishlistSnapshot) models.WishlistSnapshot {
	s.mu.Lock()
	s.snap = reduce(s.snap)
	next := cloneWishlist(s.snap)
	subs := s.observers()
	s.mu.Unlock()

	for _, fn := range subs {
		fn.(func(models.WishlistSnapshot))(next)
	}

	return next
}

func reduceWishlistAdd(prev models.WishlistSnapshot, entry models.WishlistEntry) models.WishlistSnapshot {
	if prev.Contains(entry.ProductID) {
		return prev
	}

	entries := make([]models.WishlistEntry, 0, len(prev.Entries)+1)
	entries = append(entries, prev.Entries...)
	entries = append(entries, entry)

	return models.WishlistSnapshot{Entries: entries}
}

func reduceWishlistRemove(prev models.WishlistSnapshot, productID string) models.WishlistSnapshot {
	entries := make([]models.WishlistEntry, 0, len(prev.Entries))

	for _, e := range prev.Entries {
		if e.ProductID == productID {
			continue
		}

		entries = append(entries, e)
	}

	return models.WishlistSnapshot{Entries: entries}
}

func cloneWishlist(snap models.WishlistSnapshot) models.WishlistSnapshot {
	out := snap
	out.Entries = make([]models.WishlistEntry, len(snap.Entries))
	copy(out.Entries, snap.Entries)

	return out
}
