package models

import "time"

// WishlistEntry carries a small product snapshot so the wishlist renders
// without a catalog round-trip.
type WishlistEntry struct {
	ProductID string    `json:"product_id" firestore:"productId"`
	Title     string    `json:"title"      firestore:"title"`
	Price     float64   `json:"price"      firestore:"price"`
	ImageURL  string    `json:"image_url,omitempty" firestore:"imageUrl"`
	AddedAt   time.Time `json:"added_at"   firestore:"addedAt"`
}

// WishlistSnapshot is the full wishlist at one instant, insertion ordered,
// unique by product id.
type WishlistSnapshot struct {
	Entries []WishlistEntry `json:"entries"`
}

func (s WishlistSnapshot) Empty() bool {
	return len(s.Entries) == 0
}

func (s WishlistSnapshot) Contains(productID string) bool {
	for _, e := range s.Entries {
		if e.ProductID == productID {
			return true
		}
	}

	return false
}

type AddWishlistEntryRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}
