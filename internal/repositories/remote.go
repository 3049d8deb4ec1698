package repository

import (
	"context"

	"github.com/shopsphere/storefront/internal/models"
)

// Remote bundles the cart and wishlist repositories into the surface the
// sync engine pushes through (it satisfies sync.Remote).
type Remote struct {
	Cart     CartRepository
	Wishlist WishlistRepository
}

func NewRemote(cart CartRepository, wishlist WishlistRepository) *Remote {
	return &Remote{Cart: cart, Wishlist: wishlist}
}

func (r *Remote) PullCart(ctx context.Context, uid string) (*models.CartSnapshot, string, error) {
	return r.Cart.Get(ctx, uid)
}

func (r *Remote) PushCart(ctx context.Context, uid string, snap models.CartSnapshot) (string, error) {
	return r.Cart.Put(ctx, uid, snap)
}

func (r *Remote) PullWishlist(ctx context.Context, uid string) (*models.WishlistSnapshot, string, error) {
	return r.Wishlist.Get(ctx, uid)
}

func (r *Remote) PushWishlist(ctx context.Context, uid string, snap models.WishlistSnapshot) (string, error) {
	return r.Wishlist.Put(ctx, uid, snap)
}
