// Package kvstore defines the device-local key/value persistence the stores
// write through to.
package kvstore

import (
	"context"
	"time"
)

// Well-known keys.
const (
	KeyWishlist = "wishlist"
	KeyReviews  = "allReviews"
	KeyToken    = "token"
)

// CartKey returns the key holding the cart of userID.
func CartKey(userID string) string {
	return "cart_" + userID
}

// Store is a string key/value store. Get returns an apperrors.NotFound error
// when the key is absent. A zero ttl means the value never expires.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
