// Package store holds the shopper's cart, wishlist, comparison and reviews.
//
// All stores share one lock owned by the Storefront. Every mutator is a
// single critical section, so operations spanning stores (moving a wishlist
// product into the cart) are observed either fully applied or not at all.
// Catalog fetches run outside the lock and are applied when they resolve;
// overlapping syncs therefore settle on whichever fetch resolved last.
package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/kvstore"
)

// Session resolves the signed-in user.
type Session interface {
	CurrentUserID(ctx context.Context) (string, bool)
}

// CatalogFetcher returns the current remote catalog.
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context) ([]domain.Product, error)
}

// Options tune a Storefront.
type Options struct {
	// CartTTL expires stored carts after a period without writes. Zero keeps them forever.
	CartTTL time.Duration

	// Now is the clock used for review timestamps. Defaults to time.Now.
	Now func() time.Time
}

// Storefront groups the four stores behind one lock.
type Storefront struct {
	mu     sync.RWMutex
	logger *slog.Logger

	Cart       *CartStore
	Wishlist   *WishlistStore
	Comparison *ComparisonStore
	Reviews    *ReviewStore
}

// New builds the stores and loads persisted wishlist and reviews. The cart is
// loaded for the current session user, if any.
func New(ctx context.Context, kv kvstore.Store, session Session, catalog CatalogFetcher, logger *slog.Logger, opts Options) *Storefront {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	sf := &Storefront{logger: logger}
	st := storage{kv: kv, logger: logger}

	sf.Cart = newCartStore(&sf.mu, st, session, opts.CartTTL)
	sf.Wishlist = newWishlistStore(ctx, &sf.mu, st, catalog, sf.Cart)
	sf.Comparison = newComparisonStore(&sf.mu, logger)
	sf.Reviews = newReviewStore(ctx, &sf.mu, st, catalog, opts.Now)

	sf.Cart.LoadCart(ctx)

	return sf
}

// Snapshot is a consistent view across all stores.
type Snapshot struct {
	Cart       CartView                `json:"cart"`
	Wishlist   []domain.Product        `json:"wishlist"`
	Comparison []domain.Product        `json:"comparison"`
	Reviews    domain.ReviewsByProduct `json:"reviews"`
}

// Snapshot reads every store in one critical section. The cart is resolved
// against the current session user first.
func (sf *Storefront) Snapshot(ctx context.Context) Snapshot {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	sf.Cart.currentUserLocked(ctx)
	return Snapshot{
		Cart:       sf.Cart.viewLocked(),
		Wishlist:   sf.Wishlist.itemsLocked(),
		Comparison: sf.Comparison.itemsLocked(),
		Reviews:    sf.Reviews.reviews.Clone(),
	}
}

// SyncWithCatalog reconciles the wishlist and the reviews with the catalog
// concurrently and returns once both are done.
func (sf *Storefront) SyncWithCatalog(ctx context.Context) {
	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sf.Wishlist.SyncWithCatalog(ctx)
	}()
	go func() {
		defer wg.Done()
		sf.Reviews.SyncWithCatalog(ctx)
	}()
	wg.Wait()

	sf.logger.InfoContext(ctx, "catalog sync finished", slog.Duration("duration", time.Since(start)))
}
