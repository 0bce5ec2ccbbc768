package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/kvstore"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// WishlistStore is the set of products the shopper saved for later, kept in
// insertion order.
type WishlistStore struct {
	mu      *sync.RWMutex
	storage storage
	catalog CatalogFetcher
	cart    *CartStore

	items []domain.Product
}

func newWishlistStore(ctx context.Context, mu *sync.RWMutex, st storage, catalog CatalogFetcher, cart *CartStore) *WishlistStore {
	w := &WishlistStore{
		mu:      mu,
		storage: st,
		catalog: catalog,
		cart:    cart,
	}

	stored, _ := load[[]domain.Product](ctx, st, kvstore.KeyWishlist)
	for _, p := range stored {
		if p.ID != "" && w.indexLocked(p.ID) < 0 {
			w.items = append(w.items, p)
		}
	}
	return w
}

func (w *WishlistStore) indexLocked(id domain.ProductID) int {
	for i := range w.items {
		if w.items[i].ID == id {
			return i
		}
	}
	return -1
}

// AddToWishlist adds product unless a product with the same id is already
// wishlisted. It reports whether the wishlist changed.
func (w *WishlistStore) AddToWishlist(ctx context.Context, product domain.Product) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.indexLocked(product.ID) >= 0 {
		return false
	}
	w.items = append(w.items, product)
	w.persistLocked(ctx)

	w.storage.logger.InfoContext(ctx, "product wishlisted", slog.String("product_id", product.ID.String()))
	return true
}

// RemoveFromWishlist drops the product with the given id if present.
func (w *WishlistStore) RemoveFromWishlist(ctx context.Context, productID domain.ProductID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.removeLocked(ctx, productID)
}

func (w *WishlistStore) removeLocked(ctx context.Context, productID domain.ProductID) {
	i := w.indexLocked(productID)
	if i >= 0 {
		w.items = append(w.items[:i], w.items[i+1:]...)
	}
	w.persistLocked(ctx)

	if i < 0 {
		w.storage.logger.DebugContext(ctx, "wishlist has no product to remove", slog.String("product_id", productID.String()))
		return
	}
	w.storage.logger.InfoContext(ctx, "product removed from wishlist", slog.String("product_id", productID.String()))
}

// ClearWishlist empties the wishlist.
func (w *WishlistStore) ClearWishlist(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.items = nil
	w.persistLocked(ctx)

	w.storage.logger.InfoContext(ctx, "wishlist cleared")
}

// MoveToCart adds product to the cart and removes it from the wishlist as one
// step. When the cart refuses the product (no session) the wishlist is left
// as is and MoveToCart reports false.
func (w *WishlistStore) MoveToCart(ctx context.Context, product domain.Product) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.moveLocked(ctx, product)
}

// MoveToCartByID moves the wishlisted product with the given id into the cart.
// The lookup and the move happen in one critical section. It returns a not
// found error when the product is not wishlisted and an unauthorized error
// when there is no session.
func (w *WishlistStore) MoveToCartByID(ctx context.Context, productID domain.ProductID) (domain.Product, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.indexLocked(productID)
	if i < 0 {
		return domain.Product{}, apperrors.NotFound("wishlist item", productID.String())
	}
	product := w.items[i]
	if !w.moveLocked(ctx, product) {
		return domain.Product{}, apperrors.Unauthorized("sign in required")
	}
	return product, nil
}

func (w *WishlistStore) moveLocked(ctx context.Context, product domain.Product) bool {
	if !w.cart.addLocked(ctx, product) {
		return false
	}
	w.removeLocked(ctx, product.ID)
	return true
}

// SyncWithCatalog refreshes wishlisted products with current catalog data.
// Products no longer in the catalog are dropped and the result follows catalog
// order. The catalog is fetched without holding the lock; the wishlist as it
// stands when the fetch resolves is what gets filtered. On fetch failure the
// wishlist is left unchanged.
func (w *WishlistStore) SyncWithCatalog(ctx context.Context) {
	products, err := w.catalog.FetchCatalog(ctx)
	if err != nil {
		w.storage.logger.WarnContext(ctx, "wishlist sync failed", slog.String("error", err.Error()))
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	wanted := make(map[domain.ProductID]struct{}, len(w.items))
	for _, p := range w.items {
		wanted[p.ID] = struct{}{}
	}

	synced := make([]domain.Product, 0, len(wanted))
	for _, p := range products {
		if _, ok := wanted[p.ID]; !ok {
			continue
		}
		synced = append(synced, p)
		delete(wanted, p.ID)
	}

	dropped := len(w.items) - len(synced)
	w.items = synced
	w.persistLocked(ctx)

	w.storage.logger.InfoContext(ctx, "wishlist synced with catalog",
		slog.Int("products", len(synced)),
		slog.Int("dropped", dropped),
	)
}

func (w *WishlistStore) persistLocked(ctx context.Context) {
	items := w.items
	if items == nil {
		items = []domain.Product{}
	}
	w.storage.write(ctx, kvstore.KeyWishlist, items, 0)
}

// Items returns a copy of the wishlist.
func (w *WishlistStore) Items() []domain.Product {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.itemsLocked()
}

func (w *WishlistStore) itemsLocked() []domain.Product {
	out := make([]domain.Product, len(w.items))
	copy(out, w.items)
	return out
}

// Contains reports whether productID is wishlisted.
func (w *WishlistStore) Contains(productID domain.ProductID) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.indexLocked(productID) >= 0
}
