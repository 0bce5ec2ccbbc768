package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
)

// MaxComparisonItems caps the number of products compared side by side.
const MaxComparisonItems = 4

// ComparisonStore is the set of products being compared. It lives in memory
// only and starts empty on every run.
type ComparisonStore struct {
	mu     *sync.RWMutex
	logger *slog.Logger

	items []domain.Product
}

func newComparisonStore(mu *sync.RWMutex, logger *slog.Logger) *ComparisonStore {
	return &ComparisonStore{mu: mu, logger: logger}
}

// AddToComparison adds product when there is room and it is not already being
// compared. It reports whether the product was added.
func (c *ComparisonStore) AddToComparison(ctx context.Context, product domain.Product) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) >= MaxComparisonItems || c.indexLocked(product.ID) >= 0 {
		return false
	}
	c.items = append(c.items, product)

	c.logger.InfoContext(ctx, "product added to comparison",
		slog.String("product_id", product.ID.String()),
		slog.Int("count", len(c.items)),
	)
	return true
}

// RemoveFromComparison drops productID if present.
func (c *ComparisonStore) RemoveFromComparison(ctx context.Context, productID domain.ProductID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexLocked(productID); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
		c.logger.InfoContext(ctx, "product removed from comparison", slog.String("product_id", productID.String()))
	}
}

// ClearComparison empties the comparison.
func (c *ComparisonStore) ClearComparison(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.logger.InfoContext(ctx, "comparison cleared")
}

// IsInComparison reports whether productID is being compared.
func (c *ComparisonStore) IsInComparison(productID domain.ProductID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexLocked(productID) >= 0
}

// ComparisonCount returns the number of compared products.
func (c *ComparisonStore) ComparisonCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Items returns a copy of the compared products in insertion order.
func (c *ComparisonStore) Items() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.itemsLocked()
}

func (c *ComparisonStore) itemsLocked() []domain.Product {
	out := make([]domain.Product, len(c.items))
	copy(out, c.items)
	return out
}

// MaxItems returns the comparison capacity.
func (c *ComparisonStore) MaxItems() int {
	return MaxComparisonItems
}

func (c *ComparisonStore) indexLocked(id domain.ProductID) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}
