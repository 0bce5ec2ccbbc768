package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/kvstore"
)

// CartView is a consistent read of the cart with its derived totals.
type CartView struct {
	UserID     string      `json:"userId"`
	Lines      domain.Cart `json:"lines"`
	TotalItems int         `json:"totalItems"`
	TotalCost  string      `json:"totalCost"`
}

// CartStore holds the cart of the signed-in shopper. Each user's cart lives
// under its own key and is never written under another user's key.
type CartStore struct {
	mu      *sync.RWMutex
	storage storage
	session Session
	ttl     time.Duration

	userID string
	lines  domain.Cart
}

func newCartStore(mu *sync.RWMutex, st storage, session Session, ttl time.Duration) *CartStore {
	return &CartStore{
		mu:      mu,
		storage: st,
		session: session,
		ttl:     ttl,
	}
}

// LoadCart replaces the in-memory cart with the stored cart of the current
// user. Without a session, or when the stored cart is missing or malformed,
// the cart is empty.
func (c *CartStore) LoadCart(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	userID, ok := c.session.CurrentUserID(ctx)
	if !ok {
		c.userID, c.lines = "", nil
		return
	}
	c.loadLocked(ctx, userID)
}

func (c *CartStore) loadLocked(ctx context.Context, userID string) {
	c.userID = userID
	c.lines = nil

	lines, ok := load[domain.Cart](ctx, c.storage, kvstore.CartKey(userID))
	if !ok {
		return
	}
	for _, line := range lines {
		if line.Quantity <= 0 || line.Product.ID == "" || c.lines.FindLine(line.Product.ID) >= 0 {
			continue
		}
		c.lines = append(c.lines, line)
	}

	c.storage.logger.DebugContext(ctx, "cart loaded",
		slog.String("user_id", userID),
		slog.Int("lines", len(c.lines)),
	)
}

// currentUserLocked resolves the session user and reloads the cart when the
// user changed since the last load. ok is false without a session.
func (c *CartStore) currentUserLocked(ctx context.Context) (string, bool) {
	userID, ok := c.session.CurrentUserID(ctx)
	if !ok {
		if c.userID != "" {
			c.userID, c.lines = "", nil
		}
		return "", false
	}
	if userID != c.userID {
		c.loadLocked(ctx, userID)
	}
	return userID, true
}

// AddToCart adds one unit of product. It reports false when there is no
// session and nothing was changed.
func (c *CartStore) AddToCart(ctx context.Context, product domain.Product) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addLocked(ctx, product)
}

func (c *CartStore) addLocked(ctx context.Context, product domain.Product) bool {
	userID, ok := c.currentUserLocked(ctx)
	if !ok {
		c.storage.logger.DebugContext(ctx, "add to cart ignored without session",
			slog.String("product_id", product.ID.String()),
		)
		return false
	}

	if i := c.lines.FindLine(product.ID); i >= 0 {
		c.lines[i].Quantity++
	} else {
		c.lines = append(c.lines, domain.CartLine{Product: product, Quantity: 1})
	}
	c.persistLocked(ctx)

	c.storage.logger.InfoContext(ctx, "item added to cart",
		slog.String("user_id", userID),
		slog.String("product_id", product.ID.String()),
	)
	return true
}

// RemoveFromCart drops the line for productID if present.
func (c *CartStore) RemoveFromCart(ctx context.Context, productID domain.ProductID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(ctx, productID)
}

func (c *CartStore) removeLocked(ctx context.Context, productID domain.ProductID) {
	userID, ok := c.currentUserLocked(ctx)
	if !ok {
		return
	}

	i := c.lines.FindLine(productID)
	if i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
	c.persistLocked(ctx)

	if i < 0 {
		c.storage.logger.DebugContext(ctx, "cart has no line to remove",
			slog.String("user_id", userID),
			slog.String("product_id", productID.String()),
		)
		return
	}
	c.storage.logger.InfoContext(ctx, "item removed from cart",
		slog.String("user_id", userID),
		slog.String("product_id", productID.String()),
	)
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line; an unknown product is ignored.
func (c *CartStore) UpdateQuantity(ctx context.Context, productID domain.ProductID, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.removeLocked(ctx, productID)
		return
	}

	userID, ok := c.currentUserLocked(ctx)
	if !ok {
		return
	}

	i := c.lines.FindLine(productID)
	if i < 0 {
		return
	}
	c.lines[i].Quantity = quantity
	c.persistLocked(ctx)

	c.storage.logger.InfoContext(ctx, "cart quantity updated",
		slog.String("user_id", userID),
		slog.String("product_id", productID.String()),
		slog.Int("quantity", quantity),
	)
}

// ClearCart empties the cart.
func (c *CartStore) ClearCart(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	userID, ok := c.currentUserLocked(ctx)
	if !ok {
		return
	}
	c.lines = nil
	c.persistLocked(ctx)

	c.storage.logger.InfoContext(ctx, "cart cleared", slog.String("user_id", userID))
}

func (c *CartStore) persistLocked(ctx context.Context) {
	lines := c.lines
	if lines == nil {
		lines = domain.Cart{}
	}
	c.storage.write(ctx, kvstore.CartKey(c.userID), lines, c.ttl)
}

// View returns the cart of the current session user, reloading it first when
// the user changed. Without a session the view is empty.
func (c *CartStore) View(ctx context.Context) CartView {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.currentUserLocked(ctx)
	return c.viewLocked()
}

func (c *CartStore) viewLocked() CartView {
	lines := make(domain.Cart, len(c.lines))
	copy(lines, c.lines)
	return CartView{
		UserID:     c.userID,
		Lines:      lines,
		TotalItems: lines.TotalItems(),
		TotalCost:  domain.FormatTotal(lines.TotalCost()),
	}
}

// Items returns a copy of the current session user's cart lines.
func (c *CartStore) Items(ctx context.Context) domain.Cart {
	return c.View(ctx).Lines
}

// TotalItems returns the number of units in the current session user's cart.
func (c *CartStore) TotalItems(ctx context.Context) int {
	return c.View(ctx).TotalItems
}

// TotalCost returns the current session user's cart total rendered with two
// decimals.
func (c *CartStore) TotalCost(ctx context.Context) string {
	return c.View(ctx).TotalCost
}

// UserID returns the user whose cart is held, or "" without a session.
func (c *CartStore) UserID(ctx context.Context) string {
	return c.View(ctx).UserID
}
