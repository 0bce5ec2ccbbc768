package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/store"
	"github.com/utafrali/storefront/pkg/httputil"
)

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	sf     *store.Storefront
	logger *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(sf *store.Storefront, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{sf: sf, logger: logger}
}

// MoveToCartResponse carries both stores after a move.
type MoveToCartResponse struct {
	Cart     store.CartView   `json:"cart"`
	Wishlist []domain.Product `json:"wishlist"`
}

// GetWishlist handles GET /api/v1/wishlist
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.sf.Wishlist.Items())
}

// AddItem handles POST /api/v1/wishlist/items
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decode(w, r, &req, h.logger) {
		return
	}

	status := http.StatusOK
	if h.sf.Wishlist.AddToWishlist(r.Context(), req.toDomain()) {
		status = http.StatusCreated
	}
	httputil.WriteData(w, status, h.sf.Wishlist.Items())
}

// RemoveItem handles DELETE /api/v1/wishlist/items/{productId}
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.sf.Wishlist.RemoveFromWishlist(r.Context(), productIDParam(r))
	w.WriteHeader(http.StatusNoContent)
}

// ClearWishlist handles DELETE /api/v1/wishlist
func (h *WishlistHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	h.sf.Wishlist.ClearWishlist(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// MoveToCart handles POST /api/v1/wishlist/items/{productId}/move-to-cart
func (h *WishlistHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	productID := productIDParam(r)

	if _, err := h.sf.Wishlist.MoveToCartByID(r.Context(), productID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	snap := h.sf.Snapshot(r.Context())
	httputil.WriteData(w, http.StatusOK, MoveToCartResponse{Cart: snap.Cart, Wishlist: snap.Wishlist})
}

// Sync handles POST /api/v1/wishlist/sync
func (h *WishlistHandler) Sync(w http.ResponseWriter, r *http.Request) {
	h.sf.Wishlist.SyncWithCatalog(r.Context())
	httputil.WriteData(w, http.StatusOK, h.sf.Wishlist.Items())
}
