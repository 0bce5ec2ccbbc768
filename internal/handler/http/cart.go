package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/store"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	sf     *store.Storefront
	logger *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(sf *store.Storefront, logger *slog.Logger) *CartHandler {
	return &CartHandler{sf: sf, logger: logger}
}

// UpdateQuantityRequest is the JSON request body for updating a line's
// quantity. Zero or less removes the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.sf.Cart.View(r.Context()))
}

// LoadCart handles POST /api/v1/cart/load
func (h *CartHandler) LoadCart(w http.ResponseWriter, r *http.Request) {
	h.sf.Cart.LoadCart(r.Context())
	httputil.WriteData(w, http.StatusOK, h.sf.Cart.View(r.Context()))
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decode(w, r, &req, h.logger) {
		return
	}

	if !h.sf.Cart.AddToCart(r.Context(), req.toDomain()) {
		httputil.WriteError(w, r, apperrors.Unauthorized("sign in required"), h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, h.sf.Cart.View(r.Context()))
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{productId}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if !decode(w, r, &req, h.logger) {
		return
	}

	h.sf.Cart.UpdateQuantity(r.Context(), productIDParam(r), *req.Quantity)
	httputil.WriteData(w, http.StatusOK, h.sf.Cart.View(r.Context()))
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.sf.Cart.RemoveFromCart(r.Context(), productIDParam(r))
	httputil.WriteData(w, http.StatusOK, h.sf.Cart.View(r.Context()))
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.sf.Cart.ClearCart(r.Context())
	httputil.WriteData(w, http.StatusOK, h.sf.Cart.View(r.Context()))
}
