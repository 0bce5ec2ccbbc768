package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/store"
	"github.com/utafrali/storefront/pkg/httputil"
)

// ComparisonHandler handles HTTP requests for comparison endpoints.
type ComparisonHandler struct {
	sf     *store.Storefront
	logger *slog.Logger
}

// NewComparisonHandler creates a new comparison HTTP handler.
func NewComparisonHandler(sf *store.Storefront, logger *slog.Logger) *ComparisonHandler {
	return &ComparisonHandler{sf: sf, logger: logger}
}

// ComparisonResponse lists the compared products.
type ComparisonResponse struct {
	Added    *bool            `json:"added,omitempty"`
	Items    []domain.Product `json:"items"`
	Count    int              `json:"count"`
	MaxItems int              `json:"maxItems"`
}

// MembershipResponse answers whether a product is being compared.
type MembershipResponse struct {
	ProductID    domain.ProductID `json:"productId"`
	InComparison bool             `json:"inComparison"`
}

func (h *ComparisonHandler) list() ComparisonResponse {
	items := h.sf.Comparison.Items()
	return ComparisonResponse{
		Items:    items,
		Count:    len(items),
		MaxItems: h.sf.Comparison.MaxItems(),
	}
}

// GetComparison handles GET /api/v1/comparison
func (h *ComparisonHandler) GetComparison(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.list())
}

// AddItem handles POST /api/v1/comparison/items. A full comparison or a
// duplicate is not an error; the response reports added=false.
func (h *ComparisonHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decode(w, r, &req, h.logger) {
		return
	}

	added := h.sf.Comparison.AddToComparison(r.Context(), req.toDomain())
	resp := h.list()
	resp.Added = &added

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	httputil.WriteData(w, status, resp)
}

// GetItem handles GET /api/v1/comparison/items/{productId}
func (h *ComparisonHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	productID := productIDParam(r)
	httputil.WriteData(w, http.StatusOK, MembershipResponse{
		ProductID:    productID,
		InComparison: h.sf.Comparison.IsInComparison(productID),
	})
}

// RemoveItem handles DELETE /api/v1/comparison/items/{productId}
func (h *ComparisonHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.sf.Comparison.RemoveFromComparison(r.Context(), productIDParam(r))
	w.WriteHeader(http.StatusNoContent)
}

// ClearComparison handles DELETE /api/v1/comparison
func (h *ComparisonHandler) ClearComparison(w http.ResponseWriter, r *http.Request) {
	h.sf.Comparison.ClearComparison(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
