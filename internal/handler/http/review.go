package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/store"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	sf     *store.Storefront
	logger *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(sf *store.Storefront, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{sf: sf, logger: logger}
}

// ReviewsResponse lists a product's reviews.
type ReviewsResponse struct {
	ProductID     domain.ProductID `json:"productId"`
	Reviews       []domain.Review  `json:"reviews"`
	AverageRating float64          `json:"averageRating"`
}

// SyncResponse reports how many products have a review list after a sync.
type SyncResponse struct {
	Products int `json:"products"`
}

// ListReviews handles GET /api/v1/products/{productId}/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID := productIDParam(r)
	httputil.WriteData(w, http.StatusOK, ReviewsResponse{
		ProductID:     productID,
		Reviews:       h.sf.Reviews.GetReviewsForProduct(productID),
		AverageRating: h.sf.Reviews.AverageRating(productID),
	})
}

// AddReview handles POST /api/v1/products/{productId}/reviews
func (h *ReviewHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	var req domain.ReviewInput
	if !decode(w, r, &req, h.logger) {
		return
	}

	review := h.sf.Reviews.AddReview(r.Context(), productIDParam(r), req)
	httputil.WriteData(w, http.StatusCreated, review)
}

// EditReview handles PATCH /api/v1/products/{productId}/reviews/{reviewId}
func (h *ReviewHandler) EditReview(w http.ResponseWriter, r *http.Request) {
	var req domain.ReviewPatch
	if !decode(w, r, &req, h.logger) {
		return
	}

	reviewID := chi.URLParam(r, "reviewId")
	review, ok := h.sf.Reviews.EditReview(r.Context(), productIDParam(r), reviewID, req)
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("review", reviewID), h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, review)
}

// DeleteReview handles DELETE /api/v1/products/{productId}/reviews/{reviewId}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewId")
	if !h.sf.Reviews.DeleteReview(r.Context(), productIDParam(r), reviewID) {
		httputil.WriteError(w, r, apperrors.NotFound("review", reviewID), h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Sync handles POST /api/v1/reviews/sync
func (h *ReviewHandler) Sync(w http.ResponseWriter, r *http.Request) {
	h.sf.Reviews.SyncWithCatalog(r.Context())
	httputil.WriteData(w, http.StatusOK, SyncResponse{Products: len(h.sf.Reviews.All())})
}
