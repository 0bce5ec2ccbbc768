package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/kvstore"
)

// ReviewStore keeps reviews grouped by product.
type ReviewStore struct {
	mu      *sync.RWMutex
	storage storage
	catalog CatalogFetcher
	now     func() time.Time

	reviews domain.ReviewsByProduct
}

func newReviewStore(ctx context.Context, mu *sync.RWMutex, st storage, catalog CatalogFetcher, now func() time.Time) *ReviewStore {
	r := &ReviewStore{
		mu:      mu,
		storage: st,
		catalog: catalog,
		now:     now,
		reviews: domain.ReviewsByProduct{},
	}

	if stored, ok := load[domain.ReviewsByProduct](ctx, st, kvstore.KeyReviews); ok {
		for id, list := range stored {
			if list == nil {
				list = []domain.Review{}
			}
			r.reviews[id] = list
		}
	}
	return r
}

func newReviewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// AddReview appends a new review to productID's list and returns it.
func (r *ReviewStore) AddReview(ctx context.Context, productID domain.ProductID, in domain.ReviewInput) domain.Review {
	r.mu.Lock()
	defer r.mu.Unlock()

	review := domain.Review{
		ID:        newReviewID(),
		ProductID: productID,
		Text:      in.Text,
		Rating:    in.Rating,
		Timestamp: r.now().UTC(),
	}
	r.reviews[productID] = append(r.reviews[productID], review)
	r.persistLocked(ctx)

	r.storage.logger.InfoContext(ctx, "review added",
		slog.String("product_id", productID.String()),
		slog.String("review_id", review.ID),
	)
	return review
}

// EditReview merges patch into the review and refreshes its timestamp. The
// review keeps its position. ok is false when the product or review is unknown.
func (r *ReviewStore) EditReview(ctx context.Context, productID domain.ProductID, reviewID string, patch domain.ReviewPatch) (domain.Review, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, ok := r.reviews[productID]
	if !ok {
		return domain.Review{}, false
	}
	for i := range list {
		if list[i].ID != reviewID {
			continue
		}
		patch.Apply(&list[i])
		list[i].Timestamp = r.now().UTC()
		r.persistLocked(ctx)

		r.storage.logger.InfoContext(ctx, "review edited",
			slog.String("product_id", productID.String()),
			slog.String("review_id", reviewID),
		)
		return list[i], true
	}
	return domain.Review{}, false
}

// DeleteReview removes the review. It reports whether a review was removed.
func (r *ReviewStore) DeleteReview(ctx context.Context, productID domain.ProductID, reviewID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, ok := r.reviews[productID]
	if !ok {
		return false
	}

	kept := make([]domain.Review, 0, len(list))
	for _, rv := range list {
		if rv.ID != reviewID {
			kept = append(kept, rv)
		}
	}
	r.reviews[productID] = kept
	r.persistLocked(ctx)

	removed := len(kept) < len(list)
	if removed {
		r.storage.logger.InfoContext(ctx, "review deleted",
			slog.String("product_id", productID.String()),
			slog.String("review_id", reviewID),
		)
	}
	return removed
}

// GetReviewsForProduct returns a copy of productID's reviews, never nil.
func (r *ReviewStore) GetReviewsForProduct(productID domain.ProductID) []domain.Review {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.reviews[productID]
	out := make([]domain.Review, len(list))
	copy(out, list)
	return out
}

// AverageRating returns productID's mean rating, or zero without reviews.
func (r *ReviewStore) AverageRating(productID domain.ProductID) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.AverageRating(r.reviews[productID])
}

// All returns a copy of every product's reviews.
func (r *ReviewStore) All() domain.ReviewsByProduct {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reviews.Clone()
}

// SyncWithCatalog seeds an empty review list for every catalog product that
// has none. Existing lists are never touched. On fetch failure nothing changes.
func (r *ReviewStore) SyncWithCatalog(ctx context.Context) {
	products, err := r.catalog.FetchCatalog(ctx)
	if err != nil {
		r.storage.logger.WarnContext(ctx, "review sync failed", slog.String("error", err.Error()))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var seeded int
	for _, p := range products {
		if _, ok := r.reviews[p.ID]; ok {
			continue
		}
		r.reviews[p.ID] = []domain.Review{}
		seeded++
	}
	if seeded > 0 {
		r.persistLocked(ctx)
	}

	r.storage.logger.InfoContext(ctx, "reviews synced with catalog", slog.Int("seeded", seeded))
}

func (r *ReviewStore) persistLocked(ctx context.Context) {
	r.storage.write(ctx, kvstore.KeyReviews, r.reviews, 0)
}
