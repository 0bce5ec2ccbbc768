package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/session"
	"github.com/utafrali/storefront/internal/store"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

const serviceName = "storefront"

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	sf *store.Storefront,
	sessions *session.Context,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	sessionHandler := NewSessionHandler(sessions, sf, logger)
	cartHandler := NewCartHandler(sf, logger)
	wishlistHandler := NewWishlistHandler(sf, logger)
	comparisonHandler := NewComparisonHandler(sf, logger)
	reviewHandler := NewReviewHandler(sf, logger)

	requireSession := RequireSession(sessions, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/session", sessionHandler.GetSession)
		r.Post("/session", sessionHandler.Login)
		r.Delete("/session", sessionHandler.Logout)

		r.Route("/cart", func(r chi.Router) {
			r.Use(requireSession)

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/load", cartHandler.LoadCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productId}", cartHandler.UpdateItemQuantity)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Use(requireSession)

			r.Get("/", wishlistHandler.GetWishlist)
			r.Delete("/", wishlistHandler.ClearWishlist)
			r.Post("/items", wishlistHandler.AddItem)
			r.Delete("/items/{productId}", wishlistHandler.RemoveItem)
			r.Post("/items/{productId}/move-to-cart", wishlistHandler.MoveToCart)
			r.Post("/sync", wishlistHandler.Sync)
		})

		r.Route("/comparison", func(r chi.Router) {
			r.Use(requireSession)

			r.Get("/", comparisonHandler.GetComparison)
			r.Delete("/", comparisonHandler.ClearComparison)
			r.Post("/items", comparisonHandler.AddItem)
			r.Get("/items/{productId}", comparisonHandler.GetItem)
			r.Delete("/items/{productId}", comparisonHandler.RemoveItem)
		})

		r.Route("/products/{productId}/reviews", func(r chi.Router) {
			r.Get("/", reviewHandler.ListReviews)
			r.Post("/", reviewHandler.AddReview)
			r.Patch("/{reviewId}", reviewHandler.EditReview)
			r.Delete("/{reviewId}", reviewHandler.DeleteReview)
		})
		r.Post("/reviews/sync", reviewHandler.Sync)
	})

	return r
}
