package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/validator"
)

// ProductRequest is the JSON body used to put a product into the cart,
// wishlist or comparison.
type ProductRequest struct {
	ID          domain.ProductID `json:"id" validate:"required"`
	Name        string           `json:"name" validate:"required,max=500"`
	Price       float64          `json:"price" validate:"gte=0"`
	ImageURL    string           `json:"imageUrl" validate:"omitempty,url"`
	Description string           `json:"description" validate:"max=5000"`
}

func (p ProductRequest) toDomain() domain.Product {
	return domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Description: p.Description,
	}
}

// decode reads and validates the request body, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any, log *slog.Logger) bool {
	if err := validator.DecodeAndValidate(r, dst); err != nil {
		var valErr *validator.ValidationError
		if errors.As(err, &valErr) {
			httputil.WriteValidationError(w, err)
		} else {
			httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), log)
		}
		return false
	}
	return true
}

func productIDParam(r *http.Request) domain.ProductID {
	return domain.ProductID(chi.URLParam(r, "productId"))
}
