package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Review is a shopper's review of one product.
type Review struct {
	ID        string    `json:"id"`
	ProductID ProductID `json:"productId"`
	Text      string    `json:"text"`
	Rating    float64   `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}

// ReviewInput carries the fields of a new review.
type ReviewInput struct {
	Text   string  `json:"text" validate:"required,max=5000"`
	Rating float64 `json:"rating" validate:"gte=0,lte=5"`
}

// ReviewPatch is a partial update; nil fields are left unchanged.
type ReviewPatch struct {
	Text   *string  `json:"text,omitempty" validate:"omitempty,max=5000"`
	Rating *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
}

// Apply merges the set fields of p into r.
func (p ReviewPatch) Apply(r *Review) {
	if p.Text != nil {
		r.Text = *p.Text
	}
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
}

// ReviewsByProduct maps each product id to its reviews in insertion order.
type ReviewsByProduct map[ProductID][]Review

// Clone returns a deep copy whose slices can be handed out safely.
func (m ReviewsByProduct) Clone() ReviewsByProduct {
	out := make(ReviewsByProduct, len(m))
	for id, list := range m {
		cp := make([]Review, len(list))
		copy(cp, list)
		out[id] = cp
	}
	return out
}

// AverageRating returns the mean rating of reviews rounded to one decimal,
// and zero for an empty list.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, r := range reviews {
		sum = sum.Add(decimal.NewFromFloat(r.Rating))
	}
	avg, _ := sum.Div(decimal.NewFromInt(int64(len(reviews)))).Round(1).Float64()
	return avg
}
