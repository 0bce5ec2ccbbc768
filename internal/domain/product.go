package domain

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// ProductID identifies a product. The catalog serves numeric ids while ids
// typed into the local API are strings, so both JSON forms decode to the same
// value.
type ProductID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode product id: %w", err)
		}
		*id = ProductID(s)
		return nil
	}

	raw := string(data)
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*id = ProductID(strconv.FormatInt(i, 10))
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("decode product id %s: %w", raw, err)
	}
	if f == math.Trunc(f) && math.Abs(f) <= maxExactInt {
		*id = ProductID(strconv.FormatInt(int64(f), 10))
		return nil
	}
	*id = ProductID(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// maxExactInt is the largest integer a float64 holds without rounding.
const maxExactInt = 1 << 53

func (id ProductID) String() string {
	return string(id)
}

// Product is a catalog item as the storefront stores it.
type Product struct {
	ID          ProductID `json:"id" validate:"required"`
	Name        string    `json:"name"`
	Price       float64   `json:"price" validate:"gte=0"`
	ImageURL    string    `json:"imageUrl"`
	Description string    `json:"description,omitempty"`
}
