package domain

import "github.com/shopspring/decimal"

// CartLine is one product in the cart with its quantity. Quantity is always
// at least 1; a line whose quantity would drop to zero is removed instead.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns price times quantity as an exact decimal.
func (l CartLine) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(l.Product.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the ordered list of lines belonging to one user.
type Cart []CartLine

// FindLine returns the index of the line for productID, or -1.
func (c Cart) FindLine(productID ProductID) int {
	for i := range c {
		if c[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// TotalItems returns the sum of all line quantities.
func (c Cart) TotalItems() int {
	var n int
	for _, line := range c {
		n += line.Quantity
	}
	return n
}

// TotalCost returns the sum of price times quantity over all lines.
func (c Cart) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c {
		total = total.Add(line.Subtotal())
	}
	return total
}

// FormatTotal renders a monetary amount rounded half away from zero to two
// decimals, e.g. "24.98".
func FormatTotal(d decimal.Decimal) string {
	return d.StringFixed(2)
}
