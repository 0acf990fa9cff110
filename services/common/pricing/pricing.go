// Package pricing is the single place order totals are computed. Cart
// summaries, checkout previews and order placement all go through Quote.
package pricing

import "math"

const (
	TaxRate               = 0.10
	FreeShippingThreshold = 100.0
	FlatShipping          = 10.0
)

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// Line is a priced quantity.
type Line struct {
	UnitPrice float64
	Quantity  int
}

// Round2 rounds half away from zero to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LineTotal is unit price times quantity, in cents.
func LineTotal(unitPrice float64, qty int) float64 {
	return Round2(unitPrice * float64(qty))
}

// Subtotal sums the rounded line totals.
func Subtotal(lines []Line) float64 {
	var sum float64
	for _, l := range lines {
		sum += LineTotal(l.UnitPrice, l.Quantity)
	}
	return Round2(sum)
}

// Quote applies the fixed tax rate and the free-shipping threshold. Shipping
// is free only strictly above the threshold.
func Quote(subtotal float64) Totals {
	subtotal = Round2(subtotal)
	tax := Round2(subtotal * TaxRate)
	shipping := FlatShipping
	if subtotal > FreeShippingThreshold {
		shipping = 0
	}
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    Round2(subtotal + tax + shipping),
	}
}

// QuoteLines is Quote(Subtotal(lines)).
func QuoteLines(lines []Line) Totals {
	return Quote(Subtotal(lines))
}
