// Package models defines the data structures shared by the storefront packages.
// JSON field names match the browser storefront's persisted cart format.
package models

// Product is a read-only catalog record describing something the farm sells.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"` // currency units, e.g. 45 = GH₵45
	Unit        string  `json:"unit"`  // pricing granularity, e.g. "per crate (30 eggs)"
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image"`
	Badge       string  `json:"badge,omitempty"`
	Available   bool    `json:"available"`
}

// LineItem is one product in a cart. Every product field is copied at add time
// and encoded flat next to the quantity.
type LineItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price × quantity for the line.
func (li LineItem) Subtotal() float64 {
	return li.Price * float64(li.Quantity)
}
