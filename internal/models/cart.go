package models

// Summary is the display-ready breakdown of a cart's cost.
// Amounts are fixed two-decimal strings so clients never re-round floats.
type Summary struct {
	Subtotal     string `json:"subtotal"`
	DeliveryFee  string `json:"delivery_fee"`
	Total        string `json:"total"`
	FreeDelivery bool   `json:"free_delivery"`
	Currency     string `json:"currency"`
}

// CartView is the response body for cart endpoints.
type CartView struct {
	Items   []LineItem `json:"items"`
	Count   int        `json:"count"` // sum of quantities, for the badge
	Total   float64    `json:"total"` // unrounded Σ price × quantity
	Summary Summary    `json:"summary"`
}

// Info is the service information response.
type Info struct {
	Shop     string `json:"shop"`
	Version  string `json:"version"`
	Storage  string `json:"storage"`
	Products int    `json:"products"`
}
