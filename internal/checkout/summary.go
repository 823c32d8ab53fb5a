package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/greenfield-poultry/farmshop/internal/models"
)

// Pricing holds the delivery rules applied at checkout.
type Pricing struct {
	DeliveryFee   float64 // charged when the subtotal is below FreeThreshold
	FreeThreshold float64
	Currency      string
}

// DefaultPricing is a 20 fee, waived from a subtotal of 200.
func DefaultPricing() Pricing {
	return Pricing{DeliveryFee: 20, FreeThreshold: 200, Currency: "GH₵"}
}

// Summarize totals items in decimal arithmetic and applies the delivery rule.
func Summarize(items []models.LineItem, p Pricing) models.Summary {
	subtotal := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(line)
	}

	fee := decimal.NewFromFloat(p.DeliveryFee)
	free := subtotal.GreaterThanOrEqual(decimal.NewFromFloat(p.FreeThreshold))
	if free {
		fee = decimal.Zero
	}

	return models.Summary{
		Subtotal:     subtotal.StringFixed(2),
		DeliveryFee:  fee.StringFixed(2),
		Total:        subtotal.Add(fee).StringFixed(2),
		FreeDelivery: free,
		Currency:     p.Currency,
	}
}
