package cart

import (
	"log/slog"

	"github.com/greenfield-poultry/farmshop/internal/models"
)

// normalize repairs a decoded slot so the in-memory invariants hold:
// lines without an id are dropped, quantities below 1 become 1, and
// repeated ids are merged into the first occurrence. repaired reports
// whether anything changed.
func normalize(items []models.LineItem, log *slog.Logger) (out []models.LineItem, repaired bool) {
	out = make([]models.LineItem, 0, len(items))
	seen := make(map[string]int, len(items))

	for i, it := range items {
		if it.ID == "" {
			log.Warn("cart: dropping line without id", "index", i)
			repaired = true
			continue
		}
		if it.Quantity < 1 {
			log.Warn("cart: invalid quantity, fixing", "id", it.ID, "quantity", it.Quantity)
			it.Quantity = 1
			repaired = true
		}
		if j, ok := seen[it.ID]; ok {
			log.Warn("cart: merging duplicate line", "id", it.ID)
			out[j].Quantity += it.Quantity
			repaired = true
			continue
		}
		seen[it.ID] = len(out)
		out = append(out, it)
	}
	return out, repaired
}
