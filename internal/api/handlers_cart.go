package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/greenfield-poultry/farmshop/internal/models"
)

func (h *Handlers) getCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.currentCart(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(c.Items()))
}

func (h *Handlers) getCartCount(w http.ResponseWriter, r *http.Request) {
	c, err := h.currentCart(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": c.ItemCount()})
}

// addCartItem adds one unit of a catalog product. Only products that exist
// and are available can be added.
func (h *Handlers) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req models.AddItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		writeError(w, models.ErrInvalidField("id", "product id is required"))
		return
	}
	p, err := h.catalog.Purchasable(id)
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := h.currentCart(r)
	if err != nil {
		writeError(w, err)
		return
	}
	items := c.Add(r.Context(), p)
	writeJSON(w, http.StatusCreated, h.view(items))
}

// updateCartItem sets a line's quantity. Values below 1 are clamped to 1;
// removing a line is a separate DELETE.
func (h *Handlers) updateCartItem(w http.ResponseWriter, r *http.Request) {
	pid := chi.URLParam(r, "pid")
	var upd models.QuantityUpdate
	if err := decodeBody(r, &upd); err != nil {
		writeError(w, err)
		return
	}
	if upd.Quantity == nil {
		writeError(w, models.ErrInvalidField("quantity", "quantity is required"))
		return
	}
	c, err := h.currentCart(r)
	if err != nil {
		writeError(w, err)
		return
	}
	items := c.UpdateQuantity(r.Context(), pid, *upd.Quantity)
	if !contains(items, pid) {
		writeError(w, models.ErrNotFound("item "+pid+" is not in the cart"))
		return
	}
	writeJSON(w, http.StatusOK, h.view(items))
}

func (h *Handlers) removeCartItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.currentCart(r)
	if err != nil {
		writeError(w, err)
		return
	}
	items := c.Remove(r.Context(), chi.URLParam(r, "pid"))
	writeJSON(w, http.StatusOK, h.view(items))
}

func (h *Handlers) clearCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.currentCart(r)
	if err != nil {
		writeError(w, err)
		return
	}
	items := c.Clear(r.Context())
	writeJSON(w, http.StatusOK, h.view(items))
}

func contains(items []models.LineItem, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}
