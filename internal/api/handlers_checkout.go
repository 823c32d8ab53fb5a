package api

import (
	"net/http"

	"github.com/greenfield-poultry/farmshop/internal/checkout"
	"github.com/greenfield-poultry/farmshop/internal/models"
)

func (h *Handlers) beginCheckout(w http.ResponseWriter, r *http.Request) {
	c, err := h.currentCart(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.checkout.Begin(r.Context(), sessionID(r), c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, models.CheckoutResponse{
		Pending: true,
		Prompt:  checkout.PromptConfirm,
		Cart:    h.view(c.Items()),
	})
}

func (h *Handlers) confirmCheckout(w http.ResponseWriter, r *http.Request) {
	c, err := h.currentCart(r)
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.checkout.Confirm(r.Context(), sessionID(r), c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(items))
}
