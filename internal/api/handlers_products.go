package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handlers) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) getInfo(w http.ResponseWriter, r *http.Request) {
	info := h.info
	info.Products = h.catalog.Len()
	writeJSON(w, http.StatusOK, info)
}

func (h *Handlers) getProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Filter(r.URL.Query().Get("category")))
}

func (h *Handlers) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Find(chi.URLParam(r, "pid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) getCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Categories())
}
