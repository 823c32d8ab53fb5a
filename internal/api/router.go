package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/greenfield-poultry/farmshop/internal/models"
	"github.com/greenfield-poultry/farmshop/internal/session"
)

// NewRouter creates and returns the main HTTP router.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware)
	r.Use(middleware.CleanPath)

	h := newHandlers(d)

	r.Get("/healthz", h.healthz)

	r.Group(func(r chi.Router) {
		r.Use(session.Middleware)

		// Shop
		r.Get("/api/info", h.getInfo)
		r.Get("/api/products", h.getProducts)
		r.Get("/api/products/{pid}", h.getProduct)
		r.Get("/api/categories", h.getCategories)

		// Cart
		r.Get("/api/cart", h.getCart)
		r.Get("/api/cart/count", h.getCartCount)
		r.Group(func(r chi.Router) {
			r.Use(h.rateLimit)
			r.Post("/api/cart/items", h.addCartItem)
			r.Patch("/api/cart/items/{pid}", h.updateCartItem)
			r.Delete("/api/cart/items/{pid}", h.removeCartItem)
			r.Delete("/api/cart", h.clearCart)

			// Checkout
			r.Post("/api/checkout", h.beginCheckout)
			r.Post("/api/checkout/confirm", h.confirmCheckout)

			// Forms
			r.Post("/api/contact", h.submitContact)
			r.Post("/api/newsletter", h.subscribeNewsletter)
		})

		// SSE
		r.Get("/api/subscribe", h.sseEvents)

		if d.StaticDir != "" {
			r.Handle("/*", http.FileServer(http.Dir(d.StaticDir)))
		}
	})

	return r
}

// corsMiddleware adds permissive CORS headers so the storefront can be served from another origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimit rejects mutation bursts from a single session with 429.
func (h *Handlers) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.sessions.Allow(r.Context(), sessionID(r)) {
			writeError(w, models.ErrTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
