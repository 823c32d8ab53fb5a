// Package api implements the storefront HTTP API.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/greenfield-poultry/farmshop/internal/cart"
	"github.com/greenfield-poultry/farmshop/internal/catalog"
	"github.com/greenfield-poultry/farmshop/internal/checkout"
	"github.com/greenfield-poultry/farmshop/internal/models"
	"github.com/greenfield-poultry/farmshop/internal/session"
)

// Deps are the collaborators the router needs.
type Deps struct {
	Catalog   *catalog.Catalog
	Sessions  *session.Registry
	Checkout  *checkout.Service
	Bus       EventBus
	Pricing   checkout.Pricing
	Shop      string
	Version   string
	Storage   string // backend name reported by /api/info
	StaticDir string // optional pre-built site served at /
}

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	catalog  *catalog.Catalog
	sessions *session.Registry
	checkout *checkout.Service
	events   EventBus
	pricing  checkout.Pricing
	info     models.Info
}

// EventBus is the interface for delivering and subscribing to session events.
type EventBus interface {
	Subscribe(topic, id string) <-chan models.Event
	Unsubscribe(topic, id string)
	Publish(topic string, ev models.Event)
}

func newHandlers(d Deps) *Handlers {
	return &Handlers{
		catalog:  d.Catalog,
		sessions: d.Sessions,
		checkout: d.Checkout,
		events:   d.Bus,
		pricing:  d.Pricing,
		info:     models.Info{Shop: d.Shop, Version: d.Version, Storage: d.Storage},
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes err as a JSON response, mapping package sentinels to AppErrors.
func writeError(w http.ResponseWriter, err error) {
	appErr := toAppError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	_ = json.NewEncoder(w).Encode(appErr)
}

func toAppError(err error) *models.AppError {
	var appErr *models.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, catalog.ErrUnknownProduct):
		return models.ErrNotFound(err.Error())
	case errors.Is(err, catalog.ErrUnavailable):
		return models.ErrConflict(err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		return models.ErrConflict(checkout.MsgEmptyCart)
	case errors.Is(err, cart.ErrUnreadable):
		return models.ErrServiceUnavailable("your cart could not be loaded, please try again")
	default:
		return models.ErrInternal(err.Error())
	}
}

// decodeBody decodes a JSON request body into v.
func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return models.ErrBadRequest("invalid JSON: " + err.Error())
	}
	return nil
}

// sessionID returns the id set by session.Middleware.
func sessionID(r *http.Request) string {
	id, _ := session.FromContext(r.Context())
	return id
}

// currentCart returns the requesting session's cart.
func (h *Handlers) currentCart(r *http.Request) (*cart.Cart, error) {
	return h.sessions.Cart(r.Context(), sessionID(r))
}

// view builds the cart response body from one snapshot of items.
func (h *Handlers) view(items []models.LineItem) models.CartView {
	return models.CartView{
		Items:   items,
		Count:   cart.CountOf(items),
		Total:   cart.TotalOf(items),
		Summary: checkout.Summarize(items, h.pricing),
	}
}
