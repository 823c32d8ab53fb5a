// Package cart implements the cart store: the single authority over one
// visitor's line items and the storage slot that holds them.
//
// Every mutation runs to completion under the cart's lock, writes the whole
// item list back to the slot, and then fires the refresh hook with the new
// item count. Mutations never return an error to the caller: unknown ids are
// no-ops and failed writes are logged. Slot I/O ignores cancellation of the
// caller's context, so a committed mutation always reaches storage.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/greenfield-poultry/farmshop/internal/models"
	"github.com/greenfield-poultry/farmshop/internal/storage"
)

// KeyPrefix is the storage key the browser storefront used for its cart.
const KeyPrefix = "poultryCart"

// storeTimeout bounds each slot read or write.
const storeTimeout = 5 * time.Second

// ErrUnreadable is returned by Load when the slot exists but could not be read.
var ErrUnreadable = errors.New("cart slot unreadable")

// Key returns the storage slot key for a session's cart.
func Key(sessionID string) string {
	return KeyPrefix + ":" + sessionID
}

// Notifier receives visitor-facing messages raised by cart operations.
type Notifier interface {
	Notify(n models.Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n models.Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n models.Notice) { f(n) }

// Option configures a Cart.
type Option func(*Cart)

// WithRefresh sets the callback invoked with the item count after load and
// after every mutation. It runs under the cart lock and must not call back
// into the cart.
func WithRefresh(fn func(count int)) Option {
	return func(c *Cart) { c.refresh = fn }
}

// WithNotifier sets the notice sink. Same locking rule as WithRefresh.
func WithNotifier(n Notifier) Option {
	return func(c *Cart) { c.notifier = n }
}

// WithLogger overrides slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Cart) { c.log = l }
}

// Cart is one visitor's cart bound to a storage slot.
type Cart struct {
	mu       sync.Mutex
	items    []models.LineItem
	store    storage.Store
	key      string
	refresh  func(int)
	notifier Notifier
	log      *slog.Logger
}

// New restores the cart stored under key, or starts an empty one.
// It never fails: a missing, corrupt or unreadable slot yields an empty cart.
// Callers that keep the cart across requests should use Load, which does not
// mask read failures.
func New(ctx context.Context, store storage.Store, key string, opts ...Option) *Cart {
	c := newCart(store, key, opts)
	if err := c.restore(ctx); err != nil {
		c.log.Warn("cart: failed to read slot, starting empty", "key", c.key, "err", err)
		c.items = []models.LineItem{}
	}
	c.start()
	return c
}

// Load restores the cart stored under key. A missing or corrupt slot yields
// an empty cart; any other read failure is returned wrapped in ErrUnreadable
// so the caller can retry instead of overwriting the slot.
func Load(ctx context.Context, store storage.Store, key string, opts ...Option) (*Cart, error) {
	c := newCart(store, key, opts)
	if err := c.restore(ctx); err != nil {
		return nil, err
	}
	c.start()
	return c, nil
}

func newCart(store storage.Store, key string, opts []Option) *Cart {
	c := &Cart{store: store, key: key, log: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cart) start() {
	c.mu.Lock()
	c.fireRefresh()
	c.mu.Unlock()
}

// Key returns the storage slot this cart reads and writes.
func (c *Cart) Key() string { return c.key }

// restore reads the slot into c.items. Repaired data is written back so the
// slot matches memory from the start.
func (c *Cart) restore(ctx context.Context) error {
	sctx, cancel := storeContext(ctx)
	data, err := c.store.Get(sctx, c.key)
	cancel()
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.items = []models.LineItem{}
		return nil
	case err != nil:
		return fmt.Errorf("%w %q: %w", ErrUnreadable, c.key, err)
	}

	var items []models.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		c.log.Warn("cart: corrupt slot, starting empty", "key", c.key, "err", err)
		c.items = []models.LineItem{}
		return nil
	}
	var repaired bool
	c.items, repaired = normalize(items, c.log.With("key", c.key))
	if repaired {
		c.persist(ctx)
	}
	return nil
}

// storeContext detaches slot I/O from the caller's cancellation and bounds it.
func storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
}

// Add puts one unit of product into the cart. An existing line with the same
// id gains one unit; otherwise a new line copying every product field is
// appended with quantity 1.
func (c *Cart) Add(ctx context.Context, product models.Product) []models.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(product.ID); i >= 0 {
		c.items[i].Quantity++
	} else {
		c.items = append(c.items, models.LineItem{Product: product, Quantity: 1})
	}
	c.commit(ctx)
	if c.notifier != nil {
		c.notifier.Notify(models.NewNotice(fmt.Sprintf("%s added to cart!", product.Name), models.LevelSuccess))
	}
	return c.snapshot()
}

// Remove drops the line with the given id. Unknown ids are ignored.
func (c *Cart) Remove(ctx context.Context, id string) []models.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := make([]models.LineItem, 0, len(c.items))
	for _, it := range c.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	c.items = kept
	c.commit(ctx)
	return c.snapshot()
}

// UpdateQuantity sets the quantity of an existing line, clamped to at least 1.
// It never removes a line; unknown ids leave the cart and the slot untouched.
func (c *Cart) UpdateQuantity(ctx context.Context, id string, quantity int) []models.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return c.snapshot()
	}
	c.items[i].Quantity = max(1, quantity)
	c.commit(ctx)
	return c.snapshot()
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) []models.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = []models.LineItem{}
	c.commit(ctx)
	return c.snapshot()
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []models.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Total returns Σ price × quantity, unrounded.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return TotalOf(c.items)
}

// ItemCount returns Σ quantity.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CountOf(c.items)
}

// TotalOf sums price × quantity over items.
func TotalOf(items []models.LineItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}

// CountOf sums the quantities of items.
func CountOf(items []models.LineItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) indexOf(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) snapshot() []models.LineItem {
	out := make([]models.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// commit persists the current items and fires the refresh hook. Caller holds mu.
func (c *Cart) commit(ctx context.Context) {
	c.persist(ctx)
	c.fireRefresh()
}

func (c *Cart) persist(ctx context.Context) {
	data, err := json.Marshal(c.items)
	if err != nil {
		c.log.Error("cart: failed to encode items", "key", c.key, "err", err)
		return
	}
	sctx, cancel := storeContext(ctx)
	defer cancel()
	if err := c.store.Set(sctx, c.key, data); err != nil {
		c.log.Error("cart: failed to persist", "key", c.key, "err", err)
	}
}

func (c *Cart) fireRefresh() {
	if c.refresh != nil {
		c.refresh(CountOf(c.items))
	}
}
