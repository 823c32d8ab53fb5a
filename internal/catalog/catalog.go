// Package catalog holds the read-only product list the shop sells from.
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/greenfield-poultry/farmshop/internal/models"
)

// Lookup errors.
var (
	ErrUnknownProduct = errors.New("catalog: unknown product")
	ErrUnavailable    = errors.New("catalog: product unavailable")
)

// Catalog is a concurrency-safe product list that can be swapped wholesale.
type Catalog struct {
	mu       sync.RWMutex
	products []models.Product
	byID     map[string]int
}

// New validates products and builds a catalog from them.
func New(products []models.Product) (*Catalog, error) {
	c := &Catalog{}
	if err := c.Replace(products); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns a catalog holding DefaultProducts.
func Default() *Catalog {
	c, err := New(DefaultProducts())
	if err != nil {
		panic(err) // built-in list is static
	}
	return c
}

// Replace swaps in a new product list. The old list is kept if products is invalid.
func (c *Catalog) Replace(products []models.Product) error {
	byID, err := index(products)
	if err != nil {
		return err
	}
	cp := make([]models.Product, len(products))
	copy(cp, products)

	c.mu.Lock()
	c.products = cp
	c.byID = byID
	c.mu.Unlock()
	return nil
}

func index(products []models.Product) (map[string]int, error) {
	byID := make(map[string]int, len(products))
	for i, p := range products {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("catalog: product %d has no id", i)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate product id %q", p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("catalog: product %q has negative price", p.ID)
		}
		byID[p.ID] = i
	}
	return byID, nil
}

// Find returns the product with the given id, or ErrUnknownProduct.
func (c *Catalog) Find(id string) (models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, fmt.Errorf("%w: %q", ErrUnknownProduct, id)
	}
	return c.products[i], nil
}

// Purchasable returns the product only if it exists and is available.
func (c *Catalog) Purchasable(id string) (models.Product, error) {
	p, err := c.Find(id)
	if err != nil {
		return models.Product{}, err
	}
	if !p.Available {
		return models.Product{}, fmt.Errorf("%w: %q", ErrUnavailable, id)
	}
	return p, nil
}

// Products returns every product in catalog order.
func (c *Catalog) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Filter returns products in category, compared case-insensitively.
// An empty category or "all" returns everything.
func (c *Catalog) Filter(category string) []models.Product {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, "all") {
		return c.Products()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []models.Product{}
	for _, p := range c.products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]bool)
	out := []string{}
	for _, p := range c.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}
