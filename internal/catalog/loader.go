package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/greenfield-poultry/farmshop/internal/models"
)

// file is the on-disk catalog layout. Available defaults to true when omitted.
type file struct {
	Products []fileProduct `json:"products" yaml:"products"`
}

type fileProduct struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Category    string  `json:"category" yaml:"category"`
	Price       float64 `json:"price" yaml:"price"`
	Unit        string  `json:"unit" yaml:"unit"`
	Description string  `json:"description" yaml:"description"`
	Image       string  `json:"image" yaml:"image"`
	Badge       string  `json:"badge" yaml:"badge"`
	Available   *bool   `json:"available" yaml:"available"`
}

func (fp fileProduct) product() models.Product {
	available := true
	if fp.Available != nil {
		available = *fp.Available
	}
	return models.Product{
		ID:          strings.TrimSpace(fp.ID),
		Name:        fp.Name,
		Category:    fp.Category,
		Price:       fp.Price,
		Unit:        fp.Unit,
		Description: fp.Description,
		Image:       fp.Image,
		Badge:       fp.Badge,
		Available:   available,
	}
}

// LoadFile parses a catalog file. The format follows the extension:
// .yaml and .yml are YAML, .json is JSON.
func LoadFile(path string) ([]models.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var f file
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	case ".json":
		err = json.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("catalog: unsupported file type %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	if len(f.Products) == 0 {
		return nil, fmt.Errorf("catalog: %s lists no products", path)
	}

	products := make([]models.Product, 0, len(f.Products))
	for _, fp := range f.Products {
		products = append(products, fp.product())
	}
	if _, err := index(products); err != nil {
		return nil, err
	}
	return products, nil
}

// Reload replaces the catalog with the contents of path. On error the
// current products stay in place.
func (c *Catalog) Reload(path string) error {
	products, err := LoadFile(path)
	if err != nil {
		return err
	}
	if err := c.Replace(products); err != nil {
		return err
	}
	slog.Info("catalog: reloaded", "path", path, "products", len(products))
	return nil
}

// MarshalYAML renders products in the on-disk layout accepted by LoadFile.
func MarshalYAML(products []models.Product) ([]byte, error) {
	f := file{Products: make([]fileProduct, 0, len(products))}
	for _, p := range products {
		available := p.Available
		f.Products = append(f.Products, fileProduct{
			ID: p.ID, Name: p.Name, Category: p.Category, Price: p.Price, Unit: p.Unit,
			Description: p.Description, Image: p.Image, Badge: p.Badge, Available: &available,
		})
	}
	return yaml.Marshal(f)
}
