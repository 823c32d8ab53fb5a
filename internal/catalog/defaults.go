package catalog

import "github.com/greenfield-poultry/farmshop/internal/models"

// DefaultProducts returns the farm's standing product list.
func DefaultProducts() []models.Product {
	return []models.Product{
		{
			ID:          "eggs-large",
			Name:        "Fresh Farm Eggs - Large",
			Category:    "Eggs",
			Price:       45,
			Unit:        "per crate (30 eggs)",
			Description: "Premium quality large eggs from free-range chickens. Rich in nutrients and flavor.",
			Image:       "pics/egg1.jpg",
			Badge:       "Fresh Daily",
			Available:   true,
		},
		{
			ID:          "eggs-medium",
			Name:        "Fresh Farm Eggs - Medium",
			Category:    "Eggs",
			Price:       40,
			Unit:        "per crate (30 eggs)",
			Description: "High-quality medium eggs perfect for all your cooking needs.",
			Image:       "pics/egg2.webp",
			Badge:       "Best Seller",
			Available:   true,
		},
		{
			ID:          "broiler-2kg",
			Name:        "Broiler Chicken - 2kg",
			Category:    "Broilers",
			Price:       35,
			Unit:        "per kg",
			Description: "Tender and juicy broiler chickens, raised with care and proper nutrition.",
			Image:       "pics/broiler-chickens.jpg",
			Badge:       "Premium",
			Available:   true,
		},
		{
			ID:          "broiler-3kg",
			Name:        "Broiler Chicken - 3kg",
			Category:    "Broilers",
			Price:       33,
			Unit:        "per kg",
			Description: "Larger broiler chickens ideal for family meals and gatherings.",
			Image:       "pics/Broiler Poultry.jpg",
			Badge:       "Family Size",
			Available:   true,
		},
		{
			ID:          "layer-pullet",
			Name:        "Layer Pullets - 18 Weeks",
			Category:    "Layers",
			Price:       50,
			Unit:        "per bird",
			Description: "Point-of-lay pullets ready to start producing eggs. Vaccinated and healthy.",
			Image:       "pics/layer 1.avif",
			Badge:       "Ready to Lay",
			Available:   true,
		},
		{
			ID:          "layer-mature",
			Name:        "Mature Layers - 24 Weeks",
			Category:    "Layers",
			Price:       55,
			Unit:        "per bird",
			Description: "Mature laying hens in peak production. Excellent egg producers.",
			Image:       "pics/layer chik2.jpg",
			Badge:       "High Yield",
			Available:   true,
		},
	}
}
