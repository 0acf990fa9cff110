package main

import (
	"time"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
)

// DefaultReorderThreshold applies to seeded and migrated products that carry
// no threshold of their own.
const DefaultReorderThreshold = 10

// Catalog is everything one seed run writes.
type Catalog struct {
	Categories []models.Category
	Products   []models.Product
	Inventory  []models.InventoryRecord
}

type seedProduct struct {
	id, name, description, category string
	price                           float64
	stock                           int
}

var builtinCategories = []models.Category{
	{CategoryID: "cat-brakes", Name: "brakes", Description: "Pads, discs and fluid"},
	{CategoryID: "cat-filters", Name: "filters", Description: "Oil, air and cabin filters"},
	{CategoryID: "cat-electrical", Name: "electrical", Description: "Batteries, bulbs and fuses"},
	{CategoryID: "cat-engine", Name: "engine", Description: "Belts, plugs and gaskets"},
}

var builtinProducts = []seedProduct{
	{"prod-brake-pads-front", "Front brake pads", "Ceramic pad set for front axle", "brakes", 45.99, 40},
	{"prod-brake-disc", "Brake disc 280mm", "Vented front disc", "brakes", 62.50, 12},
	{"prod-brake-fluid", "DOT 4 brake fluid 1L", "", "brakes", 11.25, 8},
	{"prod-oil-filter", "Oil filter", "Spin-on oil filter", "filters", 8.99, 120},
	{"prod-air-filter", "Engine air filter", "", "filters", 14.75, 35},
	{"prod-cabin-filter", "Cabin pollen filter", "Activated carbon", "filters", 17.40, 6},
	{"prod-battery-70ah", "Battery 70Ah", "12V starter battery", "electrical", 109.00, 9},
	{"prod-h7-bulb", "H7 headlight bulb", "Pack of two", "electrical", 12.99, 60},
	{"prod-spark-plug", "Iridium spark plug", "", "engine", 9.50, 80},
	{"prod-timing-belt", "Timing belt kit", "Belt, tensioner and idler", "engine", 149.99, 4},
}

// Builtin returns the demo catalog with every product stocked at location.
func Builtin(location string, now time.Time) Catalog {
	ts := models.Timestamp(now)
	cat := Catalog{
		Categories: make([]models.Category, 0, len(builtinCategories)),
		Products:   make([]models.Product, 0, len(builtinProducts)),
		Inventory:  make([]models.InventoryRecord, 0, len(builtinProducts)),
	}
	for _, c := range builtinCategories {
		c.CreatedAt = ts
		cat.Categories = append(cat.Categories, c)
	}
	for _, p := range builtinProducts {
		cat.Products = append(cat.Products, models.Product{
			ProductID:        p.id,
			Name:             p.name,
			Description:      p.description,
			Price:            p.price,
			Category:         p.category,
			Stock:            p.stock,
			ReorderThreshold: DefaultReorderThreshold,
			CreatedAt:        ts,
			UpdatedAt:        ts,
		})
	}
	cat.Inventory = inventoryFor(cat.Products, location, ts)
	return cat
}

// inventoryFor puts each product's whole stock at one location.
func inventoryFor(products []models.Product, location, ts string) []models.InventoryRecord {
	out := make([]models.InventoryRecord, 0, len(products))
	if location == "" {
		return out
	}
	for _, p := range products {
		out = append(out, models.InventoryRecord{
			ProductID:    p.ProductID,
			LocationID:   location,
			Quantity:     p.Stock,
			ReorderLevel: p.ReorderThreshold,
			UpdatedAt:    ts,
		})
	}
	return out
}
