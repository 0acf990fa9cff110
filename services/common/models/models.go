// Package models holds the DynamoDB item shapes shared by the services.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimeLayout is ISO-8601 in UTC with millisecond precision; it sorts
// lexically.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp formats t for storage.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// NewID returns "<prefix>-<unix ms>-<8 random hex chars>", e.g.
// order-1718000000000-3f9a1c2b. IDs created later sort after earlier ones.
func NewID(prefix string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), suffix)
}

type Product struct {
	ProductID        string  `json:"productId" dynamodbav:"productId"`
	Name             string  `json:"name" dynamodbav:"name"`
	Description      string  `json:"description" dynamodbav:"description"`
	Price            float64 `json:"price" dynamodbav:"price"`
	Category         string  `json:"category" dynamodbav:"category"`
	ImageURL         string  `json:"imageUrl" dynamodbav:"imageUrl"`
	Stock            int     `json:"stock" dynamodbav:"stock"`
	ReorderThreshold int     `json:"reorderThreshold" dynamodbav:"reorderThreshold"`
	CreatedAt        string  `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt        string  `json:"updatedAt" dynamodbav:"updatedAt"`
}

type Category struct {
	CategoryID  string `json:"categoryId" dynamodbav:"categoryId"`
	Name        string `json:"name" dynamodbav:"name"`
	Description string `json:"description" dynamodbav:"description"`
	ImageURL    string `json:"imageUrl" dynamodbav:"imageUrl"`
	CreatedAt   string `json:"createdAt" dynamodbav:"createdAt"`
}

// Part is a vehicle part owned by one user.
type Part struct {
	UserID           string  `json:"userId" dynamodbav:"userId"`
	PartID           string  `json:"partId" dynamodbav:"partId"`
	PartName         string  `json:"partName" dynamodbav:"partName"`
	PartNumber       string  `json:"partNumber" dynamodbav:"partNumber"`
	Description      string  `json:"description" dynamodbav:"description"`
	VehicleModel     string  `json:"vehicleModel" dynamodbav:"vehicleModel"`
	Category         string  `json:"category" dynamodbav:"category"`
	UnitPrice        float64 `json:"unitPrice" dynamodbav:"unitPrice"`
	ReorderThreshold int     `json:"reorderThreshold" dynamodbav:"reorderThreshold"`
	CurrentStock     int     `json:"currentStock" dynamodbav:"currentStock"`
	Supplier         string  `json:"supplier" dynamodbav:"supplier"`
	CreatedAt        string  `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt        string  `json:"updatedAt" dynamodbav:"updatedAt"`
}

// StockRecord is the stock of one part for one vehicle model. Version guards
// concurrent adjustments.
type StockRecord struct {
	PartID       string `json:"partId" dynamodbav:"partId"`
	VehicleModel string `json:"vehicleModel" dynamodbav:"vehicleModel"`
	UserID       string `json:"userId" dynamodbav:"userId"`
	Quantity     int    `json:"quantity" dynamodbav:"quantity"`
	Version      int    `json:"version" dynamodbav:"version"`
	Timestamp    string `json:"timestamp" dynamodbav:"timestamp"`
	UpdatedAt    string `json:"updatedAt" dynamodbav:"updatedAt"`
}

type CartItem struct {
	UserID     string `json:"userId" dynamodbav:"userId"`
	CartItemID string `json:"cartItemId" dynamodbav:"cartItemId"`
	ProductID  string `json:"productId" dynamodbav:"productId"`
	Quantity   int    `json:"quantity" dynamodbav:"quantity"`
	CreatedAt  string `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt  string `json:"updatedAt" dynamodbav:"updatedAt"`
}

// InventoryRecord is the stock of one product at one location.
type InventoryRecord struct {
	ProductID    string `json:"productId" dynamodbav:"productId"`
	LocationID   string `json:"locationId" dynamodbav:"locationId"`
	Quantity     int    `json:"quantity" dynamodbav:"quantity"`
	ReorderLevel int    `json:"reorderLevel" dynamodbav:"reorderLevel"`
	UpdatedAt    string `json:"updatedAt" dynamodbav:"updatedAt"`
}
