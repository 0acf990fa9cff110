package services

import (
	"context"
	"time"

	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/pricing"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/reorder"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/parts-service/repository"
)

const uncategorized = "Uncategorized"

type LowStockItem struct {
	PartID           string `json:"partId"`
	PartName         string `json:"partName"`
	PartNumber       string `json:"partNumber"`
	CurrentStock     int    `json:"currentStock"`
	ReorderThreshold int    `json:"reorderThreshold"`
	VehicleModel     string `json:"vehicleModel"`
}

type Breakdown struct {
	Count         int     `json:"count"`
	TotalValue    float64 `json:"totalValue"`
	LowStockCount int     `json:"lowStockCount"`
}

type MonthActivity struct {
	PartsUpdated         int `json:"partsUpdated"`
	EstimatedConsumption int `json:"estimatedConsumption"`
}

type Analytics struct {
	TotalParts         int                      `json:"totalParts"`
	TotalValue         float64                  `json:"totalValue"`
	LowStockCount      int                      `json:"lowStockCount"`
	LowStockItems      []LowStockItem           `json:"lowStockItems"`
	Categories         map[string]*Breakdown    `json:"categories"`
	VehicleModels      map[string]*Breakdown    `json:"vehicleModels"`
	MonthlyConsumption map[string]MonthActivity `json:"monthlyConsumption"`
}

type Summary struct {
	TotalParts         int     `json:"totalParts"`
	TotalValue         float64 `json:"totalValue"`
	LowStockCount      int     `json:"lowStockCount"`
	CategoriesCount    int     `json:"categoriesCount"`
	VehicleModelsCount int     `json:"vehicleModelsCount"`
}

func (a *Analytics) Summary() Summary {
	return Summary{
		TotalParts:         a.TotalParts,
		TotalValue:         a.TotalValue,
		LowStockCount:      a.LowStockCount,
		CategoriesCount:    len(a.Categories),
		VehicleModelsCount: len(a.VehicleModels),
	}
}

type AnalyticsService struct {
	parts repository.PartsRepository
	now   func() time.Time
}

func NewAnalyticsService(parts repository.PartsRepository) *AnalyticsService {
	return &AnalyticsService{parts: parts, now: time.Now}
}

func (s *AnalyticsService) Compute(ctx context.Context, userID string) (*Analytics, error) {
	parts, err := s.parts.List(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch parts", err)
	}
	return Compute(parts, s.now()), nil
}

// Compute aggregates inventory value and low-stock counts overall, per
// category and per vehicle model. Monthly activity counts parts touched in
// the month containing now.
func Compute(parts []models.Part, now time.Time) *Analytics {
	a := &Analytics{
		TotalParts:         len(parts),
		Categories:         map[string]*Breakdown{},
		VehicleModels:      map[string]*Breakdown{},
		MonthlyConsumption: map[string]MonthActivity{},
	}
	now = now.UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	for _, p := range parts {
		value := float64(p.CurrentStock) * p.UnitPrice
		low := reorder.IsLow(p.CurrentStock, p.ReorderThreshold)
		a.TotalValue += value

		category := p.Category
		if category == "" {
			category = uncategorized
		}
		model := p.VehicleModel
		if model == "" {
			model = DefaultVehicleModel
		}
		for _, b := range []*Breakdown{bucket(a.Categories, category), bucket(a.VehicleModels, model)} {
			b.Count++
			b.TotalValue += value
			if low {
				b.LowStockCount++
			}
		}

		if low {
			a.LowStockCount++
		}

		if updated, err := time.Parse(time.RFC3339Nano, p.UpdatedAt); err == nil {
			if !updated.Before(monthStart) && updated.Before(nextMonth) {
				key := updated.UTC().Format("2006-01")
				m := a.MonthlyConsumption[key]
				m.PartsUpdated++
				a.MonthlyConsumption[key] = m
			}
		}
	}

	low := reorder.Select(parts, func(p models.Part) (int, int) { return p.CurrentStock, p.ReorderThreshold })
	a.LowStockItems = make([]LowStockItem, 0, len(low))
	for _, p := range low {
		model := p.VehicleModel
		if model == "" {
			model = DefaultVehicleModel
		}
		a.LowStockItems = append(a.LowStockItems, LowStockItem{
			PartID:           p.PartID,
			PartName:         p.PartName,
			PartNumber:       p.PartNumber,
			CurrentStock:     p.CurrentStock,
			ReorderThreshold: p.ReorderThreshold,
			VehicleModel:     model,
		})
	}

	a.TotalValue = pricing.Round2(a.TotalValue)
	for _, b := range a.Categories {
		b.TotalValue = pricing.Round2(b.TotalValue)
	}
	for _, b := range a.VehicleModels {
		b.TotalValue = pricing.Round2(b.TotalValue)
	}
	return a
}

func bucket(m map[string]*Breakdown, key string) *Breakdown {
	b, ok := m[key]
	if !ok {
		b = &Breakdown{}
		m[key] = b
	}
	return b
}
