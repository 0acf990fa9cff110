// Package reorder decides which stock levels need replenishing and by how much.
package reorder

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
)

const (
	minSuggestedQuantity = 10
	defaultVehicleModel  = "ALL"
	TaskPending          = "pending"
)

// Task is a suggested purchase for one part.
type Task struct {
	PartID                 string  `json:"partId"`
	PartName               string  `json:"partName"`
	PartNumber             string  `json:"partNumber"`
	CurrentStock           int     `json:"currentStock"`
	ReorderThreshold       int     `json:"reorderThreshold"`
	VehicleModel           string  `json:"vehicleModel"`
	Supplier               string  `json:"supplier"`
	UnitPrice              float64 `json:"unitPrice"`
	SuggestedOrderQuantity int     `json:"suggestedOrderQuantity"`
	CreatedAt              string  `json:"createdAt"`
	Status                 string  `json:"status"`
}

// Result holds the flagged parts and their tasks in the same order.
type Result struct {
	LowStockItems []models.Part `json:"lowStockItems"`
	ReorderTasks  []Task        `json:"reorderTasks"`
}

// IsLow reports whether stock is at or below a positive threshold. A zero
// threshold disables reordering for the item.
func IsLow(stock, threshold int) bool {
	return threshold > 0 && stock <= threshold
}

// SuggestedQuantity is twice the threshold, but never fewer than 10 units.
func SuggestedQuantity(threshold int) int {
	if q := threshold * 2; q > minSuggestedQuantity {
		return q
	}
	return minSuggestedQuantity
}

// Urgency is stock relative to threshold; lower is more urgent.
func Urgency(stock, threshold int) float64 {
	if threshold < 1 {
		threshold = 1
	}
	return float64(stock) / float64(threshold)
}

// Select keeps the low items and orders them most urgent first. Items with the
// same urgency keep their input order.
func Select[T any](items []T, level func(T) (stock, threshold int)) []T {
	out := make([]T, 0)
	for _, it := range items {
		if IsLow(level(it)) {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return Urgency(level(out[i])) < Urgency(level(out[j]))
	})
	return out
}

func partLevel(p models.Part) (int, int) { return p.CurrentStock, p.ReorderThreshold }

// Evaluate flags the parts that need reordering and builds their tasks.
func Evaluate(parts []models.Part, now time.Time) Result {
	low := Select(parts, partLevel)
	createdAt := models.Timestamp(now)

	tasks := make([]Task, 0, len(low))
	for _, p := range low {
		model := p.VehicleModel
		if model == "" {
			model = defaultVehicleModel
		}
		tasks = append(tasks, Task{
			PartID:                 p.PartID,
			PartName:               p.PartName,
			PartNumber:             p.PartNumber,
			CurrentStock:           p.CurrentStock,
			ReorderThreshold:       p.ReorderThreshold,
			VehicleModel:           model,
			Supplier:               p.Supplier,
			UnitPrice:              p.UnitPrice,
			SuggestedOrderQuantity: SuggestedQuantity(p.ReorderThreshold),
			CreatedAt:              createdAt,
			Status:                 TaskPending,
		})
	}
	return Result{LowStockItems: low, ReorderTasks: tasks}
}

// Alert renders the single aggregated notification for flagged parts.
func Alert(low []models.Part) (subject, body string) {
	subject = fmt.Sprintf("Low Stock Alert: %d part(s) need reordering", len(low))

	lines := make([]string, 0, len(low))
	for _, p := range low {
		lines = append(lines, fmt.Sprintf("- %s (%s): Current: %d, Threshold: %d",
			p.PartName, p.PartNumber, p.CurrentStock, p.ReorderThreshold))
	}
	body = "The following parts are below their reorder threshold:\n\n" +
		strings.Join(lines, "\n") +
		"\n\nPlease review and place orders as needed."
	return subject, body
}
