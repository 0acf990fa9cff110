package reorder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
)

func part(id string, stock, threshold int) models.Part {
	return models.Part{PartID: id, PartName: "Part " + id, PartNumber: "PN-" + id, CurrentStock: stock, ReorderThreshold: threshold}
}

func TestIsLow(t *testing.T) {
	assert.True(t, IsLow(5, 10))
	assert.True(t, IsLow(10, 10))
	assert.False(t, IsLow(11, 10))
	assert.False(t, IsLow(0, 0), "zero threshold is never flagged")
	assert.False(t, IsLow(-3, 0))
}

func TestSuggestedQuantity(t *testing.T) {
	assert.Equal(t, 20, SuggestedQuantity(10))
	assert.Equal(t, 10, SuggestedQuantity(3))
	assert.Equal(t, 10, SuggestedQuantity(5))
	assert.Equal(t, 12, SuggestedQuantity(6))
}

func TestEvaluate_FlagsAndSuggests(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	res := Evaluate([]models.Part{part("a", 5, 10)}, now)

	require.Len(t, res.ReorderTasks, 1)
	task := res.ReorderTasks[0]
	assert.Equal(t, 20, task.SuggestedOrderQuantity)
	assert.Equal(t, "ALL", task.VehicleModel)
	assert.Equal(t, "pending", task.Status)
	assert.Equal(t, "2026-01-02T03:04:05.000Z", task.CreatedAt)
	assert.Equal(t, res.LowStockItems[0].PartID, task.PartID)
}

func TestEvaluate_SortsByUrgencyStable(t *testing.T) {
	parts := []models.Part{
		part("half", 5, 10),    // 0.5
		part("ignored", 0, 0),  // threshold 0
		part("empty", 0, 4),    // 0
		part("full", 8, 8),     // 1
		part("half-2", 2, 4),   // 0.5, after "half"
		part("healthy", 50, 5), // not low
	}
	res := Evaluate(parts, time.Now())

	ids := make([]string, 0, len(res.ReorderTasks))
	for _, task := range res.ReorderTasks {
		ids = append(ids, task.PartID)
	}
	assert.Equal(t, []string{"empty", "half", "half-2", "full"}, ids)
}

func TestEvaluate_NothingLow(t *testing.T) {
	res := Evaluate([]models.Part{part("a", 100, 10)}, time.Now())
	assert.Empty(t, res.LowStockItems)
	assert.NotNil(t, res.ReorderTasks)
}

func TestAlert(t *testing.T) {
	subject, body := Alert([]models.Part{part("a", 1, 5), part("b", 3, 4)})

	assert.Equal(t, "Low Stock Alert: 2 part(s) need reordering", subject)
	assert.Equal(t, "The following parts are below their reorder threshold:\n\n"+
		"- Part a (PN-a): Current: 1, Threshold: 5\n"+
		"- Part b (PN-b): Current: 3, Threshold: 4"+
		"\n\nPlease review and place orders as needed.", body)
}
