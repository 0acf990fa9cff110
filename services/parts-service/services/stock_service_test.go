package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	awspkg "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/aws"
	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
)

func intPtr(v int) *int { return &v }

func newStockService(parts *memParts, stock *memStock, metrics *fakeMetrics) *StockService {
	s := NewStockService(parts, stock, metrics, zap.NewNop())
	s.now = fixedClock
	return s
}

func TestUpdateStockOperations(t *testing.T) {
	parts := newMemParts(models.Part{UserID: "u1", PartID: "brake-1", PartName: "Brake pad"})
	stock := newMemStock()
	svc := newStockService(parts, stock, newFakeMetrics())
	ctx := context.Background()

	res, err := svc.UpdateStock(ctx, "u1", "brake-1", &UpdateStockRequest{Quantity: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, 10, res.Quantity)
	assert.Equal(t, DefaultVehicleModel, res.VehicleModel)
	assert.Equal(t, 1, res.Version)
	assert.Equal(t, 10, res.Part.CurrentStock)

	res, err = svc.UpdateStock(ctx, "u1", "brake-1", &UpdateStockRequest{Quantity: intPtr(5), Operation: "add"})
	require.NoError(t, err)
	assert.Equal(t, 15, res.Quantity)
	assert.Equal(t, 2, res.Version)

	res, err = svc.UpdateStock(ctx, "u1", "brake-1", &UpdateStockRequest{Quantity: intPtr(40), Operation: "subtract"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Quantity, "subtract clamps at zero")

	p, _ := parts.Get(ctx, "u1", "brake-1")
	assert.Equal(t, 0, p.CurrentStock)
}

func TestUpdateStockPerVehicleModel(t *testing.T) {
	parts := newMemParts(models.Part{UserID: "u1", PartID: "p1"})
	stock := newMemStock()
	svc := newStockService(parts, stock, newFakeMetrics())

	_, err := svc.UpdateStock(context.Background(), "u1", "p1", &UpdateStockRequest{VehicleModel: "Civic", Quantity: intPtr(3)})
	require.NoError(t, err)

	records, err := svc.StockForPart(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Civic", records[0].VehicleModel)
}

func TestUpdateStockValidation(t *testing.T) {
	svc := newStockService(newMemParts(), newMemStock(), newFakeMetrics())

	_, err := svc.UpdateStock(context.Background(), "u1", "p1", &UpdateStockRequest{})
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
	assert.Equal(t, "Quantity required", err.Error())

	_, err = svc.UpdateStock(context.Background(), "u1", "p1", &UpdateStockRequest{Quantity: intPtr(1), Operation: "multiply"})
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))

	_, err = svc.UpdateStock(context.Background(), "u1", "p1", &UpdateStockRequest{Quantity: intPtr(1)})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, "Part not found", err.Error())
}

func TestUpdateStockRejectsLevelPastLimit(t *testing.T) {
	parts := newMemParts(models.Part{UserID: "u1", PartID: "p1", CurrentStock: 5})
	stock := newMemStock()
	svc := newStockService(parts, stock, newFakeMetrics())
	ctx := context.Background()

	_, err := svc.UpdateStock(ctx, "u1", "p1", &UpdateStockRequest{Quantity: intPtr(5)})
	require.NoError(t, err)

	_, err = svc.UpdateStock(ctx, "u1", "p1", &UpdateStockRequest{Quantity: intPtr(math.MaxInt64), Operation: "add"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))

	rec, err := stock.Get(ctx, "p1", DefaultVehicleModel)
	require.NoError(t, err)
	assert.Equal(t, 5, rec.Quantity)
	p, _ := parts.Get(ctx, "u1", "p1")
	assert.Equal(t, 5, p.CurrentStock)
}

func TestUpdateStockRetriesLostRace(t *testing.T) {
	parts := newMemParts(models.Part{UserID: "u1", PartID: "p1"})
	stock := newMemStock()
	stock.conflicts = 2
	svc := newStockService(parts, stock, newFakeMetrics())

	res, err := svc.UpdateStock(context.Background(), "u1", "p1", &UpdateStockRequest{Quantity: intPtr(4), Operation: "add"})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Quantity)
	assert.Equal(t, 3, stock.saves)
}

func TestUpdateStockGivesUpAfterRepeatedConflicts(t *testing.T) {
	parts := newMemParts(models.Part{UserID: "u1", PartID: "p1", CurrentStock: 7})
	stock := newMemStock()
	stock.conflicts = maxStockAttempts
	metrics := newFakeMetrics()
	svc := newStockService(parts, stock, metrics)

	_, err := svc.UpdateStock(context.Background(), "u1", "p1", &UpdateStockRequest{Quantity: intPtr(1)})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Equal(t, 1, metrics.counts[awspkg.MetricStockConflicts])

	p, _ := parts.Get(context.Background(), "u1", "p1")
	assert.Equal(t, 7, p.CurrentStock, "part untouched when the stock write failed")
}

func TestLowStockUsesPositiveThreshold(t *testing.T) {
	parts := newMemParts(
		models.Part{UserID: "u1", PartID: "a", CurrentStock: 0, ReorderThreshold: 0},
		models.Part{UserID: "u1", PartID: "b", CurrentStock: 8, ReorderThreshold: 10},
		models.Part{UserID: "u1", PartID: "c", CurrentStock: 1, ReorderThreshold: 10},
		models.Part{UserID: "u1", PartID: "d", CurrentStock: 20, ReorderThreshold: 10},
		models.Part{UserID: "u2", PartID: "e", CurrentStock: 0, ReorderThreshold: 10},
	)
	svc := newStockService(parts, newMemStock(), newFakeMetrics())

	low, err := svc.LowStock(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "c", low[0].PartID)
	assert.Equal(t, "b", low[1].PartID)
}

func TestUpdateStockLogsMetricFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	metrics := newFakeMetrics()
	metrics.err = errors.New("cloudwatch throttled")
	svc := NewStockService(newMemParts(models.Part{UserID: "u1", PartID: "p1"}), newMemStock(), metrics, zap.New(core))
	svc.now = fixedClock

	res, err := svc.UpdateStock(context.Background(), "u1", "p1", &UpdateStockRequest{Quantity: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Quantity)

	entries := logs.FilterMessage("metric not recorded").All()
	require.NotEmpty(t, entries)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, awspkg.MetricStockAdjusted, entries[0].ContextMap()["metric"])
}
