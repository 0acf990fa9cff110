package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	awspkg "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/aws"
	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/logger"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/reorder"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/inventory-service/repository"
)

const (
	DefaultReorderLevel = 10
	maxWriteAttempts    = 3
)

type UpdateInventoryRequest struct {
	LocationID   string `json:"locationId"`
	Quantity     *int   `json:"quantity" validate:"omitempty,gte=0,max=1000000000"`
	ReorderLevel *int   `json:"reorderLevel" validate:"omitempty,gte=0"`
	Operation    string `json:"operation" validate:"omitempty,oneof=set add subtract"`
}

// InventoryService handles stock per product and location.
type InventoryService struct {
	repo    repository.InventoryRepository
	metrics awspkg.MetricsRecorder
	log     *zap.Logger
	now     func() time.Time
}

func NewInventoryService(repo repository.InventoryRepository, metrics awspkg.MetricsRecorder, log *zap.Logger) *InventoryService {
	return &InventoryService{repo: repo, metrics: metrics, log: log, now: time.Now}
}

// List returns every record, or only those at locationID when it is set.
func (s *InventoryService) List(ctx context.Context, locationID string) ([]models.InventoryRecord, error) {
	var (
		records []models.InventoryRecord
		err     error
	)
	if locationID != "" {
		records, err = s.repo.ListByLocation(ctx, locationID)
	} else {
		records, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch inventory", err)
	}
	return records, nil
}

func (s *InventoryService) ForProduct(ctx context.Context, productID string) ([]models.InventoryRecord, error) {
	records, err := s.repo.ListForProduct(ctx, productID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch inventory", err)
	}
	return records, nil
}

// LowStock returns records at or below their reorder level, most urgent first.
func (s *InventoryService) LowStock(ctx context.Context, locationID string) ([]models.InventoryRecord, error) {
	records, err := s.List(ctx, locationID)
	if err != nil {
		return nil, err
	}
	return reorder.Select(records, func(r models.InventoryRecord) (int, int) {
		return r.Quantity, r.ReorderLevel
	}), nil
}

// Update applies the operation to the (product, location) record. The write
// is conditioned on the quantity it read and retried when it lost a race.
func (s *InventoryService) Update(ctx context.Context, productID string, req *UpdateInventoryRequest) (*models.InventoryRecord, error) {
	if req.LocationID == "" || req.Quantity == nil {
		return nil, apperrors.InvalidInput("Missing required fields")
	}
	op, err := models.ParseStockOperation(req.Operation)
	if err != nil {
		return nil, apperrors.InvalidInput("%s", err.Error())
	}

	if _, err := s.repo.Product(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Product not found")
		}
		return nil, apperrors.Internal("Failed to fetch product", err)
	}

	var rec *models.InventoryRecord
	for attempt := 1; ; attempt++ {
		rec, err = s.write(ctx, productID, op, req)
		if err == nil {
			break
		}
		if errors.Is(err, models.ErrStockLimit) {
			return nil, apperrors.InvalidInput("%s", err.Error())
		}
		if !errors.Is(err, repository.ErrQuantityChanged) {
			return nil, apperrors.Internal("Failed to update inventory", err)
		}
		if attempt == maxWriteAttempts {
			s.count(ctx, awspkg.MetricStockConflicts)
			return nil, apperrors.Conflict("inventory for %s at %s changed while updating, retry the request", productID, req.LocationID)
		}
	}

	s.count(ctx, awspkg.MetricStockAdjusted)
	logger.For(ctx, s.log).Info("inventory updated",
		zap.String("product_id", productID),
		zap.String("location_id", req.LocationID),
		zap.String("operation", string(op)),
		zap.Int("quantity", rec.Quantity),
	)
	return rec, nil
}

func (s *InventoryService) write(ctx context.Context, productID string, op models.StockOperation, req *UpdateInventoryRequest) (*models.InventoryRecord, error) {
	var (
		current int
		prev    *int
		level   = DefaultReorderLevel
	)
	existing, err := s.repo.Get(ctx, productID, req.LocationID)
	switch {
	case err == nil:
		current = existing.Quantity
		prev = &existing.Quantity
		level = existing.ReorderLevel
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}
	if req.ReorderLevel != nil {
		level = *req.ReorderLevel
	}

	qty, err := op.Apply(current, *req.Quantity)
	if err != nil {
		return nil, err
	}
	rec := &models.InventoryRecord{
		ProductID:    productID,
		LocationID:   req.LocationID,
		Quantity:     qty,
		ReorderLevel: level,
		UpdatedAt:    models.Timestamp(s.now()),
	}
	if err := s.repo.Save(ctx, rec, prev); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *InventoryService) count(ctx context.Context, metric string) {
	if s.metrics == nil {
		return
	}
	if err := s.metrics.RecordCount(ctx, metric, map[string]string{"Store": "inventory"}); err != nil {
		s.log.Debug("metric not recorded", zap.String("metric", metric), zap.Error(err))
	}
}
