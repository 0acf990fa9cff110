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
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/parts-service/repository"
)

const (
	DefaultVehicleModel = "ALL"
	maxStockAttempts    = 3
)

type UpdateStockRequest struct {
	VehicleModel string `json:"vehicleModel"`
	Quantity     *int   `json:"quantity" validate:"omitempty,gte=0,max=1000000000"`
	Operation    string `json:"operation" validate:"omitempty,oneof=set add subtract"`
}

// StockUpdate is the stock record merged with the part it belongs to.
type StockUpdate struct {
	models.StockRecord
	Part *models.Part `json:"part"`
}

type StockService struct {
	parts   repository.PartsRepository
	stock   repository.StockRepository
	metrics awspkg.MetricsRecorder
	log     *zap.Logger
	now     func() time.Time
}

func NewStockService(parts repository.PartsRepository, stock repository.StockRepository, metrics awspkg.MetricsRecorder, log *zap.Logger) *StockService {
	return &StockService{parts: parts, stock: stock, metrics: metrics, log: log, now: time.Now}
}

func (s *StockService) StockForPart(ctx context.Context, partID string) ([]models.StockRecord, error) {
	records, err := s.stock.ListForPart(ctx, partID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch stock", err)
	}
	return records, nil
}

// LowStock returns the caller's parts at or below a positive reorder
// threshold, most urgent first.
func (s *StockService) LowStock(ctx context.Context, userID string) ([]models.Part, error) {
	parts, err := s.parts.List(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch parts", err)
	}
	return reorder.Select(parts, func(p models.Part) (int, int) {
		return p.CurrentStock, p.ReorderThreshold
	}), nil
}

// UpdateStock applies the operation to the (part, vehicle model) record with
// a version-conditioned write, retrying when another writer got there first,
// then mirrors the new level onto the part.
func (s *StockService) UpdateStock(ctx context.Context, userID, partID string, req *UpdateStockRequest) (*StockUpdate, error) {
	if req.Quantity == nil {
		return nil, apperrors.InvalidInput("Quantity required")
	}
	op, err := models.ParseStockOperation(req.Operation)
	if err != nil {
		return nil, apperrors.InvalidInput("%s", err.Error())
	}
	model := req.VehicleModel
	if model == "" {
		model = DefaultVehicleModel
	}

	if _, err := s.parts.Get(ctx, userID, partID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Part not found")
		}
		return nil, apperrors.Internal("Failed to fetch part", err)
	}

	var rec *models.StockRecord
	for attempt := 1; ; attempt++ {
		rec, err = s.writeStock(ctx, userID, partID, model, op, *req.Quantity)
		if err == nil {
			break
		}
		if errors.Is(err, models.ErrStockLimit) {
			return nil, apperrors.InvalidInput("%s", err.Error())
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.Internal("Failed to update stock", err)
		}
		if attempt == maxStockAttempts {
			s.count(ctx, awspkg.MetricStockConflicts)
			return nil, apperrors.Conflict("stock for %s changed while updating, retry the request", partID)
		}
	}

	part, err := s.parts.SetCurrentStock(ctx, userID, partID, rec.Quantity, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Part not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to update part stock", err)
	}

	s.count(ctx, awspkg.MetricStockAdjusted)
	logger.For(ctx, s.log).Info("stock updated",
		zap.String("part_id", partID),
		zap.String("vehicle_model", model),
		zap.String("operation", string(op)),
		zap.Int("quantity", rec.Quantity),
	)
	return &StockUpdate{StockRecord: *rec, Part: part}, nil
}

func (s *StockService) writeStock(ctx context.Context, userID, partID, model string, op models.StockOperation, qty int) (*models.StockRecord, error) {
	current := 0
	version := 0
	existing, err := s.stock.Get(ctx, partID, model)
	switch {
	case err == nil:
		current, version = existing.Quantity, existing.Version
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	level, err := op.Apply(current, qty)
	if err != nil {
		return nil, err
	}
	ts := models.Timestamp(s.now())
	rec := &models.StockRecord{
		PartID:       partID,
		VehicleModel: model,
		UserID:       userID,
		Quantity:     level,
		Version:      version + 1,
		Timestamp:    ts,
		UpdatedAt:    ts,
	}
	if err := s.stock.Save(ctx, rec, version); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *StockService) count(ctx context.Context, metric string) {
	if s.metrics == nil {
		return
	}
	if err := s.metrics.RecordCount(ctx, metric, nil); err != nil {
		s.log.Debug("metric not recorded", zap.String("metric", metric), zap.Error(err))
	}
}
