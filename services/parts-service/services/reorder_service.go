package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	awspkg "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/aws"
	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/logger"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/reorder"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/parts-service/repository"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/parts-service/sender"
)

// ReorderService scans parts for low stock and raises one alert per scan.
type ReorderService struct {
	parts    repository.PartsRepository
	notifier sender.Notifier
	metrics  awspkg.MetricsRecorder
	log      *zap.Logger
	now      func() time.Time
}

func NewReorderService(parts repository.PartsRepository, notifier sender.Notifier, metrics awspkg.MetricsRecorder, log *zap.Logger) *ReorderService {
	return &ReorderService{parts: parts, notifier: notifier, metrics: metrics, log: log, now: time.Now}
}

// Check evaluates userID's parts, or every part when userID is empty. With
// notify set, a non-empty result is announced once; delivery failures are
// logged and do not fail the scan.
func (s *ReorderService) Check(ctx context.Context, userID string, notify bool) (*reorder.Result, error) {
	log := logger.For(ctx, s.log).With(zap.String("user_id", userID))

	parts, err := s.parts.ScanAll(ctx, userID)
	if err != nil {
		log.Error("reorder scan failed", zap.Error(err))
		return nil, apperrors.Internal("Failed to scan parts", err)
	}

	result := reorder.Evaluate(parts, s.now())
	s.record(ctx, awspkg.MetricReorderScans, 1)
	s.record(ctx, awspkg.MetricPartsFlagged, float64(len(result.LowStockItems)))
	log.Info("reorder scan completed",
		zap.Int("parts", len(parts)),
		zap.Int("flagged", len(result.LowStockItems)),
	)

	if notify && len(result.LowStockItems) > 0 {
		s.alert(ctx, log, result)
	}
	return &result, nil
}

func (s *ReorderService) alert(ctx context.Context, log *zap.Logger, result reorder.Result) {
	if s.notifier == nil || !s.notifier.Configured() {
		log.Warn("reminders topic not configured, skipping low stock alert")
		return
	}
	subject, body := reorder.Alert(result.LowStockItems)
	if err := s.notifier.Notify(ctx, subject, body); err != nil {
		log.Error("low stock alert failed", zap.Error(err))
		s.record(ctx, awspkg.MetricNotificationsFailed, 1)
		return
	}
	log.Info("low stock alert sent", zap.Int("parts", len(result.LowStockItems)))
}

func (s *ReorderService) record(ctx context.Context, metric string, v float64) {
	if s.metrics == nil {
		return
	}
	if err := s.metrics.RecordValue(ctx, metric, v, nil); err != nil {
		s.log.Debug("metric not recorded", zap.String("metric", metric), zap.Error(err))
	}
}
