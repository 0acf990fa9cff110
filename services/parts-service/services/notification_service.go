package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/logger"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/parts-service/repository"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/parts-service/sender"
)

const (
	defaultAlertSubject = "Parts Inventory Alert"
	defaultAlertMessage = "Stock level alert"
)

var ErrNoTopic = errors.New("no topic configured")

type NotificationRequest struct {
	PartID  string `json:"partId"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type NotificationService struct {
	parts    repository.PartsRepository
	notifier sender.Notifier
	log      *zap.Logger
}

func NewNotificationService(parts repository.PartsRepository, notifier sender.Notifier, log *zap.Logger) *NotificationService {
	return &NotificationService{parts: parts, notifier: notifier, log: log}
}

// Send delivers a direct alert. When the request names one of the caller's
// parts, the alert describes that part instead of the supplied text.
func (s *NotificationService) Send(ctx context.Context, userID string, req *NotificationRequest) error {
	log := logger.For(ctx, s.log)
	if s.notifier == nil || !s.notifier.Configured() {
		log.Warn("reminders topic not set, skipping notification")
		return ErrNoTopic
	}

	subject := req.Subject
	if subject == "" {
		subject = defaultAlertSubject
	}
	message := req.Message
	if message == "" {
		message = defaultAlertMessage
	}

	if req.PartID != "" {
		part, err := s.parts.Get(ctx, userID, req.PartID)
		switch {
		case err == nil:
			subject, message = partAlert(part.PartName, part.PartNumber, part.CurrentStock, part.ReorderThreshold, part.VehicleModel, part.Supplier)
		case !errors.Is(err, repository.ErrNotFound):
			return apperrors.Internal("Failed to fetch part", err)
		}
	}

	if err := s.notifier.Notify(ctx, subject, message); err != nil {
		log.Error("notification failed", zap.Error(err))
		return apperrors.Internal("Failed to send notification", err)
	}
	return nil
}

func partAlert(name, number string, stock, threshold int, model, supplier string) (string, string) {
	if model == "" {
		model = DefaultVehicleModel
	}
	if supplier == "" {
		supplier = "N/A"
	}
	subject := fmt.Sprintf("Low Stock Alert: %s", name)
	body := fmt.Sprintf("Part %q (%s) is below reorder threshold.\n\n"+
		"Current Stock: %d\nReorder Threshold: %d\nVehicle Model: %s\nSupplier: %s",
		name, number, stock, threshold, model, supplier)
	return subject, body
}
