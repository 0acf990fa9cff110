package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/logger"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/parts-service/repository"
)

type CreatePartRequest struct {
	PartID           string  `json:"partId"`
	PartName         string  `json:"partName" validate:"required"`
	PartNumber       string  `json:"partNumber"`
	Description      string  `json:"description"`
	VehicleModel     string  `json:"vehicleModel"`
	Category         string  `json:"category"`
	UnitPrice        float64 `json:"unitPrice" validate:"gte=0"`
	ReorderThreshold int     `json:"reorderThreshold" validate:"gte=0"`
	CurrentStock     int     `json:"currentStock" validate:"gte=0,max=1000000000"`
	Supplier         string  `json:"supplier"`
}

// UpdatePartRequest is merged over the stored part; nil fields keep their
// value. Keys cannot be changed.
type UpdatePartRequest struct {
	PartName         *string  `json:"partName" validate:"omitempty,min=1"`
	PartNumber       *string  `json:"partNumber"`
	Description      *string  `json:"description"`
	VehicleModel     *string  `json:"vehicleModel"`
	Category         *string  `json:"category"`
	UnitPrice        *float64 `json:"unitPrice" validate:"omitempty,gte=0"`
	ReorderThreshold *int     `json:"reorderThreshold" validate:"omitempty,gte=0"`
	CurrentStock     *int     `json:"currentStock" validate:"omitempty,gte=0,max=1000000000"`
	Supplier         *string  `json:"supplier"`
}

type PartService struct {
	repo repository.PartsRepository
	log  *zap.Logger
	now  func() time.Time
}

func NewPartService(repo repository.PartsRepository, log *zap.Logger) *PartService {
	return &PartService{repo: repo, log: log, now: time.Now}
}

func (s *PartService) ListParts(ctx context.Context, userID, vehicleModel string) ([]models.Part, error) {
	var (
		parts []models.Part
		err   error
	)
	if vehicleModel != "" {
		parts, err = s.repo.ListByVehicleModel(ctx, userID, vehicleModel)
	} else {
		parts, err = s.repo.List(ctx, userID)
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch parts", err)
	}
	return parts, nil
}

func (s *PartService) GetPart(ctx context.Context, userID, partID string) (*models.Part, error) {
	part, err := s.repo.Get(ctx, userID, partID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Part not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch part", err)
	}
	return part, nil
}

func (s *PartService) CreatePart(ctx context.Context, userID string, req *CreatePartRequest) (*models.Part, error) {
	now := s.now()
	ts := models.Timestamp(now)
	id := req.PartID
	if id == "" {
		id = models.NewID("part", now)
	}

	part := &models.Part{
		UserID:           userID,
		PartID:           id,
		PartName:         req.PartName,
		PartNumber:       req.PartNumber,
		Description:      req.Description,
		VehicleModel:     req.VehicleModel,
		Category:         req.Category,
		UnitPrice:        req.UnitPrice,
		ReorderThreshold: req.ReorderThreshold,
		CurrentStock:     req.CurrentStock,
		Supplier:         req.Supplier,
		CreatedAt:        ts,
		UpdatedAt:        ts,
	}
	if err := s.repo.Put(ctx, part); err != nil {
		return nil, apperrors.Internal("Failed to create part", err)
	}
	logger.For(ctx, s.log).Info("part created", zap.String("part_id", id), zap.String("user_id", userID))
	return part, nil
}

func (s *PartService) UpdatePart(ctx context.Context, userID, partID string, req *UpdatePartRequest) (*models.Part, error) {
	part, err := s.GetPart(ctx, userID, partID)
	if err != nil {
		return nil, err
	}

	setString(&part.PartName, req.PartName)
	setString(&part.PartNumber, req.PartNumber)
	setString(&part.Description, req.Description)
	setString(&part.VehicleModel, req.VehicleModel)
	setString(&part.Category, req.Category)
	setString(&part.Supplier, req.Supplier)
	if req.UnitPrice != nil {
		part.UnitPrice = *req.UnitPrice
	}
	if req.ReorderThreshold != nil {
		part.ReorderThreshold = *req.ReorderThreshold
	}
	if req.CurrentStock != nil {
		part.CurrentStock = *req.CurrentStock
	}
	part.UpdatedAt = models.Timestamp(s.now())

	if err := s.repo.Put(ctx, part); err != nil {
		return nil, apperrors.Internal("Failed to update part", err)
	}
	return part, nil
}

func (s *PartService) DeletePart(ctx context.Context, userID, partID string) error {
	if err := s.repo.Delete(ctx, userID, partID); err != nil {
		return apperrors.Internal("Failed to delete part", err)
	}
	logger.For(ctx, s.log).Info("part deleted", zap.String("part_id", partID), zap.String("user_id", userID))
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
