package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/logger"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/product-service/repository"
)

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

type CategoryService struct {
	repo repository.CategoryRepository
	log  *zap.Logger
	now  func() time.Time
}

func NewCategoryService(repo repository.CategoryRepository, log *zap.Logger) *CategoryService {
	return &CategoryService{repo: repo, log: log, now: time.Now}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch categories", err)
	}
	return categories, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, categoryID string) (*models.Category, error) {
	category, err := s.repo.Get(ctx, categoryID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Category not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch category", err)
	}
	return category, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*models.Category, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.InvalidInput("Missing required fields")
	}
	now := s.now()
	category := &models.Category{
		CategoryID:  models.NewID("cat", now),
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedAt:   models.Timestamp(now),
	}
	if err := s.repo.Put(ctx, category); err != nil {
		return nil, apperrors.Internal("Failed to create category", err)
	}
	logger.For(ctx, s.log).Info("category created", zap.String("category_id", category.CategoryID))
	return category, nil
}
