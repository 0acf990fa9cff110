package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	awspkg "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/aws"
	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/logger"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/product-service/cache"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/product-service/repository"
)

const DefaultCategory = "general"

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type CreateProductRequest struct {
	ProductID        string  `json:"productId"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Price            float64 `json:"price"`
	Category         string  `json:"category"`
	ImageURL         string  `json:"imageUrl"`
	Stock            int     `json:"stock" validate:"gte=0,max=1000000000"`
	ReorderThreshold int     `json:"reorderThreshold" validate:"gte=0"`
}

// UpdateProductRequest holds the fields a PUT may change. Empty name and
// category are ignored rather than cleared.
type UpdateProductRequest struct {
	Name             *string  `json:"name"`
	Description      *string  `json:"description"`
	Price            *float64 `json:"price" validate:"omitempty,gte=0"`
	Category         *string  `json:"category"`
	ImageURL         *string  `json:"imageUrl"`
	Stock            *int     `json:"stock" validate:"omitempty,gte=0,max=1000000000"`
	ReorderThreshold *int     `json:"reorderThreshold" validate:"omitempty,gte=0"`
}

func (r *UpdateProductRequest) fields() map[string]interface{} {
	f := map[string]interface{}{}
	if r.Name != nil && *r.Name != "" {
		f["name"] = *r.Name
	}
	if r.Description != nil {
		f["description"] = *r.Description
	}
	if r.Price != nil {
		f["price"] = *r.Price
	}
	if r.Category != nil && *r.Category != "" {
		f["category"] = *r.Category
	}
	if r.ImageURL != nil {
		f["imageUrl"] = *r.ImageURL
	}
	if r.Stock != nil {
		f["stock"] = *r.Stock
	}
	if r.ReorderThreshold != nil {
		f["reorderThreshold"] = *r.ReorderThreshold
	}
	return f
}

type ImageUploadRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

// Presigner issues presigned S3 PUT URLs.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string) (*awspkg.PresignedUpload, error)
}

type ProductService struct {
	repo      repository.ProductRepository
	cache     cache.ProductCache
	presigner Presigner
	log       *zap.Logger
	now       func() time.Time
}

// NewProductService wires the catalog. cache and presigner may be nil.
func NewProductService(repo repository.ProductRepository, c cache.ProductCache, presigner Presigner, log *zap.Logger) *ProductService {
	if c == nil {
		c = cache.Nop{}
	}
	return &ProductService{repo: repo, cache: c, presigner: presigner, log: log, now: time.Now}
}

// ListProducts returns every product, or those in category when it is set.
func (s *ProductService) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	if cached, ok := s.cache.List(ctx, category); ok {
		return cached, nil
	}

	var (
		products []models.Product
		err      error
	)
	if category != "" {
		products, err = s.repo.ListByCategory(ctx, category)
	} else {
		products, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch products", err)
	}
	s.cache.SetList(ctx, category, products)
	return products, nil
}

func (s *ProductService) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	if cached, ok := s.cache.Product(ctx, productID); ok {
		return cached, nil
	}
	product, err := s.repo.Get(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Product not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch product", err)
	}
	s.cache.SetProduct(ctx, product)
	return product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" || req.Price <= 0 {
		return nil, apperrors.InvalidInput("Name and valid price are required")
	}

	now := s.now()
	ts := models.Timestamp(now)
	id := req.ProductID
	if id == "" {
		id = models.NewID("product", now)
	}
	category := req.Category
	if category == "" {
		category = DefaultCategory
	}

	product := &models.Product{
		ProductID:        id,
		Name:             req.Name,
		Description:      req.Description,
		Price:            req.Price,
		Category:         category,
		ImageURL:         req.ImageURL,
		Stock:            req.Stock,
		ReorderThreshold: req.ReorderThreshold,
		CreatedAt:        ts,
		UpdatedAt:        ts,
	}
	if err := s.repo.Put(ctx, product); err != nil {
		return nil, apperrors.Internal("Failed to create product", err)
	}
	s.cache.Invalidate(ctx, id)
	logger.For(ctx, s.log).Info("product created", zap.String("product_id", id), zap.String("category", category))
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, productID string, req *UpdateProductRequest) (*models.Product, error) {
	fields := req.fields()
	if len(fields) == 0 {
		return nil, apperrors.InvalidInput("No fields to update")
	}
	fields["updatedAt"] = models.Timestamp(s.now())

	product, err := s.repo.Update(ctx, productID, fields)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Product not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to update product", err)
	}
	s.cache.Invalidate(ctx, productID)
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, productID string) error {
	if err := s.repo.Delete(ctx, productID); err != nil {
		return apperrors.Internal("Failed to delete product", err)
	}
	s.cache.Invalidate(ctx, productID)
	logger.For(ctx, s.log).Info("product deleted", zap.String("product_id", productID))
	return nil
}

// ImageUploadURL presigns a PUT for a new image of an existing product.
func (s *ProductService) ImageUploadURL(ctx context.Context, productID string, req *ImageUploadRequest) (*awspkg.PresignedUpload, error) {
	if s.presigner == nil {
		return nil, apperrors.Internal("Image uploads are not configured", nil)
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, apperrors.InvalidInput("Invalid content type. Allowed: image/gif, image/jpeg, image/jpg, image/png, image/webp")
	}
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	if e := path.Ext(req.FileName); e != "" {
		ext = strings.ToLower(e)
	}

	key := fmt.Sprintf("products/%s/%s%s", productID, uuid.NewString(), ext)
	upload, err := s.presigner.PresignPut(ctx, key, contentType)
	if err != nil {
		return nil, apperrors.Internal("Failed to generate presigned upload", err)
	}
	return upload, nil
}
