package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	awspkg "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/aws"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/validation"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/product-service/services"
)

// ProductServiceAPI is the subset of services.ProductService the handlers use.
type ProductServiceAPI interface {
	ListProducts(ctx context.Context, category string) ([]models.Product, error)
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	CreateProduct(ctx context.Context, req *services.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID string, req *services.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	ImageUploadURL(ctx context.Context, productID string, req *services.ImageUploadRequest) (*awspkg.PresignedUpload, error)
}

type ProductController struct {
	svc       ProductServiceAPI
	validator *validation.RequestValidator
}

func NewProductController(svc ProductServiceAPI, v *validation.RequestValidator) *ProductController {
	return &ProductController{svc: svc, validator: v}
}

// GetProducts handles GET /products?category=
func (pc *ProductController) GetProducts(c *gin.Context) {
	pc.list(c, c.Query("category"))
}

// GetProductsByCategory handles GET /products/category/:category
func (pc *ProductController) GetProductsByCategory(c *gin.Context) {
	pc.list(c, c.Param("category"))
}

func (pc *ProductController) list(c *gin.Context, category string) {
	products, err := pc.svc.ListProducts(c.Request.Context(), category)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (pc *ProductController) GetProduct(c *gin.Context) {
	product, err := pc.svc.GetProduct(c.Request.Context(), c.Param("productId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := pc.validator.BindJSON(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}
	product, err := pc.svc.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	var req services.UpdateProductRequest
	if err := pc.validator.BindJSON(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}
	product, err := pc.svc.UpdateProduct(c.Request.Context(), c.Param("productId"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	if err := pc.svc.DeleteProduct(c.Request.Context(), c.Param("productId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// ImageUploadURL returns a presigned S3 PUT for a product image.
func (pc *ProductController) ImageUploadURL(c *gin.Context) {
	var req services.ImageUploadRequest
	if err := pc.validator.BindJSON(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}
	upload, err := pc.svc.ImageUploadURL(c.Request.Context(), c.Param("productId"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, upload)
}
