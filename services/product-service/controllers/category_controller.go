package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/validation"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/product-service/services"
)

type CategoryServiceAPI interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, categoryID string) (*models.Category, error)
	CreateCategory(ctx context.Context, req *services.CreateCategoryRequest) (*models.Category, error)
}

type CategoryController struct {
	svc       CategoryServiceAPI
	validator *validation.RequestValidator
}

func NewCategoryController(svc CategoryServiceAPI, v *validation.RequestValidator) *CategoryController {
	return &CategoryController{svc: svc, validator: v}
}

// GetCategories responds with a bare array.
func (cc *CategoryController) GetCategories(c *gin.Context) {
	categories, err := cc.svc.ListCategories(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (cc *CategoryController) GetCategory(c *gin.Context) {
	category, err := cc.svc.GetCategory(c.Request.Context(), c.Param("categoryId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if err := cc.validator.BindJSON(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}
	category, err := cc.svc.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, category)
}
