package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/auth"
	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/validation"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/order-service/services"
)

const IdempotencyHeader = "Idempotency-Key"

// OrderPlacer is the slice of OrderService the controller needs.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, userID, idemKey string, req *services.PlaceOrderRequest) (*models.Order, bool, error)
	ListOrders(ctx context.Context, userID string) ([]models.Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error)
}

type OrderController struct {
	orderService OrderPlacer
	validator    *validation.RequestValidator
}

func NewOrderController(orderService OrderPlacer, v *validation.RequestValidator) *OrderController {
	return &OrderController{
		orderService: orderService,
		validator:    v,
	}
}

// CreateOrder places an order from the body's items, or from the cart when
// the body is empty or has no items.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		_ = c.Error(apperrors.ErrUnauthorized)
		return
	}

	var req services.PlaceOrderRequest
	if err := oc.validator.BindJSON(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}

	key := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
	order, created, err := oc.orderService.PlaceOrder(c.Request.Context(), userID, key, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	c.JSON(status, order)
}

// GetOrders returns every order of the authenticated user
func (oc *OrderController) GetOrders(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		_ = c.Error(apperrors.ErrUnauthorized)
		return
	}

	orders, err := oc.orderService.ListOrders(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		_ = c.Error(apperrors.ErrUnauthorized)
		return
	}

	order, err := oc.orderService.GetOrder(c.Request.Context(), userID, c.Param("orderId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, order)
}
