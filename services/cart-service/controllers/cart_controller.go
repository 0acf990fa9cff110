package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/cart-service/services"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/auth"
	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/validation"
)

type CartController struct {
	cart      *services.CartService
	validator *validation.RequestValidator
}

func NewCartController(cart *services.CartService, v *validation.RequestValidator) *CartController {
	return &CartController{cart: cart, validator: v}
}

func userID(c *gin.Context) (string, bool) {
	id, ok := auth.GetUserID(c)
	if !ok {
		_ = c.Error(apperrors.ErrUnauthorized)
	}
	return id, ok
}

// GetCart handles GET /cart
func (cc *CartController) GetCart(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	view, err := cc.cart.GetCart(c.Request.Context(), uid)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AddToCart handles POST /cart. A merge into an existing line answers 200,
// a new line 201.
func (cc *CartController) AddToCart(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req services.AddItemRequest
	if err := cc.validator.BindJSON(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}
	item, created, err := cc.cart.AddItem(c.Request.Context(), uid, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, item)
}

func (cc *CartController) UpdateCartItem(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req services.UpdateItemRequest
	if err := cc.validator.BindJSON(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}
	item, err := cc.cart.UpdateItem(c.Request.Context(), uid, c.Param("cartItemId"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (cc *CartController) RemoveFromCart(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	if err := cc.cart.RemoveItem(c.Request.Context(), uid, c.Param("cartItemId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

func (cc *CartController) ClearCart(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	if err := cc.cart.Clear(c.Request.Context(), uid); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
}
