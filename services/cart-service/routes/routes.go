package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/cart-service/controllers"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/auth"
)

// RegisterRoutes mounts the cart under /cart; every route needs an identity.
func RegisterRoutes(r *gin.Engine, resolver *auth.Resolver, cc *controllers.CartController) {
	cart := r.Group("/cart")
	cart.Use(auth.RequireUser(resolver))
	{
		cart.GET("", cc.GetCart)
		cart.POST("", cc.AddToCart)
		cart.DELETE("", cc.ClearCart)
		cart.PUT("/:cartItemId", cc.UpdateCartItem)
		cart.DELETE("/:cartItemId", cc.RemoveFromCart)
	}
}
