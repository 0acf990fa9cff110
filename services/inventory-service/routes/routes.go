package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/auth"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/inventory-service/controllers"
)

// RegisterRoutes registers the inventory routes. Reads are public; stock
// changes need an identity.
func RegisterRoutes(r *gin.Engine, resolver *auth.Resolver, ctrl *controllers.InventoryController) {
	inventory := r.Group("/inventory")
	{
		inventory.GET("", ctrl.ListInventory)
		inventory.GET("/low-stock", ctrl.LowStock)
		inventory.GET("/:productId", ctrl.GetProductInventory)
		inventory.PUT("/:productId", auth.RequireUser(resolver), ctrl.UpdateInventory)
	}
}
