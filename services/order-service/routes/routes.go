package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/auth"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/order-service/controllers"
)

func RegisterOrderRoutes(r *gin.Engine, resolver *auth.Resolver, oc *controllers.OrderController) {
	orderRoutes := r.Group("/orders")
	orderRoutes.Use(auth.RequireUser(resolver))
	orderRoutes.POST("", oc.CreateOrder)
	orderRoutes.GET("", oc.GetOrders)
	orderRoutes.GET("/:orderId", oc.GetOrderByID)
}
