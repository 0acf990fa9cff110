package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/auth"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/parts-service/controllers"
)

type Controllers struct {
	Parts   *controllers.PartsController
	Stock   *controllers.StockController
	Reorder *controllers.ReorderController
}

func RegisterRoutes(r *gin.Engine, resolver *auth.Resolver, c Controllers) {
	api := r.Group("")
	api.Use(auth.RequireUser(resolver))

	parts := api.Group("/parts")
	parts.GET("", c.Parts.ListParts)
	parts.POST("", c.Parts.CreatePart)
	parts.GET("/:partId", c.Parts.GetPart)
	parts.PUT("/:partId", c.Parts.UpdatePart)
	parts.DELETE("/:partId", c.Parts.DeletePart)

	stock := api.Group("/stock")
	stock.GET("/low", c.Stock.LowStock)
	stock.GET("/:partId", c.Stock.GetStock)
	stock.PUT("/:partId", c.Stock.UpdateStock)

	reorder := api.Group("/reorder")
	reorder.GET("/tasks", c.Reorder.Tasks)
	reorder.POST("/check", c.Reorder.Check)

	api.GET("/analytics", c.Reorder.Analytics)
	api.POST("/notifications", c.Reorder.Notify)
}
