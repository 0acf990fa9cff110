package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/auth"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/product-service/controllers"
)

// RegisterRoutes exposes catalog reads publicly; writes need an identity.
func RegisterRoutes(r *gin.Engine, resolver *auth.Resolver, pc *controllers.ProductController, cc *controllers.CategoryController) {
	requireUser := auth.RequireUser(resolver)

	products := r.Group("/products")
	{
		products.GET("", pc.GetProducts)
		products.GET("/category/:category", pc.GetProductsByCategory)
		products.GET("/:productId", pc.GetProduct)
		products.POST("", requireUser, pc.CreateProduct)
		products.PUT("/:productId", requireUser, pc.UpdateProduct)
		products.DELETE("/:productId", requireUser, pc.DeleteProduct)
		products.POST("/:productId/image-upload-url", requireUser, pc.ImageUploadURL)
	}

	categories := r.Group("/categories")
	{
		categories.GET("", cc.GetCategories)
		categories.GET("/:categoryId", cc.GetCategory)
		categories.POST("", requireUser, cc.CreateCategory)
	}
}
