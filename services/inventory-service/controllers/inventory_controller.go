package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/validation"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/inventory-service/services"
)

type InventoryController struct {
	svc       *services.InventoryService
	validator *validation.RequestValidator
}

func NewInventoryController(svc *services.InventoryService, v *validation.RequestValidator) *InventoryController {
	return &InventoryController{svc: svc, validator: v}
}

// ListInventory handles GET /inventory?locationId=
func (ic *InventoryController) ListInventory(c *gin.Context) {
	records, err := ic.svc.List(c.Request.Context(), c.Query("locationId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetProductInventory handles GET /inventory/:productId, one record per location.
func (ic *InventoryController) GetProductInventory(c *gin.Context) {
	records, err := ic.svc.ForProduct(c.Request.Context(), c.Param("productId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (ic *InventoryController) LowStock(c *gin.Context) {
	records, err := ic.svc.LowStock(c.Request.Context(), c.Query("locationId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": records, "count": len(records)})
}

func (ic *InventoryController) UpdateInventory(c *gin.Context) {
	var req services.UpdateInventoryRequest
	if err := ic.validator.BindJSON(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}
	rec, err := ic.svc.Update(c.Request.Context(), c.Param("productId"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
