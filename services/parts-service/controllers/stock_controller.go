package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/validation"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/parts-service/services"
)

type StockController struct {
	stock     *services.StockService
	validator *validation.RequestValidator
}

func NewStockController(stock *services.StockService, v *validation.RequestValidator) *StockController {
	return &StockController{stock: stock, validator: v}
}

func (sc *StockController) LowStock(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	parts, err := sc.stock.LowStock(c.Request.Context(), uid)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, parts)
}

func (sc *StockController) GetStock(c *gin.Context) {
	if _, ok := userID(c); !ok {
		return
	}
	records, err := sc.stock.StockForPart(c.Request.Context(), c.Param("partId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (sc *StockController) UpdateStock(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req services.UpdateStockRequest
	if err := sc.validator.BindJSON(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}
	res, err := sc.stock.UpdateStock(c.Request.Context(), uid, c.Param("partId"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}
