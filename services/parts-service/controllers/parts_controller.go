package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/auth"
	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/validation"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/parts-service/services"
)

type PartsController struct {
	parts     *services.PartService
	validator *validation.RequestValidator
}

func NewPartsController(parts *services.PartService, v *validation.RequestValidator) *PartsController {
	return &PartsController{parts: parts, validator: v}
}

// userID is set by auth.RequireUser on every route in this service.
func userID(c *gin.Context) (string, bool) {
	id, ok := auth.GetUserID(c)
	if !ok {
		_ = c.Error(apperrors.ErrUnauthorized)
	}
	return id, ok
}

func (pc *PartsController) ListParts(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	parts, err := pc.parts.ListParts(c.Request.Context(), uid, c.Query("vehicleModel"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, parts)
}

func (pc *PartsController) GetPart(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	part, err := pc.parts.GetPart(c.Request.Context(), uid, c.Param("partId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, part)
}

func (pc *PartsController) CreatePart(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req services.CreatePartRequest
	if err := pc.validator.BindJSON(c, &req, false); err != nil {
		_ = c.Error(err)
		return
	}
	part, err := pc.parts.CreatePart(c.Request.Context(), uid, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, part)
}

func (pc *PartsController) UpdatePart(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req services.UpdatePartRequest
	if err := pc.validator.BindJSON(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}
	part, err := pc.parts.UpdatePart(c.Request.Context(), uid, c.Param("partId"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, part)
}

func (pc *PartsController) DeletePart(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	if err := pc.parts.DeletePart(c.Request.Context(), uid, c.Param("partId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Part deleted successfully"})
}
