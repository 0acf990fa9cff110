package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/validation"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/parts-service/services"
)

type ReorderController struct {
	reorder       *services.ReorderService
	analytics     *services.AnalyticsService
	notifications *services.NotificationService
	validator     *validation.RequestValidator
}

func NewReorderController(r *services.ReorderService, a *services.AnalyticsService, n *services.NotificationService, v *validation.RequestValidator) *ReorderController {
	return &ReorderController{reorder: r, analytics: a, notifications: n, validator: v}
}

// Tasks lists the current reorder tasks without sending an alert.
func (rc *ReorderController) Tasks(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	result, err := rc.reorder.Check(c.Request.Context(), uid, false)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result.ReorderTasks)
}

// Check runs the scan now and alerts on anything flagged.
func (rc *ReorderController) Check(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	result, err := rc.reorder.Check(c.Request.Context(), uid, true)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Reorder check completed",
		"lowStockItems": result.LowStockItems,
		"reorderTasks":  result.ReorderTasks,
	})
}

func (rc *ReorderController) Analytics(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	a, err := rc.analytics.Compute(c.Request.Context(), uid)
	if err != nil {
		_ = c.Error(err)
		return
	}
	switch c.Query("type") {
	case "low-stock":
		c.JSON(http.StatusOK, a.LowStockItems)
	case "summary":
		c.JSON(http.StatusOK, a.Summary())
	default:
		c.JSON(http.StatusOK, a)
	}
}

func (rc *ReorderController) Notify(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req services.NotificationRequest
	if err := rc.validator.BindJSON(c, &req, true); err != nil {
		_ = c.Error(err)
		return
	}
	err := rc.notifications.Send(c.Request.Context(), uid, &req)
	switch {
	case errors.Is(err, services.ErrNoTopic):
		c.JSON(http.StatusOK, gin.H{"message": "No topic configured"})
	case err != nil:
		_ = c.Error(err)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Notification sent successfully"})
	}
}
