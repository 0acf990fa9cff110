package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	awspkg "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/aws"
	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
)

type requestMetrics interface {
	IsEnabled() bool
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error
}

// MetricsMiddleware records one request count and latency per resource
// group, plus an error count split by failure kind. Rejections (bad input,
// missing items, stock conflicts) and server faults are separate series.
func MetricsMiddleware(metricsClient requestMetrics, serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsClient == nil || !metricsClient.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		dims := map[string]string{
			"Service":  serviceName,
			"Resource": resourceGroup(c.FullPath()),
			"Method":   c.Request.Method,
		}
		var errDims map[string]string
		if status >= http.StatusBadRequest {
			kind := failureKind(c, status)
			errDims = map[string]string{
				"Service":  serviceName,
				"Resource": dims["Resource"],
				"Kind":     kind.String(),
			}
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_ = metricsClient.RecordCount(ctx, awspkg.MetricHTTPRequests, dims)
			_ = metricsClient.RecordLatency(ctx, awspkg.MetricHTTPLatency, duration, dims)
			if errDims == nil {
				return
			}
			_ = metricsClient.RecordCount(ctx, awspkg.MetricHTTPErrors, errDims)
			if errDims["Kind"] == apperrors.KindInternal.String() {
				_ = metricsClient.RecordCount(ctx, awspkg.MetricHTTPFaults, errDims)
			} else {
				_ = metricsClient.RecordCount(ctx, awspkg.MetricHTTPRejections, errDims)
			}
		}()
	}
}

// resourceGroup reduces a route template to its first static segment:
// /orders/:orderId/cancel -> orders, /parts/low-stock -> parts.
func resourceGroup(fullPath string) string {
	if fullPath == "" {
		return "unmatched"
	}
	seg, _, _ := strings.Cut(strings.TrimPrefix(fullPath, "/"), "/")
	if seg == "" || strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "*") {
		return "root"
	}
	return seg
}

// failureKind prefers the error a handler reported; bare aborts (auth,
// rate limit, no route) fall back to the status code.
func failureKind(c *gin.Context, status int) apperrors.Kind {
	if last := c.Errors.Last(); last != nil {
		return apperrors.KindOf(last.Err)
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.KindUnauthorized
	case http.StatusNotFound:
		return apperrors.KindNotFound
	case http.StatusConflict:
		return apperrors.KindConflict
	case http.StatusMethodNotAllowed:
		return apperrors.KindMethodNotAllowed
	}
	if status < http.StatusInternalServerError {
		return apperrors.KindInvalidInput
	}
	return apperrors.KindInternal
}
