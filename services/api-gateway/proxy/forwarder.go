package proxy

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/auth"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/logger"
)

// identityHeaders are only ever set by the gateway itself.
var identityHeaders = []string{"X-User-ID", "X-User-Role", "X-User-Email", auth.RequestContextHeader}

var hopByHop = map[string]bool{
	"connection":          true,
	"keep-alive":          true,
	"proxy-authenticate":  true,
	"proxy-authorization": true,
	"te":                  true,
	"trailers":            true,
	"transfer-encoding":   true,
	"upgrade":             true,
}

// Forwarder relays requests to a backend service unchanged apart from the
// identity headers.
type Forwarder struct {
	client *http.Client
	log    *zap.Logger
}

func NewForwarder(timeout time.Duration, log *zap.Logger) *Forwarder {
	return &Forwarder{
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
		log: log,
	}
}

// To returns a handler that sends the request path and query to base.
func (f *Forwarder) To(base string) gin.HandlerFunc {
	base = strings.TrimRight(base, "/")
	return func(c *gin.Context) {
		target := base + c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			target += "?" + q
		}
		log := logger.For(c, f.log)

		req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, target, c.Request.Body)
		if err != nil {
			log.Error("failed to create forward request", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to create request"})
			return
		}
		req.ContentLength = c.Request.ContentLength
		copyRequestHeaders(req.Header, c.Request.Header)
		injectIdentity(c, req.Header)
		if id := c.GetString(logger.RequestIDKey); id != "" {
			req.Header.Set("X-Request-ID", id)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			log.Error("backend unreachable", zap.String("target", target), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "service unreachable"})
			return
		}
		defer resp.Body.Close()

		for k, v := range resp.Header {
			lower := strings.ToLower(k)
			// CORS is answered by the gateway's own middleware.
			if hopByHop[lower] || strings.HasPrefix(lower, "access-control-") {
				continue
			}
			c.Writer.Header()[k] = v
		}
		c.Status(resp.StatusCode)
		if _, err := io.Copy(c.Writer, resp.Body); err != nil {
			log.Warn("failed to copy backend response", zap.String("target", target), zap.Error(err))
		}
	}
}

func copyRequestHeaders(dst, src http.Header) {
	for k, v := range src {
		if hopByHop[strings.ToLower(k)] {
			continue
		}
		dst[k] = append([]string(nil), v...)
	}
	for _, h := range identityHeaders {
		dst.Del(h)
	}
}

func injectIdentity(c *gin.Context, h http.Header) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		return
	}
	h.Set("X-User-ID", userID)
	if role := auth.GetRole(c); role != "" {
		h.Set("X-User-Role", role)
	}
	if email := auth.GetEmail(c); email != "" {
		h.Set("X-User-Email", email)
	}
}
