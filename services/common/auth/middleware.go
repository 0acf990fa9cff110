package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
)

const (
	userIDKey = "userID"
	roleKey   = "userRole"
	emailKey  = "userEmail"
)

// RequireUser aborts with 401 when no identity resolves.
func RequireUser(r *Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := r.Resolve(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrUnauthorized.Message})
			return
		}
		setIdentity(c, id)
		c.Next()
	}
}

// OptionalUser attaches an identity when one resolves and never aborts.
func OptionalUser(r *Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := r.Resolve(c.Request); err == nil {
			setIdentity(c, id)
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, id Identity) {
	c.Set(userIDKey, id.UserID)
	if id.Role != "" {
		c.Set(roleKey, id.Role)
	}
	if id.Email != "" {
		c.Set(emailKey, id.Email)
	}
}

// GetUserID returns the identity set by RequireUser/OptionalUser.
func GetUserID(c *gin.Context) (string, bool) {
	v := c.GetString(userIDKey)
	return v, v != ""
}

func GetRole(c *gin.Context) string { return c.GetString(roleKey) }

func GetEmail(c *gin.Context) string { return c.GetString(emailKey) }
