package middleware

import (
	"net/http"
	"strings"

	appsvc "github.com/Miraines/MoonyAndStarry/contact-service/internal/app/auth/service"
	authErrors "github.com/Miraines/MoonyAndStarry/contact-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/contact-service/internal/domain/auth/model"
	"github.com/gin-gonic/gin"
)

const userKey = "currentUser"

// BearerAuth resolves the Authorization header into an identity and puts
// it on the request context. Every resolver failure is a 401 with a fixed,
// non-leaking reason.
func BearerAuth(svc appsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		user, err := svc.CurrentUser(c.Request.Context(), token)
		if err != nil {
			switch {
			case authErrors.IsInvalidToken(err):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			case authErrors.IsNotFound(err):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			case authErrors.IsEmailNotVerified(err):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "email not verified"})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireRole gates a route on the resolved identity's role. Must run
// after BearerAuth.
func RequireRole(role model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || user.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the identity stored by BearerAuth.
func CurrentUser(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return model.User{}, false
	}
	user, ok := v.(model.User)
	return user, ok
}
