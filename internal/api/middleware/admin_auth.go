package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminAuth gates the diagnostic surface's admin endpoints (spec.md §6
// environment controls, §4.4.5 escape hatch) behind a single bearer
// token, generalized down from JWTAuthWithConfig's session/role claims:
// an operator sidecar has no user to authenticate, only itself, so there
// is nothing here to sign or expire — only the "Bearer <token>" header
// shape survives from jwt.go. An empty configured token rejects every
// request, rather than disabling the check silently.
func AdminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"code":    "ADMIN_TOKEN_NOT_CONFIGURED",
				"message": "admin endpoints are disabled: no admin token configured",
			})
			return
		}

		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "missing or malformed authorization header",
			})
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "invalid admin token",
			})
			return
		}

		c.Next()
	}
}
