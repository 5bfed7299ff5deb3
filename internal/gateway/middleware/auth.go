package middleware

import (
	"net/http"
	"strings"

	"syntra-bizops/internal/tenant"
	"syntra-bizops/internal/utils"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// JWTAuth verifies the bearer token and stores the caller identity on the
// gin context and the request context.
func JWTAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "missing bearer token",
				"error":   "UNAUTHORIZED",
			})
			return
		}

		claims, err := utils.ParseToken(secret, strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "invalid or expired token",
				"error":   "UNAUTHORIZED",
			})
			return
		}

		id := claims.Identity()
		c.Set(identityKey, id)
		c.Request = c.Request.WithContext(tenant.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

func IdentityFrom(c *gin.Context) (tenant.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return tenant.Identity{}, false
	}
	id, ok := v.(tenant.Identity)
	return id, ok
}
