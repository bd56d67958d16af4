package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/silvercase/attendance-backend/pkg/jwt"
)

// OwnerContextKey is the key used to store the owner ID in Gin context
const OwnerContextKey = "owner_id"

// OwnerAuth validates the Bearer token and stores the owner ID in context.
// When required is false the middleware lets unauthenticated requests
// through; handlers then fall back to the ownerId query parameter, which
// keeps the API usable for deployments without a token issuer.
func OwnerAuth(jwtService *jwt.Service, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if required {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "unauthorized",
					"message": "Authorization header is required",
					"code":    "MISSING_AUTH_HEADER",
				})
				c.Abort()
				return
			}
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid authorization header format. Expected: Bearer <token>",
				"code":    "INVALID_AUTH_FORMAT",
			})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": "Invalid access token",
				"code":    "INVALID_TOKEN",
			})
			c.Abort()
			return
		}

		c.Set(OwnerContextKey, claims.OwnerID)
		c.Next()
	}
}

// OwnerID resolves the acting owner: the authenticated token's owner when
// present, otherwise the ownerId query parameter.
func OwnerID(c *gin.Context) string {
	if value, exists := c.Get(OwnerContextKey); exists {
		if ownerID, ok := value.(string); ok && ownerID != "" {
			return ownerID
		}
	}
	return c.Query("ownerId")
}
