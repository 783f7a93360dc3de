package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fieldline/backend/internal/infrastructure/auth"
	"github.com/fieldline/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey    = "jwt_claims"
	JWTUIDKey       = "jwt_uid"
	JWTManagerIDKey = "jwt_manager_id"
	AuthHeaderKey   = "Authorization"
	BearerPrefix    = "Bearer "
)

// JWTAuth creates JWT authentication middleware. Requests without a valid
// bearer token are rejected with 401.
func JWTAuth(manager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if !strings.HasPrefix(header, BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "missing bearer token"))
			return
		}

		claims, err := manager.Validate(strings.TrimPrefix(header, BearerPrefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "invalid token"))
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUIDKey, claims.UID)
		c.Set(JWTManagerIDKey, claims.ManagerID)
		c.Next()
	}
}

// GetUID returns the authenticated salesman uid, empty when unauthenticated
func GetUID(c *gin.Context) string {
	return c.GetString(JWTUIDKey)
}

// GetManagerID returns the authenticated user's manager id
func GetManagerID(c *gin.Context) string {
	return c.GetString(JWTManagerIDKey)
}
