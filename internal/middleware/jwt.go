package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/crmdash/student-crm-api/internal/models"
	"github.com/crmdash/student-crm-api/internal/service"
	appErrors "github.com/crmdash/student-crm-api/pkg/errors"
	"github.com/crmdash/student-crm-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// JWT protects routes by requiring a valid access token.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// Principal extracts the authenticated identity for attribution on writes.
// Falls back to a shared label when the route runs unauthenticated.
func Principal(c *gin.Context) string {
	raw, ok := c.Get(ContextUserKey)
	if !ok {
		return "CRM Team"
	}
	claims, ok := raw.(*models.JWTClaims)
	if !ok || claims.Email == "" {
		return "CRM Team"
	}
	return claims.Email
}
