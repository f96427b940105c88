package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quotecrm/internal/domain"
	"quotecrm/internal/service"
)

const (
	ContextKeyUserID       = "user_id"
	ContextKeyUsername     = "username"
	ContextKeyRole         = "role"
	ContextKeyClaims       = "claims"
	ContextKeyCapabilities = "capabilities"
)

// AuthMiddleware returns Gin middleware that validates JWT tokens and injects
// the user context.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing or invalid authorization header"},
			})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "invalid or expired token"},
			})
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyRole, string(claims.Role))
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireCapability returns middleware that checks the caller's effective
// capabilities. The set is resolved once per request.
func RequireCapability(caps service.CapabilityService, required domain.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		set, err := Capabilities(c, caps)
		if err != nil {
			status := http.StatusInternalServerError
			code, msg := "INTERNAL_ERROR", "an internal error occurred"
			if errors.Is(err, domain.ErrUnauthorized) {
				status, code, msg = http.StatusUnauthorized, "UNAUTHORIZED", "missing user context"
			}
			c.AbortWithStatusJSON(status, gin.H{
				"success": false,
				"error":   gin.H{"code": code, "message": msg},
			})
			return
		}
		if !set.Has(required) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"code": "FORBIDDEN", "message": "missing capability " + string(required)},
			})
			return
		}
		c.Next()
	}
}

// Capabilities returns the caller's effective capability set, loading and
// memoizing it on the request context.
func Capabilities(c *gin.Context, caps service.CapabilityService) (domain.CapabilitySet, error) {
	if val, ok := c.Get(ContextKeyCapabilities); ok {
		return val.(domain.CapabilitySet), nil
	}
	userID, err := GetUserID(c)
	if err != nil {
		return nil, err
	}
	set, err := caps.Effective(c.Request.Context(), userID, domain.UserRole(GetRole(c)))
	if err != nil {
		return nil, err
	}
	c.Set(ContextKeyCapabilities, set)
	return set, nil
}

// GetUserID extracts the user ID from the Gin context.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return val.(uuid.UUID), nil
}

// GetRole extracts the user role string from the Gin context.
func GetRole(c *gin.Context) string {
	val, exists := c.Get(ContextKeyRole)
	if !exists {
		return ""
	}
	return val.(string)
}
