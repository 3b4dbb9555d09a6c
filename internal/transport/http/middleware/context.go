package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/chiragtiwari115/CityPulse/internal/infra/logger"
	"github.com/chiragtiwari115/CityPulse/internal/infra/security"
)

const (
	// UserIDKey is the context key for the authenticated user ID.
	UserIDKey = "user_id"
	// ClaimsKey is the context key for the parsed token claims.
	ClaimsKey = "claims"
)

// CurrentUserID returns the authenticated user ID set by RequireAuth.
func CurrentUserID(c *gin.Context) string {
	if val, ok := c.Get(UserIDKey); ok {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}

// CurrentClaims returns the parsed session claims set by RequireAuth.
func CurrentClaims(c *gin.Context) *security.SessionClaims {
	if val, ok := c.Get(ClaimsKey); ok {
		if claims, ok := val.(*security.SessionClaims); ok {
			return claims
		}
	}
	return nil
}

// GetRequestID retrieves the correlation identifier from the request context.
func GetRequestID(c *gin.Context) string {
	if val, ok := c.Request.Context().Value(logger.RequestIDKey{}).(string); ok {
		return val
	}
	return ""
}
