package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/portfolio-backend/internal/model"
	"github.com/stemsi/portfolio-backend/internal/response"
	"github.com/stemsi/portfolio-backend/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for the session claims.
	ContextKeyClaims = "claims"
)

// RequireSession runs the session guard on every request and rejects
// anything that does not evaluate to Valid. An empty role admits any account.
func RequireSession(guard *service.SessionGuard, role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := guard.Evaluate(c.Request.Context(), ExtractToken(c), role)
		if !result.Valid() {
			status, code := Rejection(result.Reason, role)
			response.AbortFail(c, status, code)
			return
		}

		c.Set(ContextKeyClaims, result.Claims)
		c.Next()
	}
}

// GetClaims retrieves the session claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

// ExtractToken reads a bearer token from the Authorization header, falling
// back to the ?token= query parameter for WebSocket upgrades.
func ExtractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.Query("token")
}

// Rejection maps a guard reason to the HTTP status and error code returned to the client.
func Rejection(reason model.GuardReason, role model.Role) (int, response.ErrCode) {
	switch reason {
	case model.ReasonMissing:
		return http.StatusUnauthorized, response.ErrTokenRequired
	case model.ReasonExpired:
		return http.StatusUnauthorized, response.ErrTokenExpired
	case model.ReasonInvalidated:
		return http.StatusUnauthorized, response.ErrSessionInvalidated
	case model.ReasonRoleMismatch:
		if role == model.RoleAdmin {
			return http.StatusForbidden, response.ErrAdminAccessOnly
		}
		return http.StatusForbidden, response.ErrStudentAccessOnly
	default:
		return http.StatusUnauthorized, response.ErrTokenInvalid
	}
}
