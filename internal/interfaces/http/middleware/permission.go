package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/commerce/backend/internal/interfaces/http/dto"
)

// RequirePermission allows the request through only when the token
// carries the named permission. Superusers bypass the check.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetJWTClaims(c)
		if !ok {
			abortUnauthorized(c, "MISSING_TOKEN", "authorization token is required")
			return
		}

		if !claims.HasPermission(permission) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden,
					"insufficient permissions", GetRequestID(c)))
			return
		}

		c.Next()
	}
}

// RequireAnyPermission allows the request through when the token
// carries at least one of the named permissions.
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetJWTClaims(c)
		if !ok {
			abortUnauthorized(c, "MISSING_TOKEN", "authorization token is required")
			return
		}

		if !claims.HasAnyPermission(permissions...) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden,
					"insufficient permissions", GetRequestID(c)))
			return
		}

		c.Next()
	}
}

// RequireSuperuser allows only superusers through
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetJWTClaims(c)
		if !ok {
			abortUnauthorized(c, "MISSING_TOKEN", "authorization token is required")
			return
		}

		if !claims.IsSuperuser {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden,
					"superuser access required", GetRequestID(c)))
			return
		}

		c.Next()
	}
}
