package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/commerce/backend/internal/infrastructure/auth"
	"github.com/commerce/backend/internal/infrastructure/logger"
	"github.com/commerce/backend/internal/interfaces/http/dto"
)

// Context keys set by the JWT middleware
const (
	JWTClaimsKey      = "jwt_claims"
	JWTUserIDKey      = "jwt_user_id"
	JWTUsernameKey    = "jwt_username"
	JWTIsSuperuserKey = "jwt_is_superuser"
)

// JWTMiddlewareConfig holds JWT middleware configuration
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	Blacklist  auth.TokenBlacklist
	Logger     *zap.Logger

	// SkipPaths are exact paths that bypass authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that bypass authentication
	SkipPathPrefixes []string
}

// DefaultSkipPaths lists the endpoints that never require a token
func DefaultSkipPaths() []string {
	return []string{
		"/health",
		"/api/v1/auth/register",
		"/api/v1/auth/login",
		"/api/v1/auth/refresh",
	}
}

// JWT returns an authentication middleware. Requests to paths outside
// the skip lists must carry a valid Bearer access token; the parsed
// claims are stored on the gin context for handlers and the permission
// middleware.
func JWT(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	skipPaths := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skipPaths[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skipPaths[path]; ok {
			c.Next()
			return
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		tokenString, err := extractBearerToken(c)
		if err != nil {
			abortUnauthorized(c, "MISSING_TOKEN", "authorization token is required")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			handleAuthError(c, err)
			return
		}

		if cfg.Blacklist != nil && claims.ID != "" {
			revoked, err := cfg.Blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				// Blacklist lookups fail open so a Redis outage does not
				// lock out every authenticated user.
				cfg.Logger.Warn("token blacklist check failed",
					zap.Error(err),
					zap.String("request_id", GetRequestID(c)))
			} else if revoked {
				abortUnauthorized(c, "TOKEN_REVOKED", "token has been revoked")
				return
			}
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTUsernameKey, claims.Username)
		c.Set(JWTIsSuperuserKey, claims.IsSuperuser)

		ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", auth.ErrInvalidToken
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", auth.ErrInvalidToken
	}

	return parts[1], nil
}

func handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		abortUnauthorized(c, "TOKEN_EXPIRED", "token has expired")
	case errors.Is(err, auth.ErrTokenNotYetValid):
		abortUnauthorized(c, "TOKEN_NOT_YET_VALID", "token is not yet valid")
	case errors.Is(err, auth.ErrInvalidTokenType):
		abortUnauthorized(c, "TOKEN_INVALID", "access token required")
	default:
		abortUnauthorized(c, "TOKEN_INVALID", "invalid token")
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetJWTClaims returns the claims stored by the JWT middleware
func GetJWTClaims(c *gin.Context) (*auth.Claims, bool) {
	v, exists := c.Get(JWTClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// GetJWTUserID returns the authenticated user's ID
func GetJWTUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(JWTUserIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// IsSuperuser reports whether the authenticated user is a superuser
func IsSuperuser(c *gin.Context) bool {
	v, exists := c.Get(JWTIsSuperuserKey)
	if !exists {
		return false
	}
	super, ok := v.(bool)
	return ok && super
}
