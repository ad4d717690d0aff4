package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commerce/backend/internal/domain/identity"
	"github.com/commerce/backend/internal/infrastructure/auth"
)

func permissionRouter(claims *auth.Claims, guard gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(JWTClaimsKey, claims)
		}
		c.Next()
	})
	router.GET("/test", guard, func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func doGet(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequirePermission_Granted(t *testing.T) {
	claims := &auth.Claims{Permissions: []string{"product:write"}}
	rec := doGet(permissionRouter(claims, RequirePermission("product:write")))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequirePermission_Denied(t *testing.T) {
	claims := &auth.Claims{Permissions: []string{"product:read"}}
	rec := doGet(permissionRouter(claims, RequirePermission("product:write")))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestRequirePermission_MintedStaffCode(t *testing.T) {
	perm, err := identity.NewPermission(identity.ActionManage, "user", "Can manage users", "")
	require.NoError(t, err)
	assert.Equal(t, identity.CodeManageUsers, perm.Code())

	claims := &auth.Claims{Permissions: []string{perm.Code()}}
	rec := doGet(permissionRouter(claims, RequirePermission(identity.CodeManageUsers)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequirePermission_SuperuserBypass(t *testing.T) {
	claims := &auth.Claims{IsSuperuser: true}
	rec := doGet(permissionRouter(claims, RequirePermission("voucher:delete")))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequirePermission_NoClaims(t *testing.T) {
	rec := doGet(permissionRouter(nil, RequirePermission("product:write")))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAnyPermission(t *testing.T) {
	claims := &auth.Claims{Permissions: []string{"ticket:read"}}
	rec := doGet(permissionRouter(claims, RequireAnyPermission("ticket:write", "ticket:read")))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doGet(permissionRouter(claims, RequireAnyPermission("order:write", "order:read")))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireSuperuser(t *testing.T) {
	rec := doGet(permissionRouter(&auth.Claims{IsSuperuser: true}, RequireSuperuser()))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doGet(permissionRouter(&auth.Claims{}, RequireSuperuser()))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
