package auth

import (
	"context"
	"testing"
	"time"

	"github.com/commerce/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(accessTTL time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-access-tokens",
		RefreshSecret:          "test-secret-key-for-refresh-tokens",
		AccessTokenExpiration:  accessTTL,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "shop-backend",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestService(15 * time.Minute)
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID:      userID,
		Username:    "alice",
		Email:       "alice@example.com",
		Permissions: []string{"READ:product", "CREATE:order"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.HasPermission("READ:product"))
	assert.False(t, claims.HasPermission("DELETE:product"))

	parsed, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestJWTService_TokenTypeEnforced(t *testing.T) {
	svc := newTestService(15 * time.Minute)

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New(), Username: "alice"})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.Error(t, err, "refresh token rejected as access token")

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.Error(t, err, "access token rejected as refresh token")

	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Empty(t, claims.Permissions, "refresh tokens carry minimal claims")
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := newTestService(-time.Minute)

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New(), Username: "alice"})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc := newTestService(15 * time.Minute)

	_, err := svc.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_SuperuserHasAllPermissions(t *testing.T) {
	c := &Claims{IsSuperuser: true}
	assert.True(t, c.HasPermission("DELETE:anything"))
	assert.True(t, c.HasAnyPermission("READ:product"))
}

func TestInMemoryTokenBlacklist(t *testing.T) {
	bl := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	blacklisted, err := bl.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, blacklisted)

	require.NoError(t, bl.AddToBlacklist(ctx, "jti-1", time.Minute))
	blacklisted, err = bl.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, blacklisted)

	require.NoError(t, bl.AddToBlacklist(ctx, "jti-2", -time.Second))
	blacklisted, err = bl.IsBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, blacklisted, "expired entries are purged")
}
