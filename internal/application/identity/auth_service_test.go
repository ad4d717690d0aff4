package identity

import (
	"context"
	"testing"
	"time"

	"github.com/commerce/backend/internal/domain/identity"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/infrastructure/auth"
	"github.com/commerce/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) PermissionCodes(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]string), args.Error(1)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-access-tokens!!",
		RefreshSecret:          "test-secret-key-for-refresh-tokens!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "shop-backend-test",
	})
}

func newTestAuthService(repo *MockUserRepository) (*AuthService, *auth.InMemoryTokenBlacklist) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	return NewAuthService(repo, newTestJWTService(), blacklist, zap.NewNop()), blacklist
}

func newActiveUser(t *testing.T) *identity.User {
	user, err := identity.NewUser("alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	return user
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("returns tokens for valid credentials", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		user := newActiveUser(t)
		repo.On("FindByEmail", ctx, "alice@example.com").Return(user, nil)
		repo.On("PermissionCodes", ctx, user.ID).Return([]string{"READ:product"}, nil)
		repo.On("Save", ctx, user).Return(nil)

		result, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "secret123"})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, "alice", result.User.Username)
		assert.Equal(t, []string{"READ:product"}, result.User.Permissions)
		assert.NotNil(t, user.LastLoginAt)
		repo.AssertExpectations(t)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		user := newActiveUser(t)
		repo.On("FindByEmail", ctx, "alice@example.com").Return(user, nil)

		_, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("rejects unknown user with the same error as wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		repo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "whatever"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("rejects deactivated account", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		user := newActiveUser(t)
		require.NoError(t, user.Deactivate())
		repo.On("FindByEmail", ctx, "alice@example.com").Return(user, nil)

		_, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "secret123"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_DEACTIVATED", domainErr.Code)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates the token pair and revokes the old refresh token", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		user := newActiveUser(t)
		repo.On("FindByEmail", ctx, "alice@example.com").Return(user, nil)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("PermissionCodes", ctx, user.ID).Return([]string{}, nil)
		repo.On("Save", ctx, user).Return(nil)

		login, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "secret123"})
		require.NoError(t, err)

		refreshed, err := svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: login.RefreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)

		// Reusing the first refresh token must fail
		_, err = svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: login.RefreshToken})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_REVOKED", domainErr.Code)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		_, err := svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: "not-a-jwt"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("blacklists the presented token", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, blacklist := newTestAuthService(repo)

		err := svc.Logout(ctx, LogoutInput{
			UserID:   uuid.New(),
			TokenJTI: "some-jti",
			TokenTTL: time.Minute,
		})

		require.NoError(t, err)
		revoked, err := blacklist.IsBlacklisted(ctx, "some-jti")
		require.NoError(t, err)
		assert.True(t, revoked)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("changes password with correct old password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		user := newActiveUser(t)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)

		err := svc.ChangePassword(ctx, ChangePasswordInput{
			UserID:      user.ID,
			OldPassword: "secret123",
			NewPassword: "evenmoresecret",
		})

		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("evenmoresecret"))
	})

	t.Run("rejects wrong old password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		user := newActiveUser(t)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)

		err := svc.ChangePassword(ctx, ChangePasswordInput{
			UserID:      user.ID,
			OldPassword: "wrong",
			NewPassword: "evenmoresecret",
		})

		require.Error(t, err)
	})
}
