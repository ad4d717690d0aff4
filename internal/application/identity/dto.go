package identity

import (
	"time"

	"github.com/google/uuid"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID          uuid.UUID
	Username    string
	Email       string
	FirstName   string
	LastName    string
	IsActive    bool
	IsSuperuser bool
	Permissions []string
	GroupIDs    []uuid.UUID
	LastLoginAt *time.Time
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TokenTTL time.Duration
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// RegisterInput contains the input for self-service registration
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// CreateUserInput contains the input for administrative user creation
type CreateUserInput struct {
	Username    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	IsSuperuser bool
	GroupIDs    []uuid.UUID
}

// UpdateUserInput contains the input for updating a user profile
type UpdateUserInput struct {
	UserID    uuid.UUID
	Email     *string
	FirstName *string
	LastName  *string
}

// CreateGroupInput contains the input for creating a group
type CreateGroupInput struct {
	Name          string
	Description   string
	PermissionIDs []uuid.UUID
}

// UpdateGroupInput contains the input for updating a group
type UpdateGroupInput struct {
	GroupID     uuid.UUID
	Name        string
	Description string
}

// CreatePermissionInput contains the input for creating a permission
type CreatePermissionInput struct {
	Action      string
	Object      string
	Name        string
	Description string
}
