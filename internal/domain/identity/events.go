package identity

import "github.com/commerce/backend/internal/domain/shared"

// Event types for the identity domain
const (
	EventTypeUserCreated     = "identity.user.created"
	EventTypeUserLoggedIn    = "identity.user.logged_in"
	EventTypeUserDeactivated = "identity.user.deactivated"
)

// UserCreatedEvent is raised when a new user registers
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, "User", user.ID),
		Username:        user.Username,
		Email:           user.Email,
	}
}

// UserLoggedInEvent is raised on a successful login
type UserLoggedInEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}

// NewUserLoggedInEvent creates a new UserLoggedInEvent
func NewUserLoggedInEvent(user *User) *UserLoggedInEvent {
	return &UserLoggedInEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserLoggedIn, "User", user.ID),
		Username:        user.Username,
	}
}
