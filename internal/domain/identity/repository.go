package identity

import (
	"context"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the persistence contract for users
type UserRepository interface {
	shared.Repository[*User]
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// PermissionCodes returns the ACTION:object codes granted to the user
	// through group membership
	PermissionCodes(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// GroupRepository defines the persistence contract for groups
type GroupRepository interface {
	shared.Repository[*Group]
	FindByName(ctx context.Context, name string) (*Group, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// PermissionRepository defines the persistence contract for permissions
type PermissionRepository interface {
	Save(ctx context.Context, permission *Permission) error
	FindByID(ctx context.Context, id uuid.UUID) (*Permission, error)
	FindByActionAndObject(ctx context.Context, action PermissionAction, object string) (*Permission, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Permission], error)
	Delete(ctx context.Context, id uuid.UUID) error
}
